package repository

import (
	"context"
	"database/sql"

	"github.com/rovel/ticket-express/internal/model"
)

// TicketRepo provides owner-scoped CRUD over the `tickets` table.  Every
// read and mutation for ordinary agents filters by id AND user_id so a
// ticket belonging to another agent is indistinguishable from a ticket
// that does not exist.  Administrators use the *All variants.
type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

const ticketColumns = `id, agency, mode, name, email, date, departure_time,
	total_amount, class, from_location, to_location, user_id, created_at, updated_at`

func scanTicket(row interface{ Scan(...interface{}) error }, t *model.Ticket) error {
	return row.Scan(&t.ID, &t.Agency, &t.Mode, &t.Name, &t.Email, &t.Date,
		&t.DepartureTime, &t.TotalAmount, &t.Class, &t.From, &t.To,
		&t.UserID, &t.CreatedAt, &t.UpdatedAt)
}

// Create inserts one ticket row and populates the generated ID on t.
// The insert is a single atomic statement; there is no partial row to
// clean up when it fails.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO tickets
		 (agency, mode, name, email, date, departure_time, total_amount, class, from_location, to_location, user_id)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.Agency, t.Mode, t.Name, t.Email, t.Date, t.DepartureTime,
		t.TotalAmount, t.Class, t.From, t.To, t.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByIDForUser returns a ticket owned by the given user.  A ticket
// owned by someone else yields ErrTicketNotFound, never the row.
func (r *TicketRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Ticket, error) {
	var t model.Ticket
	err := scanTicket(r.DB.QueryRowContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE id=? AND user_id=? LIMIT 1",
		id, userID), &t)
	if err == sql.ErrNoRows {
		return t, ErrTicketNotFound
	}
	return t, err
}

// GetByID returns a ticket regardless of owner.  Administrator use only.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	var t model.Ticket
	err := scanTicket(r.DB.QueryRowContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE id=? LIMIT 1", id), &t)
	if err == sql.ErrNoRows {
		return t, ErrTicketNotFound
	}
	return t, err
}

// ListByUser returns all tickets owned by a user, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE user_id=? ORDER BY id DESC", userID)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

// ListAll returns every ticket row.  Administrator use only.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

func collectTickets(rows *sql.Rows) ([]model.Ticket, error) {
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// UpdateForUser replaces the mutable fields of a ticket owned by userID.
// It returns ErrTicketNotFound when the id does not exist for that owner.
func (r *TicketRepo) UpdateForUser(ctx context.Context, t *model.Ticket, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE tickets SET agency=?, mode=?, name=?, email=?, date=?, departure_time=?,
		 total_amount=?, class=?, from_location=?, to_location=?
		 WHERE id=? AND user_id=?`,
		t.Agency, t.Mode, t.Name, t.Email, t.Date, t.DepartureTime,
		t.TotalAmount, t.Class, t.From, t.To, t.ID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is absent for this owner or the update changed
		// nothing; confirm ownership before reporting not found.
		var id uint64
		err := r.DB.QueryRowContext(ctx,
			"SELECT id FROM tickets WHERE id=? AND user_id=? LIMIT 1",
			t.ID, userID).Scan(&id)
		if err == sql.ErrNoRows {
			return ErrTicketNotFound
		}
		return err
	}
	return nil
}

// DeleteForUser removes a ticket owned by userID.  Admin callers pass
// admin=true to delete any ticket regardless of owner.
func (r *TicketRepo) DeleteForUser(ctx context.Context, id, userID uint64, admin bool) error {
	var (
		res sql.Result
		err error
	)
	if admin {
		res, err = r.DB.ExecContext(ctx, "DELETE FROM tickets WHERE id=?", id)
	} else {
		res, err = r.DB.ExecContext(ctx, "DELETE FROM tickets WHERE id=? AND user_id=?", id, userID)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}
