package repository

import (
	"context"
	"database/sql"

	"github.com/rovel/ticket-express/internal/model"
)

// StatsRepo computes reservation statistics by joining tickets with the
// agents who issued them.  The output is a flat detail list: one row per
// ticket with a constant issued count of 1, ordered by agency, then
// agent name, then client name.
type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// ListReservationStats joins tickets and users on the owning-agent
// foreign key and returns one row per ticket.
func (r *StatsRepo) ListReservationStats(ctx context.Context) ([]model.ReservationStat, error) {
	const q = `SELECT u.name AS agent_name, t.name AS client_name, t.agency
	           FROM tickets t
	           JOIN users u ON u.id = t.user_id
	           ORDER BY t.agency, u.name, t.name`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stats := make([]model.ReservationStat, 0)
	for rows.Next() {
		var s model.ReservationStat
		if err := rows.Scan(&s.AgentName, &s.ClientName, &s.Agency); err != nil {
			return nil, err
		}
		s.TicketsIssued = 1 // each row is one issued ticket, never aggregated
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
