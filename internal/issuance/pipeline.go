// Package issuance implements the ticket issuance pipeline: validate the
// booking payload, resolve the issuing agent, persist the ticket, derive
// the barcode and QR images, render the PDF, deliver it by email and
// publish a ticket.issued event.  Steps run strictly in order; once the
// insert has succeeded the ticket exists regardless of later failures.
package issuance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rovel/ticket-express/internal/encode"
	"github.com/rovel/ticket-express/internal/logger"
	"github.com/rovel/ticket-express/internal/model"
	"github.com/rovel/ticket-express/internal/pdf"
	"github.com/rovel/ticket-express/internal/queue"
)

// Store persists tickets.  *repository.TicketRepo satisfies it.
type Store interface {
	Create(ctx context.Context, t *model.Ticket) error
}

// Directory resolves the issuing agent.  *repository.UserRepo satisfies it.
type Directory interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// Mailer delivers the rendered ticket.  *mailer.Mailer satisfies it.
type Mailer interface {
	SendTicket(t model.Ticket, pdfData, barcodePNG []byte) error
}

// PublishFunc publishes a ticket.issued event.  Publishing is
// best-effort: errors are logged and never surfaced to the caller.
type PublishFunc func(ctx context.Context, ev queue.TicketIssuedEvent) error

// ErrUserNotFound indicates the session email no longer maps to a user
// row, which means the session is stale or orphaned.
var ErrUserNotFound = errors.New("user not found")

// ValidationError carries the field-level error map from the validate
// step.  No side effects have occurred when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "ticket payload validation failed" }

// PostPersistError reports a failure in the encode, render or deliver
// steps.  The ticket row already exists and is never rolled back;
// TicketID lets callers surface the created id alongside the error.
type PostPersistError struct {
	TicketID uint64
	Stage    string
	Err      error
}

func (e *PostPersistError) Error() string {
	return fmt.Sprintf("%s failed for ticket %d: %v", e.Stage, e.TicketID, e.Err)
}

func (e *PostPersistError) Unwrap() error { return e.Err }

// Result reports the outcome of an issuance run.  TicketID is non-zero
// as soon as the persist step succeeds; Delivered is true only when the
// mail left the relay.
type Result struct {
	TicketID  uint64
	Delivered bool
}

// Pipeline wires the issuance steps together.
type Pipeline struct {
	Tickets Store
	Users   Directory
	Mail    Mailer
	Publish PublishFunc // nil disables event publishing

	log zerolog.Logger
}

// New builds a Pipeline.  Publish may be nil.
func New(tickets Store, users Directory, mail Mailer, publish PublishFunc) *Pipeline {
	return &Pipeline{
		Tickets: tickets,
		Users:   users,
		Mail:    mail,
		Publish: publish,
		log:     logger.With("pipeline"),
	}
}

// Issue runs the pipeline for the agent identified by agentEmail.
// Failures before the insert leave no trace; failures after it return a
// *PostPersistError whose TicketID identifies the row that was kept.
func (p *Pipeline) Issue(ctx context.Context, agentEmail string, req Request) (Result, error) {
	// Validate
	ticket, fields := Validate(req)
	if fields != nil {
		return Result{}, &ValidationError{Fields: fields}
	}

	// Resolve the caller's durable user id by email.
	agent, err := p.Users.GetByEmail(ctx, agentEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, ErrUserNotFound
		}
		return Result{}, fmt.Errorf("resolve agent %s: %w", agentEmail, err)
	}
	ticket.UserID = agent.ID

	// Persist: a single atomic insert; the database assigns the id.
	if err := p.Tickets.Create(ctx, &ticket); err != nil {
		return Result{}, fmt.Errorf("insert ticket: %w", err)
	}
	res := Result{TicketID: ticket.ID}

	// Encode: barcode payload is passenger name + timestamp, unique per
	// call.  The image is kept on disk while the document is assembled
	// and removed on every exit path below.
	barcodePNG, err := encode.Barcode(fmt.Sprintf("%s%d", ticket.Name, time.Now().Unix()))
	if err != nil {
		return res, &PostPersistError{TicketID: ticket.ID, Stage: "encode", Err: err}
	}
	barcodePath := filepath.Join(os.TempDir(), fmt.Sprintf("barcode-%s.png", uuid.NewString()))
	if err := os.WriteFile(barcodePath, barcodePNG, 0o600); err != nil {
		return res, &PostPersistError{TicketID: ticket.ID, Stage: "encode", Err: err}
	}
	defer func() {
		if err := os.Remove(barcodePath); err != nil {
			p.log.Warn().Err(err).Str("path", barcodePath).Msg("remove temp barcode failed")
		}
	}()
	qrPNG, err := encode.QRCode(ticket)
	if err != nil {
		return res, &PostPersistError{TicketID: ticket.ID, Stage: "encode", Err: err}
	}

	// Render
	pdfData, err := pdf.RenderTicket(ticket, barcodePath, qrPNG)
	if err != nil {
		return res, &PostPersistError{TicketID: ticket.ID, Stage: "render", Err: err}
	}

	// Deliver
	if err := p.Mail.SendTicket(ticket, pdfData, barcodePNG); err != nil {
		p.publish(ctx, ticket, false)
		return res, &PostPersistError{TicketID: ticket.ID, Stage: "deliver", Err: err}
	}
	res.Delivered = true
	p.log.Info().Uint64("ticket_id", ticket.ID).Str("to", ticket.Email).Msg("ticket issued and mailed")

	p.publish(ctx, ticket, true)
	return res, nil
}

func (p *Pipeline) publish(ctx context.Context, t model.Ticket, delivered bool) {
	if p.Publish == nil {
		return
	}
	ev := queue.TicketIssuedEvent{
		TicketID:      t.ID,
		UserID:        t.UserID,
		Agency:        t.Agency,
		Mode:          t.Mode,
		Name:          t.Name,
		Email:         t.Email,
		Date:          t.Date,
		DepartureTime: t.DepartureTime,
		From:          t.From,
		To:            t.To,
		Class:         t.Class,
		TotalAmount:   t.TotalAmount,
		Delivered:     delivered,
		IssuedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := p.Publish(ctx, ev); err != nil {
		p.log.Warn().Err(err).Uint64("ticket_id", t.ID).Msg("publish ticket.issued failed")
	}
}
