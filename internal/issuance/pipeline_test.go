package issuance

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovel/ticket-express/internal/model"
	"github.com/rovel/ticket-express/internal/queue"
)

type fakeStore struct {
	nextID  uint64
	created []model.Ticket
	err     error
}

func (s *fakeStore) Create(_ context.Context, t *model.Ticket) error {
	if s.err != nil {
		return s.err
	}
	s.nextID++
	t.ID = s.nextID
	s.created = append(s.created, *t)
	return nil
}

type fakeDirectory struct {
	users map[string]model.User
}

func (d *fakeDirectory) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := d.users[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

type fakeMailer struct {
	sent []model.Ticket
	err  error
}

func (m *fakeMailer) SendTicket(t model.Ticket, pdfData, barcodePNG []byte) error {
	if m.err != nil {
		return m.err
	}
	if len(pdfData) == 0 || len(barcodePNG) == 0 {
		return errors.New("empty attachment")
	}
	m.sent = append(m.sent, t)
	return nil
}

func newTestPipeline(store *fakeStore, mail *fakeMailer, events *[]queue.TicketIssuedEvent) *Pipeline {
	dir := &fakeDirectory{users: map[string]model.User{
		"agent@rovel.cm": {ID: 7, Email: "agent@rovel.cm", Name: "Agent", Role: model.RoleAgent},
	}}
	var publish PublishFunc
	if events != nil {
		publish = func(_ context.Context, ev queue.TicketIssuedEvent) error {
			*events = append(*events, ev)
			return nil
		}
	}
	return New(store, dir, mail, publish)
}

func TestIssueSuccess(t *testing.T) {
	store := &fakeStore{}
	mail := &fakeMailer{}
	var events []queue.TicketIssuedEvent
	p := newTestPipeline(store, mail, &events)

	res, err := p.Issue(context.Background(), "agent@rovel.cm", validRequest())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.TicketID)
	assert.True(t, res.Delivered)

	require.Len(t, store.created, 1)
	assert.Equal(t, uint64(7), store.created[0].UserID)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "jean@example.com", mail.sent[0].Email)

	require.Len(t, events, 1)
	assert.Equal(t, uint64(1), events[0].TicketID)
	assert.True(t, events[0].Delivered)
}

func TestIssueValidationFailureHasNoSideEffects(t *testing.T) {
	store := &fakeStore{}
	mail := &fakeMailer{}
	p := newTestPipeline(store, mail, nil)

	req := validRequest()
	req.Email = "broken"
	_, err := p.Issue(context.Background(), "agent@rovel.cm", req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "email")
	assert.Empty(t, store.created)
	assert.Empty(t, mail.sent)
}

func TestIssueUnknownAgent(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(store, &fakeMailer{}, nil)

	_, err := p.Issue(context.Background(), "ghost@rovel.cm", validRequest())
	require.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, store.created)
}

func TestIssueStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	p := newTestPipeline(store, &fakeMailer{}, nil)

	res, err := p.Issue(context.Background(), "agent@rovel.cm", validRequest())
	require.Error(t, err)
	var pErr *PostPersistError
	assert.False(t, errors.As(err, &pErr), "insert failure is not post-persist")
	assert.Zero(t, res.TicketID)
}

func TestIssueMailFailureKeepsTicket(t *testing.T) {
	store := &fakeStore{}
	mail := &fakeMailer{err: errors.New("relay refused")}
	var events []queue.TicketIssuedEvent
	p := newTestPipeline(store, mail, &events)

	res, err := p.Issue(context.Background(), "agent@rovel.cm", validRequest())

	var pErr *PostPersistError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "deliver", pErr.Stage)
	assert.Equal(t, uint64(1), pErr.TicketID)

	// The row stays; the result still carries the id for reporting.
	assert.Equal(t, uint64(1), res.TicketID)
	assert.False(t, res.Delivered)
	require.Len(t, store.created, 1)

	// The event is still published, flagged undelivered.
	require.Len(t, events, 1)
	assert.False(t, events[0].Delivered)
}
