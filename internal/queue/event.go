// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketIssuedEvent is published after a ticket has been persisted and its
// document generated.  It carries enough information for downstream
// consumers to log, notify, or feed analytics without querying the
// primary database.
type TicketIssuedEvent struct {
	TicketID      uint64  `json:"ticket_id"`
	UserID        uint64  `json:"user_id"`
	Agency        string  `json:"agency"`
	Mode          string  `json:"mode"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Date          string  `json:"date"`
	DepartureTime string  `json:"departure_time"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	Class         string  `json:"class"`
	TotalAmount   float64 `json:"total_amount"`
	Delivered     bool    `json:"delivered"`
	IssuedAt      string  `json:"issued_at"`
}
