package model

import "time"

// Transport modes accepted in tickets.mode.  AVION is kept from the
// historical schema; existing rows and printed QR payloads use it.
const (
	ModeBus   = "BUS"
	ModeTrain = "TRAIN"
	ModePlane = "AVION"
)

// ValidMode reports whether m is one of the fixed transport modes.
func ValidMode(m string) bool {
	return m == ModeBus || m == ModeTrain || m == ModePlane
}

// Ticket mirrors the `tickets` table.  A ticket records one booking made
// by an agent (UserID) for a passenger (Name/Email).  Date and
// DepartureTime are stored as the free-form strings the booking form
// submits ("2025-06-25", "08:00"); the database does not interpret them.
//
// Fields:
//
//	ID            – primary key identifier.
//	Agency        – travel agency the booking was made with.
//	Mode          – transport mode (BUS, TRAIN, AVION).
//	Name          – passenger name.
//	Email         – passenger email, destination of the ticket mail.
//	Date          – travel date.
//	DepartureTime – departure time.
//	TotalAmount   – price in FCFA, non-negative.
//	Class         – fare class (e.g. "Standard", "VIP").
//	From          – origin location (tickets.from_location).
//	To            – destination location (tickets.to_location).
//	UserID        – owning agent (tickets.user_id).
//	CreatedAt     – creation timestamp.
//	UpdatedAt     – last update timestamp.
type Ticket struct {
	ID            uint64    `json:"id"`
	Agency        string    `json:"agency"`
	Mode          string    `json:"mode"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Date          string    `json:"date"`
	DepartureTime string    `json:"departureTime"`
	TotalAmount   float64   `json:"totalAmount"`
	Class         string    `json:"class"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	UserID        uint64    `json:"userId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
