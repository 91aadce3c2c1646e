package model

// ReservationStat is a derived, read-only projection produced by joining
// tickets with users.  Despite the name it is a flattened detail list:
// one row per ticket, never aggregated, with TicketsIssued fixed at 1.
// It is recomputed on every query and never persisted.
type ReservationStat struct {
	AgentName     string `json:"nomAgent"`
	ClientName    string `json:"nomClient"`
	Agency        string `json:"agency"`
	TicketsIssued int    `json:"ticketsIssued"`
}
