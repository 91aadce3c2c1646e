package issuance

import (
	"encoding/json"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/rovel/ticket-express/internal/model"
)

// Request is the booking payload submitted to POST /v1/tickets.  The
// amount is kept raw because clients send it either as a JSON number or
// as a numeric string; ParseAmount normalizes both.
type Request struct {
	Agency        string          `json:"agency"`
	Mode          string          `json:"mode"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Date          string          `json:"date"`
	DepartureTime string          `json:"departureTime"`
	TotalAmount   json.RawMessage `json:"totalAmount"`
	Class         string          `json:"class"`
	From          string          `json:"from"`
	To            string          `json:"to"`
}

// Numeric strings may carry at most two decimal places and no sign.
var amountString = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ParseAmount converts the raw totalAmount into a non-negative float.
// A JSON number must be ≥ 0; a JSON string must match amountString.
func ParseAmount(raw json.RawMessage) (float64, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, false
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, false
		}
		if !amountString.MatchString(str) {
			return 0, false
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// validEmail accepts a bare addr-spec such as jean@x.com; addresses with
// display names or comments are rejected.
func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

// Validate checks the booking payload against the issuance schema and
// returns the ticket to persist.  On failure the second return value is
// a field→message map and no side effects have occurred.  Messages are
// the ones the booking form displays.
func Validate(req Request) (model.Ticket, map[string]string) {
	fields := map[string]string{}

	agency := strings.TrimSpace(req.Agency)
	if agency == "" {
		fields["agency"] = "L'agence est requise."
	}
	mode := strings.ToUpper(strings.TrimSpace(req.Mode))
	if !model.ValidMode(mode) {
		fields["mode"] = "Mode de transport invalide."
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fields["name"] = "Le nom du client est requis."
	}
	email := strings.TrimSpace(req.Email)
	if !validEmail(email) {
		fields["email"] = "Format d'email invalide."
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		fields["date"] = "La date est requise."
	}
	departure := strings.TrimSpace(req.DepartureTime)
	if departure == "" {
		fields["departureTime"] = "L'heure de départ est requise."
	}
	amount, ok := ParseAmount(req.TotalAmount)
	if !ok {
		fields["totalAmount"] = "Le montant total doit être un nombre positif."
	}
	class := strings.TrimSpace(req.Class)
	if class == "" {
		fields["class"] = "La classe est requise."
	}
	from := strings.TrimSpace(req.From)
	if from == "" {
		fields["from"] = "Le lieu de départ est requis."
	}
	to := strings.TrimSpace(req.To)
	if to == "" {
		fields["to"] = "Le lieu d'arrivée est requis."
	}

	if len(fields) > 0 {
		return model.Ticket{}, fields
	}
	return model.Ticket{
		Agency:        agency,
		Mode:          mode,
		Name:          name,
		Email:         email,
		Date:          date,
		DepartureTime: departure,
		TotalAmount:   amount,
		Class:         class,
		From:          from,
		To:            to,
	}, nil
}
