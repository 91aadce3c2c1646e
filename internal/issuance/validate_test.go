package issuance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	return Request{
		Agency:        "Gare Routière Centrale",
		Mode:          "BUS",
		Name:          "Jean Dupont",
		Email:         "jean@example.com",
		Date:          "2026-09-15",
		DepartureTime: "08:30",
		TotalAmount:   json.RawMessage(`5000`),
		Class:         "VIP",
		From:          "Douala",
		To:            "Yaoundé",
	}
}

func TestValidateOK(t *testing.T) {
	ticket, fields := Validate(validRequest())
	require.Nil(t, fields)
	assert.Equal(t, "BUS", ticket.Mode)
	assert.Equal(t, "Jean Dupont", ticket.Name)
	assert.Equal(t, 5000.0, ticket.TotalAmount)
	assert.Zero(t, ticket.ID)
	assert.Zero(t, ticket.UserID)
}

func TestValidateNormalizesMode(t *testing.T) {
	req := validRequest()
	req.Mode = " train "
	ticket, fields := Validate(req)
	require.Nil(t, fields)
	assert.Equal(t, "TRAIN", ticket.Mode)
}

func TestValidateFieldErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
		field  string
		msg    string
	}{
		{"missing agency", func(r *Request) { r.Agency = "  " }, "agency", "L'agence est requise."},
		{"bad mode", func(r *Request) { r.Mode = "VOITURE" }, "mode", "Mode de transport invalide."},
		{"missing name", func(r *Request) { r.Name = "" }, "name", "Le nom du client est requis."},
		{"bad email", func(r *Request) { r.Email = "not-an-email" }, "email", "Format d'email invalide."},
		{"email with display name", func(r *Request) { r.Email = "Jean <jean@example.com>" }, "email", "Format d'email invalide."},
		{"missing date", func(r *Request) { r.Date = "" }, "date", "La date est requise."},
		{"missing departure", func(r *Request) { r.DepartureTime = "" }, "departureTime", "L'heure de départ est requise."},
		{"negative amount", func(r *Request) { r.TotalAmount = json.RawMessage(`-5`) }, "totalAmount", "Le montant total doit être un nombre positif."},
		{"missing class", func(r *Request) { r.Class = "" }, "class", "La classe est requise."},
		{"missing from", func(r *Request) { r.From = "" }, "from", "Le lieu de départ est requis."},
		{"missing to", func(r *Request) { r.To = "" }, "to", "Le lieu d'arrivée est requis."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, fields := Validate(req)
			require.NotNil(t, fields)
			assert.Equal(t, tc.msg, fields[tc.field])
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	_, fields := Validate(Request{})
	require.NotNil(t, fields)
	assert.Len(t, fields, 10)
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{`5000`, 5000, true},
		{`1234.5`, 1234.5, true},
		{`0`, 0, true},
		{`"5000"`, 5000, true},
		{`"1234.50"`, 1234.5, true},
		{`"12.345"`, 0, false}, // three decimal places
		{`"-5"`, 0, false},
		{`-1`, 0, false},
		{`"abc"`, 0, false},
		{`null`, 0, false},
		{``, 0, false},
		{`true`, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(json.RawMessage(tc.raw))
		assert.Equal(t, tc.ok, ok, "raw=%s", tc.raw)
		if tc.ok {
			assert.Equal(t, tc.want, got, "raw=%s", tc.raw)
		}
	}
}
