// Package encode derives the machine-readable representations printed on
// a ticket: a code128 barcode and a QR code, both rendered as PNG.
package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"

	"github.com/rovel/ticket-express/internal/model"
)

// qrPayload is the structured ticket summary embedded in the QR image.
// Field order and key names match the payload printed by the historical
// issuing system, so existing scanners keep working.
type qrPayload struct {
	Name          string  `json:"name"`
	Agency        string  `json:"agency"`
	Mode          string  `json:"mode"`
	Date          string  `json:"date"`
	DepartureTime string  `json:"departureTime"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	Class         string  `json:"class"`
	TotalAmount   float64 `json:"totalAmount"`
}

// QRPayload serializes the ticket summary carried by the QR code.
func QRPayload(t model.Ticket) (string, error) {
	b, err := json.Marshal(qrPayload{
		Name:          t.Name,
		Agency:        t.Agency,
		Mode:          t.Mode,
		Date:          t.Date,
		DepartureTime: t.DepartureTime,
		From:          t.From,
		To:            t.To,
		Class:         t.Class,
		TotalAmount:   t.TotalAmount,
	})
	if err != nil {
		return "", fmt.Errorf("marshal qr payload: %w", err)
	}
	return string(b), nil
}

// Barcode renders content as a code128 barcode PNG.
func Barcode(content string) ([]byte, error) {
	bc, err := code128.Encode(content)
	if err != nil {
		return nil, fmt.Errorf("encode code128: %w", err)
	}
	scaled, err := barcode.Scale(bc, 240, 80)
	if err != nil {
		return nil, fmt.Errorf("scale barcode: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("png encode barcode: %w", err)
	}
	return buf.Bytes(), nil
}

// QRCode renders the ticket summary as a QR PNG with the highest error
// correction level, matching the printed reference tickets.
func QRCode(t model.Ticket) ([]byte, error) {
	payload, err := QRPayload(t)
	if err != nil {
		return nil, err
	}
	code, err := qr.Encode(payload, qr.H, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	scaled, err := barcode.Scale(code, 256, 256)
	if err != nil {
		return nil, fmt.Errorf("scale qr: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("png encode qr: %w", err)
	}
	return buf.Bytes(), nil
}
