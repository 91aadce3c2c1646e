package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rovel/ticket-express/internal/encode"
	"github.com/rovel/ticket-express/internal/model"
)

func TestRenderTicket(t *testing.T) {
	ticket := model.Ticket{
		ID:            42,
		Agency:        "Gare Routière Centrale",
		Mode:          model.ModeBus,
		Name:          "Jean Dupont",
		Email:         "jean@example.com",
		Date:          "2026-09-15",
		DepartureTime: "08:30",
		TotalAmount:   5000,
		Class:         "VIP",
		From:          "Douala",
		To:            "Yaoundé",
	}

	barcodePNG, err := encode.Barcode("Jean Dupont1757923800")
	require.NoError(t, err)
	barcodePath := filepath.Join(t.TempDir(), "barcode.png")
	require.NoError(t, os.WriteFile(barcodePath, barcodePNG, 0o600))

	qrPNG, err := encode.QRCode(ticket)
	require.NoError(t, err)

	data, err := RenderTicket(ticket, barcodePath, qrPNG)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	require.Greater(t, len(data), 1000)
}

func TestRenderTicketMissingBarcodeFile(t *testing.T) {
	ticket := model.Ticket{ID: 1, Mode: model.ModeTrain, Name: "X", Class: "ECO"}
	qrPNG, err := encode.QRCode(ticket)
	require.NoError(t, err)

	_, err = RenderTicket(ticket, filepath.Join(t.TempDir(), "missing.png"), qrPNG)
	require.Error(t, err)
}
