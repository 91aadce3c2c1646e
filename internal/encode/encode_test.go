package encode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovel/ticket-express/internal/model"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func sampleTicket() model.Ticket {
	return model.Ticket{
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
}

func TestBarcodePNG(t *testing.T) {
	data, err := Barcode("Jean Dupont1757923800")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestQRCodePNG(t *testing.T) {
	data, err := QRCode(sampleTicket())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestQRPayloadKeyOrder(t *testing.T) {
	payload, err := QRPayload(sampleTicket())
	require.NoError(t, err)
	// Scanners of printed tickets depend on this exact layout.
	assert.JSONEq(t, `{
		"name":"Jean Dupont",
		"agency":"Gare Routière Centrale",
		"mode":"BUS",
		"date":"2026-09-15",
		"departureTime":"08:30",
		"from":"Douala",
		"to":"Yaoundé",
		"class":"VIP",
		"totalAmount":5000
	}`, payload)
	assert.True(t, bytes.HasPrefix([]byte(payload), []byte(`{"name"`)))
}
