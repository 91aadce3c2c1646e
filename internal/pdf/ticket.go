// Package pdf composes the printable ticket document.  The layout mirrors
// the printed Rovel ticket: an A5 landscape page split into a detail
// column on the left and a stub with the barcode on the right.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/rovel/ticket-express/internal/model"
)

// RenderTicket produces the ticket PDF as an in-memory buffer.  The
// barcode is loaded from the temporary file written during encoding and
// the QR image comes straight from memory.
func RenderTicket(t model.Ticket, barcodePath string, qrPNG []byte) ([]byte, error) {
	doc := gofpdf.New("L", "mm", "A5", "")
	tr := doc.UnicodeTranslatorFromDescriptor("") // cp1252 for accented labels
	doc.AddPage()

	const leftW = 115.0

	// Header band
	doc.SetFillColor(29, 78, 216)
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "B", 14)
	doc.Rect(10, 10, leftW-10, 10, "F")
	doc.SetXY(12, 12)
	doc.CellFormat(leftW-14, 6, "ROVEL TICKET", "", 0, "L", false, 0, "")

	// Detail rows: small grey label above a bold value.
	doc.SetTextColor(31, 41, 55)
	y := 26.0
	row := func(label, value string) {
		doc.SetFont("Helvetica", "", 8)
		doc.SetTextColor(107, 114, 128)
		doc.SetXY(12, y)
		doc.CellFormat(leftW-14, 4, tr(label), "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "B", 11)
		doc.SetTextColor(17, 24, 39)
		doc.SetXY(12, y+4)
		doc.CellFormat(leftW-14, 5, tr(value), "", 0, "L", false, 0, "")
		y += 11
	}
	row("AGENCE CHOISIE:", t.Agency)
	row("Nom:", t.Name)
	row("Date:", t.Date)
	row("Heure de départ:", t.DepartureTime)
	row("Mode:", t.Mode)
	row("Classe:", t.Class)
	row("Montant total:", fmt.Sprintf("%.2f FCFA", t.TotalAmount))

	// Route box with the QR code between origin and destination.
	doc.SetFillColor(29, 78, 216)
	doc.SetTextColor(255, 255, 255)
	doc.Rect(12, y+2, 60, 38, "F")
	doc.SetFont("Helvetica", "", 8)
	doc.SetXY(14, y+3)
	doc.CellFormat(56, 4, "From:", "", 0, "C", false, 0, "")
	doc.SetFont("Helvetica", "B", 12)
	doc.SetXY(14, y+7)
	doc.CellFormat(56, 5, tr(t.From), "", 0, "C", false, 0, "")
	qrOpt := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("ticket-qr", qrOpt, bytes.NewReader(qrPNG))
	doc.ImageOptions("ticket-qr", 32, y+13, 20, 20, false, qrOpt, 0, "")
	doc.SetFont("Helvetica", "", 8)
	doc.SetXY(14, y+33)
	doc.CellFormat(20, 4, "To:", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "B", 12)
	doc.SetXY(14, y+36)
	doc.CellFormat(56, 5, tr(t.To), "", 0, "C", false, 0, "")

	// Right stub, separated by a dashed rule.
	doc.SetDrawColor(204, 204, 204)
	doc.SetDashPattern([]float64{1.5, 1.5}, 0)
	doc.Line(leftW+5, 10, leftW+5, 138)
	doc.SetDashPattern([]float64{}, 0)

	doc.SetTextColor(29, 78, 216)
	doc.SetFont("Helvetica", "B", 13)
	doc.SetXY(leftW+10, 16)
	doc.CellFormat(70, 6, tr("CLASS: "+t.Class), "", 0, "C", false, 0, "")

	bcOpt := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.ImageOptions(barcodePath, leftW+15, 30, 60, 20, false, bcOpt, 0, "")

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(107, 114, 128)
	doc.SetXY(leftW+10, 54)
	doc.CellFormat(70, 5, fmt.Sprintf("Ticket #%d", t.ID), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket pdf: %w", err)
	}
	return buf.Bytes(), nil
}
