// Package mailer delivers the rendered ticket to the passenger by email:
// an HTML summary of the reservation, the barcode inline, and the PDF as
// an attachment.
package mailer

import (
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/rovel/ticket-express/internal/model"
)

const senderName = "Rovel Reservation"

// Mailer sends ticket mail through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New builds a Mailer for the given relay account.
func New(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

// SendTicket mails the ticket to the passenger address recorded on the
// ticket.  The barcode is embedded with a content id referenced from the
// HTML body and the PDF is attached as ticket.pdf.  A delivery failure is
// reported to the caller; the caller must not treat it as a reason to
// undo the already persisted ticket.
func (m *Mailer) SendTicket(t model.Ticket, pdfData, barcodePNG []byte) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, senderName)
	msg.SetHeader("To", t.Email)
	msg.SetHeader("Subject", "Votre ticket de réservation")
	msg.SetBody("text/html", ticketBody(t))
	msg.Embed("barcode.png", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(barcodePNG)
		return err
	}))
	msg.Attach("ticket.pdf", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdfData)
		return err
	}))
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send ticket mail to %s: %w", t.Email, err)
	}
	return nil
}

func ticketBody(t model.Ticket) string {
	return fmt.Sprintf(`
      <p>Cher(e) %s, merci pour votre réservation via Rovel-TicketExpress.</p>
      <p>Voici les détails de votre réservation :</p>
      <ul>
        <li><strong>Agence :</strong> %s</li>
        <li><strong>Mode :</strong> %s</li>
        <li><strong>De :</strong> %s &rarr; <strong>À :</strong> %s</li>
        <li><strong>Date :</strong> %s à %s</li>
        <li><strong>Classe :</strong> %s</li>
        <li><strong>Montant :</strong> %.2f FCFA</li>
      </ul>
      <p>Code-barres ci-dessous :</p>
      <img src="cid:barcode.png" />
      <p>Votre ticket est joint en PDF.</p>`,
		t.Name, t.Agency, t.Mode, t.From, t.To, t.Date, t.DepartureTime, t.Class, t.TotalAmount)
}
