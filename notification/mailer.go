package notification

import (
	"ayursutra/models"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-gomail/gomail"
)

// ErrSendFailed wraps every transport failure.
var ErrSendFailed = errors.New("error sending email")

// Dialer is the SMTP transport; *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer composes appointment mails and hands them to the SMTP transport.
type Mailer struct {
	dialer Dialer
	from   string
}

// NewMailer returns a Mailer sending through dialer as from.
func NewMailer(dialer Dialer, from string) *Mailer {
	return &Mailer{dialer: dialer, from: from}
}

// NewSMTPDialer builds the gomail dialer for the given server.
func NewSMTPDialer(host string, port int, user, password string) *gomail.Dialer {
	return gomail.NewDialer(host, port, user, password)
}

// Send composes the mail for n, attaches the appointment slip and sends it.
func (m *Mailer) Send(ctx context.Context, n *models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	details := DetailsFor(n)
	slip, err := AppointmentSlip(details)
	if err != nil {
		return fmt.Errorf("render appointment slip: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", n.Recipient)
	msg.SetHeader("Subject", Subject)
	msg.SetBody("text/plain", Body(details))
	msg.Attach(SlipName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(slip)
		return err
	}))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("%w to %s: %v", ErrSendFailed, n.Recipient, err)
	}
	return nil
}
