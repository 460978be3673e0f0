// Package mailer sends transactional mail over SMTP.
package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Sender is what services depend on; Mailer is the SMTP implementation.
type Sender interface {
	SendOTP(toEmail, toName, code, purpose string) error
}

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

var _ Sender = (*Mailer)(nil)

func New(host string, port int, user, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// SendOTP delivers a one-time code. purpose selects the subject line, e.g.
// "password_reset".
func (m *Mailer) SendOTP(toEmail, toName, code, purpose string) error {
	subject := "Your HelpLink verification code"
	if purpose == "password_reset" {
		subject = "Your HelpLink password reset code"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetAddressHeader("To", toEmail, toName)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour verification code is: %s\n\nThis code expires shortly. If you did not request it, you can ignore this email.\n",
		toName, code,
	))
	msg.AddAlternative("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>Your verification code is: <strong>%s</strong></p><p>This code expires shortly. If you did not request it, you can ignore this email.</p>",
		toName, code,
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
