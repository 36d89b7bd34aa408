// Package mailer sends notification email over SMTP. Delivery is best
// effort: callers log and flash a warning on failure, they never roll back
// the state change that triggered the mail.
package mailer

import (
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(to, subject, body string) error
}

// SMTP sends through a submission-port relay with STARTTLS.
type SMTP struct {
	dialer     *gomail.Dialer
	sender     string
	senderName string
}

func NewSMTP(host string, port int, username, password, sender, senderName string) *SMTP {
	return &SMTP{
		dialer:     gomail.NewDialer(host, port, username, password),
		sender:     sender,
		senderName: senderName,
	}
}

func (m *SMTP) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.sender, m.senderName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
