package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

func NewSMTP(host string, port int, user, password, fromEmail, fromName string) *SMTPMailer {
	return &SMTPMailer{
		dialer:    gomail.NewDialer(host, port, user, password),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (m *SMTPMailer) Provider() string {
	return ProviderSMTP
}

// Send dials once per message. gomail has no context support, so ctx is
// only checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.dialer.DialAndSend(m.build(msg)); err != nil {
		return fmt.Errorf("smtp %s:%d: failed to send email: %w", m.dialer.Host, m.dialer.Port, err)
	}

	return nil
}

func (m *SMTPMailer) build(msg *Message) *gomail.Message {
	message := gomail.NewMessage()
	message.SetAddressHeader("From", m.fromEmail, m.fromName)
	message.SetHeader("To", msg.To...)
	message.SetHeader("Subject", msg.Subject)
	message.SetHeader(MessageIDHeader, msg.ID)
	message.SetBody("text/html", msg.HTML)
	return message
}
