package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type ResendMailer struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

func NewResend(apiKey, fromEmail, fromName string) *ResendMailer {
	return &ResendMailer{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (m *ResendMailer) Provider() string {
	return ProviderResend
}

func (m *ResendMailer) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if _, err := m.client.Emails.SendWithContext(ctx, m.build(msg)); err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}

	return nil
}

func (m *ResendMailer) build(msg *Message) *resend.SendEmailRequest {
	return &resend.SendEmailRequest{
		From:    Recipient(m.fromName, m.fromEmail),
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Headers: map[string]string{MessageIDHeader: msg.ID},
	}
}
