package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridMailer struct {
	fromEmail string
	fromName  string
	apiKey    string
	sandbox   bool
	client    *sendgrid.Client
}

func NewSendgrid(apiKey, fromEmail, fromName string, sandbox bool) *SendGridMailer {
	return &SendGridMailer{
		fromEmail: fromEmail,
		fromName:  fromName,
		apiKey:    apiKey,
		sandbox:   sandbox,
		client:    sendgrid.NewSendClient(apiKey),
	}
}

func (m *SendGridMailer) Provider() string {
	return ProviderSendgrid
}

// Send delivers one personalization per recipient so addresses are not
// disclosed to each other.
func (m *SendGridMailer) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	resp, err := m.client.SendWithContext(ctx, m.build(msg))
	if err != nil {
		return fmt.Errorf("sendgrid: failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}

	return nil
}

func (m *SendGridMailer) build(msg *Message) *mail.SGMailV3 {
	from := mail.NewEmail(m.fromName, m.fromEmail)

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = msg.Subject
	message.AddContent(mail.NewContent("text/html", msg.HTML))
	message.SetHeader(MessageIDHeader, msg.ID)

	for _, to := range msg.To {
		p := mail.NewPersonalization()
		p.AddTos(mail.NewEmail("", to))
		message.AddPersonalizations(p)
	}

	if m.sandbox {
		settings := mail.NewMailSettings()
		settings.SetSandboxMode(mail.NewSetting(true))
		message.SetMailSettings(settings)
	}

	return message
}
