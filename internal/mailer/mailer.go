// Package mailer delivers rendered messages through an external provider.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ProviderSendgrid = "sendgrid"
	ProviderResend   = "resend"
	ProviderSMTP     = "smtp"
	ProviderLog      = "log"

	FromName = "Template Mailer"

	// MessageIDHeader carries Message.ID so provider logs can be matched
	// against ours.
	MessageIDHeader = "X-Template-Mailer-Id"
)

var (
	ErrNoRecipient     = errors.New("email must have at least one recipient")
	ErrNoSubject       = errors.New("email must have a subject")
	ErrNoContent       = errors.New("email must have HTML content")
	ErrMissingSender   = errors.New("sender email is not set")
	ErrKeyMissing      = errors.New("provider api key is not set")
	ErrUnknownProvider = errors.New("unknown mail provider")
)

// Message is a fully rendered email ready for delivery.
type Message struct {
	ID      string
	To      []string
	Subject string
	HTML    string
}

func NewMessage(to []string, subject, html string) *Message {
	return &Message{
		ID:      uuid.NewString(),
		To:      to,
		Subject: subject,
		HTML:    html,
	}
}

func (m *Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipient
	}
	if strings.TrimSpace(m.Subject) == "" {
		return ErrNoSubject
	}
	if strings.TrimSpace(m.HTML) == "" {
		return ErrNoContent
	}
	return nil
}

type Client interface {
	Send(ctx context.Context, msg *Message) error
	Provider() string
}

type Config struct {
	Provider        string
	FromEmail       string
	FromName        string
	SendgridAPIKey  string
	SendgridSandbox bool
	ResendAPIKey    string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
}

func (c Config) senderName() string {
	if c.FromName != "" {
		return c.FromName
	}
	return FromName
}

// New builds the client for cfg.Provider. An empty provider selects the
// log client.
func New(cfg Config, logger *zap.SugaredLogger) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderLog
	}

	if provider != ProviderLog && cfg.FromEmail == "" {
		return nil, ErrMissingSender
	}

	switch provider {
	case ProviderSendgrid:
		if cfg.SendgridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid: %w", ErrKeyMissing)
		}
		return NewSendgrid(cfg.SendgridAPIKey, cfg.FromEmail, cfg.senderName(), cfg.SendgridSandbox), nil
	case ProviderResend:
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("resend: %w", ErrKeyMissing)
		}
		return NewResend(cfg.ResendAPIKey, cfg.FromEmail, cfg.senderName()), nil
	case ProviderSMTP:
		return NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromEmail, cfg.senderName()), nil
	case ProviderLog:
		return NewLog(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// Recipient formats a name and address as "Name <email>".
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
