package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewMessage(t *testing.T) {
	t.Parallel()

	msg := NewMessage([]string{"a@example.com"}, "Hi", "<p>Hi</p>")
	other := NewMessage([]string{"a@example.com"}, "Hi", "<p>Hi</p>")

	assert.NotEmpty(t, msg.ID)
	assert.NotEqual(t, msg.ID, other.ID)
	require.NoError(t, msg.Validate())
}

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  Message
		want error
	}{
		{name: "no recipient", msg: Message{Subject: "s", HTML: "h"}, want: ErrNoRecipient},
		{name: "no subject", msg: Message{To: []string{"a@example.com"}, Subject: " ", HTML: "h"}, want: ErrNoSubject},
		{name: "no content", msg: Message{To: []string{"a@example.com"}, Subject: "s"}, want: ErrNoContent},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, tt.msg.Validate(), tt.want)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      Config
		provider string
		wantErr  error
	}{
		{name: "empty provider falls back to log", cfg: Config{}, provider: ProviderLog},
		{name: "log", cfg: Config{Provider: "LOG"}, provider: ProviderLog},
		{
			name:     "sendgrid",
			cfg:      Config{Provider: ProviderSendgrid, FromEmail: "from@example.com", SendgridAPIKey: "key"},
			provider: ProviderSendgrid,
		},
		{
			name:    "sendgrid without key",
			cfg:     Config{Provider: ProviderSendgrid, FromEmail: "from@example.com"},
			wantErr: ErrKeyMissing,
		},
		{
			name:     "resend",
			cfg:      Config{Provider: ProviderResend, FromEmail: "from@example.com", ResendAPIKey: "re_key"},
			provider: ProviderResend,
		},
		{
			name:    "resend without key",
			cfg:     Config{Provider: ProviderResend, FromEmail: "from@example.com"},
			wantErr: ErrKeyMissing,
		},
		{
			name:     "smtp",
			cfg:      Config{Provider: ProviderSMTP, FromEmail: "from@example.com", SMTPHost: "localhost", SMTPPort: 25},
			provider: ProviderSMTP,
		},
		{
			name:    "missing sender",
			cfg:     Config{Provider: ProviderSMTP},
			wantErr: ErrMissingSender,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "pigeon", FromEmail: "from@example.com"},
			wantErr: ErrUnknownProvider,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := New(tt.cfg, zap.NewNop().Sugar())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.provider, client.Provider())
		})
	}
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a@example.com", Recipient("", "a@example.com"))
	assert.Equal(t, "Alice <a@example.com>", Recipient("Alice", "a@example.com"))
}

func TestLogMailer_Send(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	m := NewLog(zap.New(core).Sugar())

	msg := NewMessage([]string{"a@example.com", "b@example.com"}, "Subject", "<p>body</p>")
	require.NoError(t, m.Send(context.Background(), msg))

	entries := logs.FilterMessage("email not delivered, log provider").All()
	require.Len(t, entries, 1)
	assert.Equal(t, msg.ID, entries[0].ContextMap()["message_id"])
	assert.Equal(t, "Subject", entries[0].ContextMap()["subject"])
}

func TestLogMailer_SendInvalid(t *testing.T) {
	t.Parallel()

	m := NewLog(nil)
	err := m.Send(context.Background(), &Message{Subject: "s", HTML: "h"})
	require.ErrorIs(t, err, ErrNoRecipient)
}

func TestSendGridMailer_Build(t *testing.T) {
	t.Parallel()

	m := NewSendgrid("key", "from@example.com", "Sender", true)
	msg := NewMessage([]string{"a@example.com", "b@example.com"}, "Subject", "<p>body</p>")

	built := m.build(msg)

	assert.Equal(t, "from@example.com", built.From.Address)
	assert.Equal(t, "Sender", built.From.Name)
	assert.Equal(t, "Subject", built.Subject)
	require.Len(t, built.Content, 1)
	assert.Equal(t, "text/html", built.Content[0].Type)
	assert.Equal(t, "<p>body</p>", built.Content[0].Value)
	assert.Equal(t, msg.ID, built.Headers[MessageIDHeader])
	// SendGrid reserves X-Message-Id for its own id.
	assert.Equal(t, "X-Template-Mailer-Id", MessageIDHeader)

	require.Len(t, built.Personalizations, 2)
	assert.Equal(t, "a@example.com", built.Personalizations[0].To[0].Address)
	assert.Equal(t, "b@example.com", built.Personalizations[1].To[0].Address)

	require.NotNil(t, built.MailSettings)
	require.NotNil(t, built.MailSettings.SandboxMode)
	assert.True(t, *built.MailSettings.SandboxMode.Enable)
}

func TestSendGridMailer_SendInvalid(t *testing.T) {
	t.Parallel()

	m := NewSendgrid("key", "from@example.com", "Sender", false)
	err := m.Send(context.Background(), &Message{To: []string{"a@example.com"}, HTML: "h"})
	require.ErrorIs(t, err, ErrNoSubject)
}

func TestResendMailer_Build(t *testing.T) {
	t.Parallel()

	m := NewResend("re_key", "from@example.com", "Sender")
	msg := NewMessage([]string{"a@example.com"}, "Subject", "<p>body</p>")

	req := m.build(msg)

	assert.Equal(t, "Sender <from@example.com>", req.From)
	assert.Equal(t, []string{"a@example.com"}, req.To)
	assert.Equal(t, "Subject", req.Subject)
	assert.Equal(t, "<p>body</p>", req.Html)
	assert.Equal(t, msg.ID, req.Headers[MessageIDHeader])
}

func TestSMTPMailer_Build(t *testing.T) {
	t.Parallel()

	m := NewSMTP("localhost", 2525, "", "", "from@example.com", "Sender")
	msg := NewMessage([]string{"a@example.com", "b@example.com"}, "Subject", "<p>body</p>")

	built := m.build(msg)

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, built.GetHeader("To"))
	assert.Equal(t, []string{"Subject"}, built.GetHeader("Subject"))
	assert.Equal(t, []string{msg.ID}, built.GetHeader(MessageIDHeader))
	require.Len(t, built.GetHeader("From"), 1)
	assert.Contains(t, built.GetHeader("From")[0], "from@example.com")
}

func TestSMTPMailer_SendCanceledContext(t *testing.T) {
	t.Parallel()

	m := NewSMTP("localhost", 2525, "", "", "from@example.com", "Sender")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, NewMessage([]string{"a@example.com"}, "Subject", "<p>body</p>"))
	require.ErrorIs(t, err, context.Canceled)
}
