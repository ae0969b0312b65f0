package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer writes messages to the logger instead of delivering them.
type LogMailer struct {
	logger *zap.SugaredLogger
}

func NewLog(logger *zap.SugaredLogger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Provider() string {
	return ProviderLog
}

func (m *LogMailer) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	m.logger.Infow("email not delivered, log provider",
		"message_id", msg.ID,
		"to", msg.To,
		"subject", msg.Subject,
		"html_bytes", len(msg.HTML),
	)
	m.logger.Debugw("email body", "message_id", msg.ID, "html", msg.HTML)
	return nil
}
