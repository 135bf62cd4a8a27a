package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/port"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/logger"
)

// LogMailer satisfies port.Mailer by logging the message instead of
// delivering it. Real delivery belongs to an external provider; the engine
// only needs a hook it can fire and forget.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer constructs a logging mailer.
func NewLogMailer(log *zap.Logger) *LogMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMailer{logger: log}
}

// Send records the outbound message.
func (m *LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.logger.Info("mail dispatched",
		zap.String("to", logger.MaskEmail(to)),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(htmlBody)),
	)
	return nil
}

var _ port.Mailer = (*LogMailer)(nil)
