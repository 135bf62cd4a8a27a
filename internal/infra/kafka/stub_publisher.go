package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserAdded logs uam.user.added events.
func (p *StubPublisher) PublishUserAdded(_ context.Context, event domain.UserAddedEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"email":         event.Email,
		"full_name":     event.FullName,
		"region":        event.Region,
		"status":        event.Status,
		"role_name":     event.RoleName,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("uam.user.added", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishUserUpdated logs uam.user.updated events.
func (p *StubPublisher) PublishUserUpdated(_ context.Context, event domain.UserUpdatedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"email":      event.Email,
		"full_name":  event.FullName,
		"region":     event.Region,
		"status":     event.Status,
		"role_name":  event.RoleName,
		"updated_at": event.UpdatedAt,
		"metadata":   event.Metadata,
	}
	p.logEvent("uam.user.updated", event.UserID, event.UpdatedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
