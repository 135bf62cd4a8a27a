package port

import (
	"context"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
)

// EventPublisher pushes user lifecycle notifications to the message bus.
// Publishing is fire-and-forget: failures are logged, never propagated.
type EventPublisher interface {
	PublishUserAdded(ctx context.Context, event domain.UserAddedEvent) error
	PublishUserUpdated(ctx context.Context, event domain.UserUpdatedEvent) error
}
