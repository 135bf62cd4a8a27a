package port

import (
	"context"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
)

// AuditRepository persists append-only audit facts. Writes are best-effort
// from the engine's perspective; callers swallow failures after the primary
// state change has committed.
type AuditRepository interface {
	LogActivity(ctx context.Context, entry domain.UserActivity) error
	LogLoginAttempt(ctx context.Context, entry domain.LoginAttempt) error
	LogRoleActivity(ctx context.Context, entry domain.RoleActivity) error
	ListActivityByUser(ctx context.Context, userID string, limit int) ([]domain.UserActivity, error)
	ListLoginAttemptsByUser(ctx context.Context, userID string, limit int) ([]domain.LoginAttempt, error)
	ListActivityByRole(ctx context.Context, roleID string, limit int) ([]domain.RoleActivity, error)
}
