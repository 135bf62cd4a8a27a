package port

import (
	"context"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
)

// PermissionRepository manages permission storage.
type PermissionRepository interface {
	Create(ctx context.Context, permission domain.Permission) error
	GetByID(ctx context.Context, id string) (*domain.Permission, error)
	GetByTask(ctx context.Context, task string) (*domain.Permission, error)
	List(ctx context.Context) ([]domain.Permission, error)
	ListByRole(ctx context.Context, roleID string) ([]domain.Permission, error)
	Update(ctx context.Context, permission domain.Permission) error
	Delete(ctx context.Context, id string) error
}
