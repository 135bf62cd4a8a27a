package port

import (
	"context"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
)

// RoleRepository handles role storage and the role-permission junction.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	Update(ctx context.Context, role domain.Role) error
	// Delete removes the role and its permission associations.
	Delete(ctx context.Context, id string) error
	AttachPermission(ctx context.Context, roleID, permissionID string) error
	DetachPermission(ctx context.Context, roleID, permissionID string) error
	HasPermission(ctx context.Context, roleID, permissionID string) (bool, error)
}
