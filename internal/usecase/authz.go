package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/port"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

// AuthorizationService answers "may this role perform this task" questions
// against the role-permission graph.
type AuthorizationService struct {
	roles       port.RoleRepository
	permissions port.PermissionRepository
	logger      *zap.Logger
}

// NewAuthorizationService constructs an AuthorizationService instance.
func NewAuthorizationService(roles port.RoleRepository, permissions port.PermissionRepository, logger *zap.Logger) *AuthorizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthorizationService{roles: roles, permissions: permissions, logger: logger}
}

// Authorize reports whether the named role is granted the task. The task
// comparison is exact, including case; an unknown role simply has no grants.
func (s *AuthorizationService) Authorize(ctx context.Context, roleName, task string) (bool, error) {
	role, err := s.roles.GetByName(ctx, domain.CanonicalRoleName(roleName))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load role: %w", err)
	}

	granted, err := s.permissions.ListByRole(ctx, role.ID)
	if err != nil {
		return false, fmt.Errorf("list role permissions: %w", err)
	}

	return domain.HasPermission(granted, task), nil
}
