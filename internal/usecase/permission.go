package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/port"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

var (
	// ErrPermissionNotFound is returned when a permission cannot be located.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrPermissionExists is returned when a task name collides.
	ErrPermissionExists = errors.New("permission already exists")
	// ErrPermissionAlreadyAssigned is returned on duplicate role-permission grants.
	ErrPermissionAlreadyAssigned = errors.New("permission already assigned to role")
	// ErrPermissionNotAssigned is returned when revocation targets a grant
	// that does not exist.
	ErrPermissionNotAssigned = errors.New("permission not assigned to role")
)

// PermissionService manages the permission catalog and role-permission grants.
type PermissionService struct {
	permissions port.PermissionRepository
	roles       port.RoleRepository
	audit       port.AuditRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewPermissionService constructs a PermissionService instance.
func NewPermissionService(permissions port.PermissionRepository, roles port.RoleRepository, audit port.AuditRepository, logger *zap.Logger) *PermissionService {
	if logger == nil {
		logger = zap.NewNop()
	}

	service := &PermissionService{
		permissions: permissions,
		roles:       roles,
		audit:       audit,
		logger:      logger,
	}
	service.now = func() time.Time { return time.Now().UTC() }
	return service
}

// CreatePermission registers a new task-shaped capability.
func (s *PermissionService) CreatePermission(ctx context.Context, task string, description *string) (*domain.Permission, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, fmt.Errorf("%w: task is required", ErrInvalidInput)
	}

	if _, err := s.permissions.GetByTask(ctx, task); err == nil {
		return nil, ErrPermissionExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check task name: %w", err)
	}

	permission := domain.Permission{ID: uuid.NewString(), Task: task, Description: description}
	if err := s.permissions.Create(ctx, permission); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPermissionExists
		}
		return nil, fmt.Errorf("create permission: %w", err)
	}

	return &permission, nil
}

// GetPermission loads a permission by id.
func (s *PermissionService) GetPermission(ctx context.Context, permissionID string) (*domain.Permission, error) {
	permission, err := s.permissions.GetByID(ctx, permissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("load permission: %w", err)
	}
	return permission, nil
}

// ListPermissions returns the full permission catalog.
func (s *PermissionService) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	permissions, err := s.permissions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return permissions, nil
}

// ListRolePermissions returns the permissions granted to a role.
func (s *PermissionService) ListRolePermissions(ctx context.Context, roleID string) ([]domain.Permission, error) {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("load role: %w", err)
	}

	permissions, err := s.permissions.ListByRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	return permissions, nil
}

// UpdatePermission rewrites the task or description of a permission.
func (s *PermissionService) UpdatePermission(ctx context.Context, permissionID, task string, description *string) (*domain.Permission, error) {
	permission, err := s.permissions.GetByID(ctx, permissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("load permission: %w", err)
	}

	task = strings.TrimSpace(task)
	if task == "" {
		return nil, fmt.Errorf("%w: task is required", ErrInvalidInput)
	}

	if existing, err := s.permissions.GetByTask(ctx, task); err == nil && existing.ID != permission.ID {
		return nil, ErrPermissionExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check task name: %w", err)
	}

	permission.Task = task
	permission.Description = description
	if err := s.permissions.Update(ctx, *permission); err != nil {
		return nil, fmt.Errorf("update permission: %w", err)
	}

	return permission, nil
}

// DeletePermission removes a permission and, through the junction's cascade,
// every grant that references it.
func (s *PermissionService) DeletePermission(ctx context.Context, permissionID string) error {
	if _, err := s.permissions.GetByID(ctx, permissionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPermissionNotFound
		}
		return fmt.Errorf("load permission: %w", err)
	}

	if err := s.permissions.Delete(ctx, permissionID); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	return nil
}

// AssignPermissionToRole grants a permission to a role. Granting twice is a
// conflict, never a silent no-op.
func (s *PermissionService) AssignPermissionToRole(ctx context.Context, roleID, permissionID string) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("load role: %w", err)
	}

	permission, err := s.permissions.GetByID(ctx, permissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPermissionNotFound
		}
		return fmt.Errorf("load permission: %w", err)
	}

	held, err := s.roles.HasPermission(ctx, role.ID, permission.ID)
	if err != nil {
		return fmt.Errorf("check grant: %w", err)
	}
	if held {
		return ErrPermissionAlreadyAssigned
	}

	if err := s.roles.AttachPermission(ctx, role.ID, permission.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrPermissionAlreadyAssigned
		}
		return fmt.Errorf("attach permission: %w", err)
	}

	s.recordRoleActivity(ctx, role.ID, fmt.Sprintf("Permission %q assigned", permission.Task))

	return nil
}

// RevokePermissionFromRole withdraws a grant. Revoking a grant that does not
// exist reports absence, never a silent no-op.
func (s *PermissionService) RevokePermissionFromRole(ctx context.Context, roleID, permissionID string) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("load role: %w", err)
	}

	permission, err := s.permissions.GetByID(ctx, permissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPermissionNotFound
		}
		return fmt.Errorf("load permission: %w", err)
	}

	held, err := s.roles.HasPermission(ctx, role.ID, permission.ID)
	if err != nil {
		return fmt.Errorf("check grant: %w", err)
	}
	if !held {
		return ErrPermissionNotAssigned
	}

	if err := s.roles.DetachPermission(ctx, role.ID, permission.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPermissionNotAssigned
		}
		return fmt.Errorf("detach permission: %w", err)
	}

	s.recordRoleActivity(ctx, role.ID, fmt.Sprintf("Permission %q revoked", permission.Task))

	return nil
}

func (s *PermissionService) recordRoleActivity(ctx context.Context, roleID, action string) {
	entry := domain.RoleActivity{
		ID:        uuid.NewString(),
		RoleID:    roleID,
		Action:    action,
		CreatedAt: s.now(),
	}
	if err := s.audit.LogRoleActivity(ctx, entry); err != nil {
		s.logger.Warn("role activity log write failed", zap.String("action", action), zap.Error(err))
	}
}
