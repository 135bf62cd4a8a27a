package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/port"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

var (
	// ErrRoleExists is returned when a role name collides case-insensitively.
	ErrRoleExists = errors.New("role already exists")
	// ErrRoleProtected is returned when a structural role is targeted for
	// deletion or rename.
	ErrRoleProtected = errors.New("role is protected")
	// ErrRoleAlreadyAssigned is returned when the user already holds the role.
	ErrRoleAlreadyAssigned = errors.New("role already assigned to user")
	// ErrRoleNotAssigned is returned when revocation targets a role the user
	// does not hold.
	ErrRoleNotAssigned = errors.New("role not assigned to user")
	// ErrFallbackRoleRevoke is returned when revocation targets the default
	// "User" role.
	ErrFallbackRoleRevoke = errors.New("default role cannot be revoked")
)

// RoleService manages the role catalog and user-role membership.
type RoleService struct {
	roles  port.RoleRepository
	users  port.UserRepository
	audit  port.AuditRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewRoleService constructs a RoleService instance.
func NewRoleService(roles port.RoleRepository, users port.UserRepository, audit port.AuditRepository, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}

	service := &RoleService{
		roles:  roles,
		users:  users,
		audit:  audit,
		logger: logger,
	}
	service.now = func() time.Time { return time.Now().UTC() }
	return service
}

// WithClock overrides the service clock for deterministic tests.
func (s *RoleService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// AddRole creates a role under the canonical title-cased form of the name.
func (s *RoleService) AddRole(ctx context.Context, name string) (*domain.Role, error) {
	canonical := domain.CanonicalRoleName(name)
	if canonical == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}

	if _, err := s.roles.GetByName(ctx, canonical); err == nil {
		return nil, ErrRoleExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check role name: %w", err)
	}

	role := domain.Role{ID: uuid.NewString(), Name: canonical}
	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrRoleExists
		}
		return nil, fmt.Errorf("create role: %w", err)
	}

	s.recordRoleActivity(ctx, role.ID, fmt.Sprintf("Role %q created", role.Name))

	return &role, nil
}

// GetRole loads a role by id.
func (s *RoleService) GetRole(ctx context.Context, roleID string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("load role: %w", err)
	}
	return role, nil
}

// ListRoles returns the full role catalog.
func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// UpdateRole renames a role and rewrites the denormalized role name on every
// holder. Structural roles cannot be renamed.
func (s *RoleService) UpdateRole(ctx context.Context, roleID, newName string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("load role: %w", err)
	}

	if domain.IsProtectedRole(role.Name) {
		return nil, ErrRoleProtected
	}

	canonical := domain.CanonicalRoleName(newName)
	if canonical == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	if canonical == role.Name {
		return role, nil
	}

	if existing, err := s.roles.GetByName(ctx, canonical); err == nil && existing.ID != role.ID {
		return nil, ErrRoleExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check role name: %w", err)
	}

	oldName := role.Name
	role.Name = canonical
	if err := s.roles.Update(ctx, *role); err != nil {
		return nil, fmt.Errorf("rename role: %w", err)
	}

	holders, err := s.users.ListByRole(ctx, oldName)
	if err != nil {
		return nil, fmt.Errorf("list role holders: %w", err)
	}
	for _, holder := range holders {
		if err := s.users.ReassignRole(ctx, holder.ID, role.ID, role.Name); err != nil {
			return nil, fmt.Errorf("rewrite role name for user %s: %w", holder.ID, err)
		}
	}

	s.recordRoleActivity(ctx, role.ID, fmt.Sprintf("Role %q renamed to %q", oldName, canonical))

	return role, nil
}

// DeleteRole removes a custom role. Every holder is reassigned to the
// default "User" role first, one by one; a failure mid-way aborts the
// deletion but already reassigned users keep the default role. The cascade
// is deliberately not transactional.
func (s *RoleService) DeleteRole(ctx context.Context, roleID string) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("load role: %w", err)
	}

	if domain.IsProtectedRole(role.Name) {
		return ErrRoleProtected
	}

	fallback, err := s.roles.GetByName(ctx, domain.RoleUser)
	if err != nil {
		return fmt.Errorf("load fallback role: %w", err)
	}

	holders, err := s.users.ListByRole(ctx, role.Name)
	if err != nil {
		return fmt.Errorf("list role holders: %w", err)
	}

	for _, holder := range holders {
		if err := s.users.ReassignRole(ctx, holder.ID, fallback.ID, fallback.Name); err != nil {
			return fmt.Errorf("reassign user %s to fallback role: %w", holder.ID, err)
		}
		s.recordUserActivity(ctx, holder.ID,
			fmt.Sprintf("Role %q deleted. Assigned to default %q role.", role.Name, fallback.Name))
	}

	if err := s.roles.Delete(ctx, role.ID); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	s.recordRoleActivity(ctx, role.ID, fmt.Sprintf("Role %q deleted", role.Name))

	return nil
}

// AssignRoleToUser moves a user onto the named role. Assigning a role the
// user already holds is a conflict.
func (s *RoleService) AssignRoleToUser(ctx context.Context, userID, roleName string) error {
	role, err := s.roles.GetByName(ctx, domain.CanonicalRoleName(roleName))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("load role: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	if domain.SameRoleName(user.RoleName, role.Name) {
		return ErrRoleAlreadyAssigned
	}

	if err := s.users.ReassignRole(ctx, user.ID, role.ID, role.Name); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}

	s.recordUserActivity(ctx, user.ID, fmt.Sprintf("Role %q assigned", role.Name))

	return nil
}

// RevokeRoleFromUser strips the named role from a user, dropping them back
// to the default "User" role. The default role itself cannot be revoked.
func (s *RoleService) RevokeRoleFromUser(ctx context.Context, userID, roleName string) error {
	if domain.IsFallbackRole(roleName) {
		return ErrFallbackRoleRevoke
	}

	role, err := s.roles.GetByName(ctx, domain.CanonicalRoleName(roleName))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("load role: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	if !domain.SameRoleName(user.RoleName, role.Name) {
		return ErrRoleNotAssigned
	}

	fallback, err := s.roles.GetByName(ctx, domain.RoleUser)
	if err != nil {
		return fmt.Errorf("load fallback role: %w", err)
	}

	if err := s.users.ReassignRole(ctx, user.ID, fallback.ID, fallback.Name); err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}

	s.recordUserActivity(ctx, user.ID, fmt.Sprintf("Role %q revoked", role.Name))

	return nil
}

// RoleActivityLog returns recent audit facts for the role.
func (s *RoleService) RoleActivityLog(ctx context.Context, roleID string, limit int) ([]domain.RoleActivity, error) {
	entries, err := s.audit.ListActivityByRole(ctx, roleID, limit)
	if err != nil {
		return nil, fmt.Errorf("list role activity: %w", err)
	}
	return entries, nil
}

func (s *RoleService) recordRoleActivity(ctx context.Context, roleID, action string) {
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

func (s *RoleService) recordUserActivity(ctx context.Context, userID, action string) {
	entry := domain.UserActivity{
		ID:        uuid.NewString(),
		UserID:    &userID,
		Action:    action,
		CreatedAt: s.now(),
	}
	if err := s.audit.LogActivity(ctx, entry); err != nil {
		s.logger.Warn("activity log write failed", zap.String("action", action), zap.Error(err))
	}
}
