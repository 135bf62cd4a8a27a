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

// defaultRegion is assigned when a profile omits or clears the region.
const defaultRegion = "Egypt"

var (
	// ErrInvalidInput is returned when request attributes fail validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserNotActive is returned when deactivation targets a non-active account.
	ErrUserNotActive = errors.New("user is not active")
	// ErrUserNotInactive is returned when activation targets a non-inactive account.
	ErrUserNotInactive = errors.New("user is not inactive")
	// ErrUserNotDeletable is returned when deletion targets a confirmed account.
	ErrUserNotDeletable = errors.New("user cannot be deleted in its current state")
	// ErrAdminUndeletable is returned when deletion targets an admin account.
	ErrAdminUndeletable = errors.New("admin accounts cannot be deleted")
)

// UpdateProfileInput carries the mutable personal attributes of an account.
type UpdateProfileInput struct {
	FullName  string
	Birthdate *time.Time
	Region    string
}

// UserService covers profile maintenance, directory queries, and the
// administrative account status machine.
type UserService struct {
	users     port.UserRepository
	audit     port.AuditRepository
	publisher port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewUserService constructs a UserService instance.
func NewUserService(users port.UserRepository, audit port.AuditRepository, publisher port.EventPublisher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}

	service := &UserService{
		users:     users,
		audit:     audit,
		publisher: publisher,
		logger:    logger,
	}
	service.now = func() time.Time { return time.Now().UTC() }
	return service
}

// WithClock overrides the service clock for deterministic tests.
func (s *UserService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// GetUser loads a single account by id.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// GetUserByEmail loads a single account by its unique email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// ListUsers returns the full account directory.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListUsersByRole returns accounts currently holding the named role.
func (s *UserService) ListUsersByRole(ctx context.Context, roleName string) ([]domain.User, error) {
	users, err := s.users.ListByRole(ctx, domain.CanonicalRoleName(roleName))
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

// UpdateProfile rewrites the personal attributes of an account. A cleared
// region falls back to the service default.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}

	user.FullName = fullName
	user.Birthdate = input.Birthdate
	user.Region = strings.TrimSpace(input.Region)
	if user.Region == "" {
		user.Region = defaultRegion
	}

	if err := s.users.Update(ctx, *user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.recordActivity(ctx, user.ID, "Profile Updated")
	s.publishUpdated(ctx, *user)

	return user, nil
}

// DeactivateUser suspends an active account and invalidates its refresh
// credential so the session cannot be silently renewed.
func (s *UserService) DeactivateUser(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	if !user.Deactivate(s.now()) {
		return ErrUserNotActive
	}

	if err := s.users.Update(ctx, *user); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	s.recordActivity(ctx, user.ID, "Account Deactivated")
	s.publishUpdated(ctx, *user)

	return nil
}

// ActivateUser reinstates a previously deactivated account.
func (s *UserService) ActivateUser(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	if !user.Activate() {
		return ErrUserNotInactive
	}

	if err := s.users.UpdateStatus(ctx, user.ID, domain.UserStatusActive); err != nil {
		return fmt.Errorf("activate user: %w", err)
	}

	s.recordActivity(ctx, user.ID, "Account Activated")
	s.publishUpdated(ctx, *user)

	return nil
}

// DeleteUser physically removes an account together with its owned contact
// data. Only unconfirmed accounts qualify, and admin accounts never do.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	if domain.IsAdminRole(user.RoleName) {
		return ErrAdminUndeletable
	}
	if !user.Deletable() {
		return ErrUserNotDeletable
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.recordActivity(ctx, user.ID, "Account Deleted")

	return nil
}

// ActivityLog returns recent audit facts for the account.
func (s *UserService) ActivityLog(ctx context.Context, userID string, limit int) ([]domain.UserActivity, error) {
	entries, err := s.audit.ListActivityByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}

// LoginHistory returns recent authentication attempts for the account.
func (s *UserService) LoginHistory(ctx context.Context, userID string, limit int) ([]domain.LoginAttempt, error) {
	entries, err := s.audit.ListLoginAttemptsByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list login attempts: %w", err)
	}
	return entries, nil
}

func (s *UserService) recordActivity(ctx context.Context, userID, action string) {
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

func (s *UserService) publishUpdated(ctx context.Context, user domain.User) {
	event := domain.UserUpdatedEvent{
		EventID:   uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Region:    user.Region,
		Status:    string(user.Status),
		RoleName:  user.RoleName,
		UpdatedAt: s.now(),
	}
	if err := s.publisher.PublishUserUpdated(ctx, event); err != nil {
		s.logger.Warn("user updated event publish failed", zap.String("user_id", user.ID), zap.Error(err))
	}
}
