package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/port"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/config"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/logger"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/security"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

var (
	// ErrEmailTaken is returned when a confirmed account already owns the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrRoleNotFound is returned when a named role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrUserNotFound is returned when a user cannot be located.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when email or password verification fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotConfirmed is returned on login before the address is confirmed.
	ErrEmailNotConfirmed = errors.New("email not confirmed")
	// ErrAlreadyConfirmed is returned when confirmation is attempted twice.
	ErrAlreadyConfirmed = errors.New("email already confirmed")
	// ErrConfirmTokenInvalid is returned when the confirmation token does not match.
	ErrConfirmTokenInvalid = errors.New("confirmation token invalid")
)

// RegisterInput carries the attributes accepted at registration time.
type RegisterInput struct {
	Email     string
	Password  string
	FullName  string
	Birthdate *time.Time
	Region    string
	RoleName  string
	SourceIP  string
}

// RegisterResult is the outcome of a successful registration.
type RegisterResult struct {
	User              domain.User
	ConfirmationToken string
}

// AccountService orchestrates registration, email confirmation, and the
// authentication entry points.
type AccountService struct {
	cfg       *config.AppConfig
	users     port.UserRepository
	roles     port.RoleRepository
	audit     port.AuditRepository
	publisher port.EventPublisher
	mailer    port.Mailer
	hasher    port.PasswordHasher
	tokens    *TokenService
	logger    *zap.Logger
	now       func() time.Time
}

// NewAccountService constructs an AccountService instance.
func NewAccountService(
	cfg *config.AppConfig,
	users port.UserRepository,
	roles port.RoleRepository,
	audit port.AuditRepository,
	publisher port.EventPublisher,
	mailer port.Mailer,
	hasher port.PasswordHasher,
	tokens *TokenService,
	logger *zap.Logger,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}

	service := &AccountService{
		cfg:       cfg,
		users:     users,
		roles:     roles,
		audit:     audit,
		publisher: publisher,
		mailer:    mailer,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
	}
	service.now = func() time.Time { return time.Now().UTC() }
	return service
}

// WithClock overrides the service clock for deterministic tests.
func (s *AccountService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Register creates an unconfirmed account. A previous registration for the
// same email that never completed confirmation is purged and replaced; a
// confirmed account holding the email is a hard conflict.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}

	validator := security.NewPasswordValidatorWithContext(email, fullName)
	if err := validator.Validate(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	roleName := input.RoleName
	if strings.TrimSpace(roleName) == "" {
		roleName = domain.RoleUser
	}
	role, err := s.roles.GetByName(ctx, domain.CanonicalRoleName(roleName))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("load role: %w", err)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		if existing.EmailConfirmed {
			return nil, ErrEmailTaken
		}
		// Stale unconfirmed registration: purge it and let the new one through.
		if err := s.users.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("purge stale registration: %w", err)
		}
		s.logger.Info("stale unconfirmed registration purged",
			zap.String("email", logger.MaskEmail(email)),
			zap.String("user_id", existing.ID))
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	confirmToken, err := security.GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate confirmation token: %w", err)
	}
	confirmHash := security.HashToken(confirmToken)

	region := strings.TrimSpace(input.Region)
	if region == "" {
		region = defaultRegion
	}

	now := s.now()
	user := domain.User{
		ID:               uuid.NewString(),
		Email:            email,
		FullName:         fullName,
		Birthdate:        input.Birthdate,
		Region:           region,
		PasswordHash:     passwordHash,
		PasswordAlgo:     s.hasher.Algorithm(),
		Status:           domain.UserStatusUnconfirmed,
		EmailConfirmed:   false,
		RoleID:           role.ID,
		RoleName:         role.Name,
		ConfirmTokenHash: &confirmHash,
		RegisteredAt:     now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.recordActivity(ctx, user.ID, "User Registered")
	s.publishAdded(ctx, user)
	s.sendConfirmationMail(ctx, user, confirmToken)

	return &RegisterResult{User: user, ConfirmationToken: confirmToken}, nil
}

// ConfirmEmail transitions an unconfirmed account to active and issues the
// first token pair. Confirmation of an already confirmed account is a
// conflict, never a silent success.
func (s *AccountService) ConfirmEmail(ctx context.Context, userID, token string) (*TokenPair, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if user.Status != domain.UserStatusUnconfirmed {
		return nil, ErrAlreadyConfirmed
	}
	if user.ConfirmTokenHash == nil ||
		subtle.ConstantTimeCompare([]byte(*user.ConfirmTokenHash), []byte(security.HashToken(token))) != 1 {
		return nil, ErrConfirmTokenInvalid
	}

	user.ConfirmEmail()
	if err := s.users.Update(ctx, *user); err != nil {
		return nil, fmt.Errorf("confirm email: %w", err)
	}

	pair, err := s.tokens.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("issue first token pair: %w", err)
	}

	s.recordActivity(ctx, user.ID, "Email Confirmed")
	s.publishUpdated(ctx, *user)

	return pair, nil
}

// Login authenticates by email and password and issues a token pair. Every
// attempt is recorded; recording failures never block authentication.
func (s *AccountService) Login(ctx context.Context, email, password, sourceIP string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.recordLoginAttempt(ctx, nil, domain.LoginOutcomeFailed, sourceIP)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil || !ok {
		s.recordLoginAttempt(ctx, &user.ID, domain.LoginOutcomeFailed, sourceIP)
		return nil, ErrInvalidCredentials
	}

	if !user.EmailConfirmed {
		s.recordLoginAttempt(ctx, &user.ID, domain.LoginOutcomeFailed, sourceIP)
		return nil, ErrEmailNotConfirmed
	}
	if user.Status != domain.UserStatusActive {
		s.recordLoginAttempt(ctx, &user.ID, domain.LoginOutcomeFailed, sourceIP)
		return nil, ErrInactiveAccount
	}

	pair, err := s.tokens.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("issue token pair: %w", err)
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("last login update failed", zap.String("user_id", user.ID), zap.Error(err))
	}
	s.recordLoginAttempt(ctx, &user.ID, domain.LoginOutcomeSuccess, sourceIP)

	return pair, nil
}

// Logout invalidates the stored refresh credential. Access tokens already in
// flight stay valid until they expire on their own.
func (s *AccountService) Logout(ctx context.Context, userID string) error {
	if err := s.tokens.RevokeRefreshToken(ctx, userID); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, "Logged Out")
	return nil
}

func (s *AccountService) recordActivity(ctx context.Context, userID, action string) {
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

func (s *AccountService) recordLoginAttempt(ctx context.Context, userID *string, outcome domain.LoginOutcome, sourceIP string) {
	entry := domain.LoginAttempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		Outcome:   outcome,
		CreatedAt: s.now(),
	}
	if ip := strings.TrimSpace(sourceIP); ip != "" {
		entry.IP = &ip
	}
	if err := s.audit.LogLoginAttempt(ctx, entry); err != nil {
		s.logger.Warn("login attempt log write failed", zap.Error(err))
	}
}

func (s *AccountService) publishAdded(ctx context.Context, user domain.User) {
	event := domain.UserAddedEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		Region:       user.Region,
		Status:       string(user.Status),
		RoleName:     user.RoleName,
		RegisteredAt: user.RegisteredAt,
	}
	if err := s.publisher.PublishUserAdded(ctx, event); err != nil {
		s.logger.Warn("user added event publish failed", zap.String("user_id", user.ID), zap.Error(err))
	}
}

func (s *AccountService) publishUpdated(ctx context.Context, user domain.User) {
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

func (s *AccountService) sendConfirmationMail(ctx context.Context, user domain.User, token string) {
	link := fmt.Sprintf("https://%s/api/v1/account/confirm?userId=%s&token=%s", s.cfg.App.Host, user.ID, token)
	body := fmt.Sprintf("<p>Hello %s,</p><p>Please confirm your email address by following <a href=%q>this link</a>.</p>", user.FullName, link)
	if err := s.mailer.Send(ctx, user.Email, "Confirm your email", body); err != nil {
		s.logger.Warn("confirmation mail send failed",
			zap.String("email", logger.MaskEmail(user.Email)), zap.Error(err))
	}
}
