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
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/config"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/security"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

var (
	// ErrInactiveAccount is returned when token operations are attempted for a principal
	// that is not in the active state.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrMalformedToken is returned when an access token cannot be decoded at all.
	ErrMalformedToken = errors.New("access token is malformed")
	// ErrInvalidTokenSignature is returned when an access token fails signature or claim checks.
	ErrInvalidTokenSignature = errors.New("access token signature is invalid")
	// ErrRefreshUnauthorized is returned when a refresh request fails any credential check.
	ErrRefreshUnauthorized = errors.New("refresh credentials rejected")
)

// TokenPair carries a signed access token together with its refresh companion.
type TokenPair struct {
	UserID           string
	Email            string
	FullName         string
	RoleName         string
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenService mints, validates, and refreshes access credentials.
type TokenService struct {
	cfg    *config.AppConfig
	codec  *security.TokenCodec
	users  port.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewTokenService constructs a TokenService instance.
func NewTokenService(cfg *config.AppConfig, codec *security.TokenCodec, users port.UserRepository, logger *zap.Logger) *TokenService {
	if logger == nil {
		logger = zap.NewNop()
	}

	service := &TokenService{
		cfg:    cfg,
		codec:  codec,
		users:  users,
		logger: logger,
	}
	service.now = func() time.Time { return time.Now().UTC() }
	return service
}

// WithClock overrides the service clock for deterministic tests.
func (s *TokenService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
		s.codec.WithClock(clock)
	}
}

// IssueTokenPair mints a fresh access token and rotates the stored refresh token for the user.
// Any previously stored refresh token is invalidated by the rotation.
func (s *TokenService) IssueTokenPair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	if user.Status != domain.UserStatusActive {
		return nil, ErrInactiveAccount
	}

	accessToken, claims, err := s.codec.Sign(user.ID, user.Email, user.FullName, user.RoleName, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := security.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	refreshExpiry := s.now().Add(s.cfg.JWT.RefreshTokenTTL)

	if err := s.users.ReplaceRefreshToken(ctx, user.ID, &refreshToken, &refreshExpiry); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}
	user.ReplaceRefreshToken(refreshToken, refreshExpiry)

	return &TokenPair{
		UserID:           user.ID,
		Email:            user.Email,
		FullName:         user.FullName,
		RoleName:         user.RoleName,
		AccessToken:      accessToken,
		AccessExpiresAt:  claims.ExpiresAt.Time,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// ValidateAccessToken checks the signature and issuer claims of an access token and
// returns its claims. Token lifetime is deliberately not enforced here; expiry is the
// caller's concern so that expired tokens remain usable as refresh carriers.
func (s *TokenService) ValidateAccessToken(token string) (*security.AccessTokenClaims, error) {
	claims, err := s.codec.Parse(token)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			return nil, ErrInvalidTokenSignature
		}
	}
	return claims, nil
}

// RefreshAccessToken exchanges an expired (or still valid) access token plus the stored
// refresh token for a new access token. The refresh token itself is not rotated; it stays
// valid until its own expiry or until the next full pair issuance.
func (s *TokenService) RefreshAccessToken(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Parse(accessToken)
	if err != nil {
		return nil, ErrRefreshUnauthorized
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrRefreshUnauthorized
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRefreshUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	now := s.now()
	if !user.HasValidRefreshToken(refreshToken, now) {
		s.logger.Warn("refresh rejected", zap.String("user_id", user.ID), zap.String("reason", "refresh token mismatch or expired"))
		return nil, ErrRefreshUnauthorized
	}
	if user.Status != domain.UserStatusActive {
		return nil, ErrRefreshUnauthorized
	}
	if !domain.SameRoleName(claims.Role, user.RoleName) {
		s.logger.Warn("refresh rejected", zap.String("user_id", user.ID), zap.String("reason", "role claim stale"))
		return nil, ErrRefreshUnauthorized
	}

	newAccess, newClaims, err := s.codec.Sign(user.ID, user.Email, user.FullName, user.RoleName, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &TokenPair{
		UserID:           user.ID,
		Email:            user.Email,
		FullName:         user.FullName,
		RoleName:         user.RoleName,
		AccessToken:      newAccess,
		AccessExpiresAt:  newClaims.ExpiresAt.Time,
		RefreshToken:     *user.RefreshToken,
		RefreshExpiresAt: *user.RefreshTokenExpiresAt,
	}, nil
}

// RevokeRefreshToken clears the stored refresh token so future refresh attempts fail.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, userID string) error {
	expiry := s.now()
	if err := s.users.ReplaceRefreshToken(ctx, userID, nil, &expiry); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}
