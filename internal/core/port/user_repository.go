package port

import (
	"context"
	"time"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
)

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, roleName string) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) error
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error
	// ReplaceRefreshToken atomically swaps the stored refresh credential and
	// its expiry. A nil token clears the credential.
	ReplaceRefreshToken(ctx context.Context, id string, token *string, expiresAt *time.Time) error
	// ReassignRole moves the user onto the named role, rewriting both the
	// role reference and the denormalized role name.
	ReassignRole(ctx context.Context, userID, roleID, roleName string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	// Delete removes the user together with owned addresses and phones.
	Delete(ctx context.Context, id string) error
}
