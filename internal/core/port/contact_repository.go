package port

import (
	"context"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
)

// AddressRepository stores user-owned addresses.
type AddressRepository interface {
	Create(ctx context.Context, address domain.Address) error
	GetByID(ctx context.Context, userID, addressID string) (*domain.Address, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
	Update(ctx context.Context, address domain.Address) error
	Delete(ctx context.Context, userID, addressID string) error
	// SetDefault atomically marks the target as default and clears the flag
	// on every sibling owned by the same user.
	SetDefault(ctx context.Context, userID, addressID string) error
}

// PhoneRepository stores user-owned phone numbers.
type PhoneRepository interface {
	Create(ctx context.Context, phone domain.Phone) error
	GetByID(ctx context.Context, userID, phoneID string) (*domain.Phone, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Phone, error)
	Update(ctx context.Context, phone domain.Phone) error
	Delete(ctx context.Context, userID, phoneID string) error
	SetDefault(ctx context.Context, userID, phoneID string) error
}
