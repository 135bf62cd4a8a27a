package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/port"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

var (
	// ErrAddressNotFound is returned when an address is missing or owned by
	// another user.
	ErrAddressNotFound = errors.New("address not found")
	// ErrPhoneNotFound is returned when a phone is missing or owned by
	// another user.
	ErrPhoneNotFound = errors.New("phone not found")
)

// AddressInput carries the mutable attributes of an address.
type AddressInput struct {
	Street    string
	City      string
	State     string
	Country   string
	IsDefault bool
}

// PhoneInput carries the mutable attributes of a phone number.
type PhoneInput struct {
	Number    string
	IsDefault bool
}

// ContactService maintains per-user address and phone collections, including
// the single-default rule: whenever a collection is non-empty, exactly one
// member is the default.
type ContactService struct {
	addresses port.AddressRepository
	phones    port.PhoneRepository
	users     port.UserRepository
	logger    *zap.Logger
}

// NewContactService constructs a ContactService instance.
func NewContactService(addresses port.AddressRepository, phones port.PhoneRepository, users port.UserRepository, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{addresses: addresses, phones: phones, users: users, logger: logger}
}

// ListAddresses returns every address owned by the user.
func (s *ContactService) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	addresses, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

// AddAddress appends an address to the user's collection. The new address
// claims the default when asked to, or when no sibling holds it yet, so the
// first address always becomes the default regardless of the requested flag.
func (s *ContactService) AddAddress(ctx context.Context, userID string, input AddressInput) (*domain.Address, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Street) == "" || strings.TrimSpace(input.City) == "" {
		return nil, fmt.Errorf("%w: street and city are required", ErrInvalidInput)
	}

	existing, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}

	address := domain.Address{
		ID:      uuid.NewString(),
		UserID:  userID,
		Street:  strings.TrimSpace(input.Street),
		City:    strings.TrimSpace(input.City),
		State:   strings.TrimSpace(input.State),
		Country: strings.TrimSpace(input.Country),
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	if input.IsDefault || !domain.HasDefault[domain.Address](existing) {
		if err := s.addresses.SetDefault(ctx, userID, address.ID); err != nil {
			return nil, fmt.Errorf("set default address: %w", err)
		}
		address.IsDefault = true
	}

	return &address, nil
}

// UpdateAddress rewrites an address. Requesting the default flag sweeps it
// off every sibling; a false flag leaves the current default untouched.
func (s *ContactService) UpdateAddress(ctx context.Context, userID, addressID string, input AddressInput) (*domain.Address, error) {
	address, err := s.addresses.GetByID(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("load address: %w", err)
	}
	if strings.TrimSpace(input.Street) == "" || strings.TrimSpace(input.City) == "" {
		return nil, fmt.Errorf("%w: street and city are required", ErrInvalidInput)
	}

	address.Street = strings.TrimSpace(input.Street)
	address.City = strings.TrimSpace(input.City)
	address.State = strings.TrimSpace(input.State)
	address.Country = strings.TrimSpace(input.Country)
	if err := s.addresses.Update(ctx, *address); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.addresses.SetDefault(ctx, userID, address.ID); err != nil {
			return nil, fmt.Errorf("set default address: %w", err)
		}
		address.IsDefault = true
	}

	return address, nil
}

// DeleteAddress removes an address. When the default is deleted and siblings
// remain, the first remaining address is promoted so the collection never
// ends up non-empty without a default.
func (s *ContactService) DeleteAddress(ctx context.Context, userID, addressID string) error {
	address, err := s.addresses.GetByID(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAddressNotFound
		}
		return fmt.Errorf("load address: %w", err)
	}

	siblings, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list addresses: %w", err)
	}

	if err := s.addresses.Delete(ctx, userID, address.ID); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	if address.IsDefault {
		if nextID, ok := domain.NextDefault[domain.Address](siblings, address.ID); ok {
			if err := s.addresses.SetDefault(ctx, userID, nextID); err != nil {
				return fmt.Errorf("promote default address: %w", err)
			}
		}
	}

	return nil
}

// SetDefaultAddress marks an address as the default and clears the flag on
// every sibling in one sweep.
func (s *ContactService) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	if _, err := s.addresses.GetByID(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAddressNotFound
		}
		return fmt.Errorf("load address: %w", err)
	}
	if err := s.addresses.SetDefault(ctx, userID, addressID); err != nil {
		return fmt.Errorf("set default address: %w", err)
	}
	return nil
}

// ListPhones returns every phone number owned by the user.
func (s *ContactService) ListPhones(ctx context.Context, userID string) ([]domain.Phone, error) {
	phones, err := s.phones.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list phones: %w", err)
	}
	return phones, nil
}

// AddPhone appends a phone number, applying the same first-item-is-default
// rule as addresses.
func (s *ContactService) AddPhone(ctx context.Context, userID string, input PhoneInput) (*domain.Phone, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Number) == "" {
		return nil, fmt.Errorf("%w: phone number is required", ErrInvalidInput)
	}

	existing, err := s.phones.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list phones: %w", err)
	}

	phone := domain.Phone{
		ID:     uuid.NewString(),
		UserID: userID,
		Number: strings.TrimSpace(input.Number),
	}
	if err := s.phones.Create(ctx, phone); err != nil {
		return nil, fmt.Errorf("create phone: %w", err)
	}

	if input.IsDefault || !domain.HasDefault[domain.Phone](existing) {
		if err := s.phones.SetDefault(ctx, userID, phone.ID); err != nil {
			return nil, fmt.Errorf("set default phone: %w", err)
		}
		phone.IsDefault = true
	}

	return &phone, nil
}

// UpdatePhone rewrites a phone number, sweeping the default flag when asked.
func (s *ContactService) UpdatePhone(ctx context.Context, userID, phoneID string, input PhoneInput) (*domain.Phone, error) {
	phone, err := s.phones.GetByID(ctx, userID, phoneID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPhoneNotFound
		}
		return nil, fmt.Errorf("load phone: %w", err)
	}
	if strings.TrimSpace(input.Number) == "" {
		return nil, fmt.Errorf("%w: phone number is required", ErrInvalidInput)
	}

	phone.Number = strings.TrimSpace(input.Number)
	if err := s.phones.Update(ctx, *phone); err != nil {
		return nil, fmt.Errorf("update phone: %w", err)
	}

	if input.IsDefault && !phone.IsDefault {
		if err := s.phones.SetDefault(ctx, userID, phone.ID); err != nil {
			return nil, fmt.Errorf("set default phone: %w", err)
		}
		phone.IsDefault = true
	}

	return phone, nil
}

// DeletePhone removes a phone number, promoting the first remaining sibling
// when the default is deleted.
func (s *ContactService) DeletePhone(ctx context.Context, userID, phoneID string) error {
	phone, err := s.phones.GetByID(ctx, userID, phoneID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhoneNotFound
		}
		return fmt.Errorf("load phone: %w", err)
	}

	siblings, err := s.phones.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list phones: %w", err)
	}

	if err := s.phones.Delete(ctx, userID, phone.ID); err != nil {
		return fmt.Errorf("delete phone: %w", err)
	}

	if phone.IsDefault {
		if nextID, ok := domain.NextDefault[domain.Phone](siblings, phone.ID); ok {
			if err := s.phones.SetDefault(ctx, userID, nextID); err != nil {
				return fmt.Errorf("promote default phone: %w", err)
			}
		}
	}

	return nil
}

// SetDefaultPhone marks a phone number as the default in one sweep.
func (s *ContactService) SetDefaultPhone(ctx context.Context, userID, phoneID string) error {
	if _, err := s.phones.GetByID(ctx, userID, phoneID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhoneNotFound
		}
		return fmt.Errorf("load phone: %w", err)
	}
	if err := s.phones.SetDefault(ctx, userID, phoneID); err != nil {
		return fmt.Errorf("set default phone: %w", err)
	}
	return nil
}

func (s *ContactService) requireUser(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}
	return nil
}
