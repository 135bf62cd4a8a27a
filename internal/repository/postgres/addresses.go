package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

var addressColumns = []string{"id", "user_id", "street", "city", "state", "country", "is_default"}

// AddressRepository implements port.AddressRepository using PostgreSQL.
type AddressRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAddressRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewAddressRepository(exec pgExecutor) *AddressRepository {
	return &AddressRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new address row.
func (r *AddressRepository) Create(ctx context.Context, address domain.Address) error {
	stmt, args, err := r.builder.Insert("uam.addresses").
		Columns(addressColumns...).
		Values(address.ID, address.UserID, address.Street, address.City, address.State, address.Country, address.IsDefault).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert address sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert address: %w", err)
	}

	return nil
}

// GetByID retrieves an address scoped to its owner. A row owned by another
// user reads as absent.
func (r *AddressRepository) GetByID(ctx context.Context, userID, addressID string) (*domain.Address, error) {
	stmt, args, err := r.builder.
		Select(addressColumns...).
		From("uam.addresses").
		Where(squirrel.Eq{"id": addressID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select address sql: %w", err)
	}

	var address domain.Address
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&address.ID, &address.UserID, &address.Street, &address.City, &address.State, &address.Country, &address.IsDefault); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan address: %w", err)
	}

	return &address, nil
}

// ListByUser returns the user's addresses in insertion order.
func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	stmt, args, err := r.builder.
		Select(addressColumns...).
		From("uam.addresses").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list addresses sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var address domain.Address
		if err := rows.Scan(&address.ID, &address.UserID, &address.Street, &address.City, &address.State, &address.Country, &address.IsDefault); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}

	return addresses, nil
}

// Update rewrites the postal fields. The default flag is only ever moved
// through SetDefault.
func (r *AddressRepository) Update(ctx context.Context, address domain.Address) error {
	stmt, args, err := r.builder.Update("uam.addresses").
		Set("street", address.Street).
		Set("city", address.City).
		Set("state", address.State).
		Set("country", address.Country).
		Where(squirrel.Eq{"id": address.ID, "user_id": address.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update address sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes an address scoped to its owner.
func (r *AddressRepository) Delete(ctx context.Context, userID, addressID string) error {
	stmt, args, err := r.builder.Delete("uam.addresses").
		Where(squirrel.Eq{"id": addressID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete address sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetDefault marks the target as default and clears every sibling in a
// single statement, so no interleaving can observe two defaults.
func (r *AddressRepository) SetDefault(ctx context.Context, userID, addressID string) error {
	stmt := "UPDATE uam.addresses SET is_default = (id = $2) WHERE user_id = $1"
	tag, err := r.exec.Exec(ctx, stmt, userID, addressID)
	if err != nil {
		return fmt.Errorf("set default address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
