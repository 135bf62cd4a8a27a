package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

// PhoneRepository implements port.PhoneRepository using PostgreSQL.
type PhoneRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPhoneRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewPhoneRepository(exec pgExecutor) *PhoneRepository {
	return &PhoneRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new phone row.
func (r *PhoneRepository) Create(ctx context.Context, phone domain.Phone) error {
	stmt, args, err := r.builder.Insert("uam.phones").
		Columns("id", "user_id", "number", "is_default").
		Values(phone.ID, phone.UserID, phone.Number, phone.IsDefault).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert phone sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert phone: %w", err)
	}

	return nil
}

// GetByID retrieves a phone scoped to its owner.
func (r *PhoneRepository) GetByID(ctx context.Context, userID, phoneID string) (*domain.Phone, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "number", "is_default").
		From("uam.phones").
		Where(squirrel.Eq{"id": phoneID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select phone sql: %w", err)
	}

	var phone domain.Phone
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&phone.ID, &phone.UserID, &phone.Number, &phone.IsDefault); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan phone: %w", err)
	}

	return &phone, nil
}

// ListByUser returns the user's phones in insertion order.
func (r *PhoneRepository) ListByUser(ctx context.Context, userID string) ([]domain.Phone, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "number", "is_default").
		From("uam.phones").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list phones sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list phones: %w", err)
	}
	defer rows.Close()

	var phones []domain.Phone
	for rows.Next() {
		var phone domain.Phone
		if err := rows.Scan(&phone.ID, &phone.UserID, &phone.Number, &phone.IsDefault); err != nil {
			return nil, fmt.Errorf("scan phone: %w", err)
		}
		phones = append(phones, phone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phones: %w", err)
	}

	return phones, nil
}

// Update rewrites the number. The default flag is only ever moved through
// SetDefault.
func (r *PhoneRepository) Update(ctx context.Context, phone domain.Phone) error {
	stmt, args, err := r.builder.Update("uam.phones").
		Set("number", phone.Number).
		Where(squirrel.Eq{"id": phone.ID, "user_id": phone.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update phone sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update phone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a phone scoped to its owner.
func (r *PhoneRepository) Delete(ctx context.Context, userID, phoneID string) error {
	stmt, args, err := r.builder.Delete("uam.phones").
		Where(squirrel.Eq{"id": phoneID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete phone sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete phone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetDefault marks the target as default and clears every sibling in a
// single statement.
func (r *PhoneRepository) SetDefault(ctx context.Context, userID, phoneID string) error {
	stmt := "UPDATE uam.phones SET is_default = (id = $2) WHERE user_id = $1"
	tag, err := r.exec.Exec(ctx, stmt, userID, phoneID)
	if err != nil {
		return fmt.Errorf("set default phone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
