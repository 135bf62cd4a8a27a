package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

var userColumns = []string{
	"id",
	"email",
	"full_name",
	"birthdate",
	"region",
	"password_hash",
	"password_algo",
	"status",
	"email_confirmed",
	"role_id",
	"role_name",
	"refresh_token",
	"refresh_token_expires_at",
	"confirm_token_hash",
	"registered_at",
	"last_login",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewUserRepository(exec pgExecutor) *UserRepository {
	return &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	query := r.builder.Insert("uam.users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.Email,
			user.FullName,
			user.Birthdate,
			user.Region,
			user.PasswordHash,
			user.PasswordAlgo,
			string(user.Status),
			user.EmailConfirmed,
			user.RoleID,
			user.RoleName,
			user.RefreshToken,
			user.RefreshTokenExpiresAt,
			user.ConfirmTokenHash,
			user.RegisteredAt,
			user.LastLogin,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if translated := translateError(err); translated == repository.ErrDuplicate {
			return translated
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by its unique email, matched case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email))
}

func (r *UserRepository) getOne(ctx context.Context, where any) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("uam.users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	user, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return user, nil
}

// List returns every user ordered by registration time.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.list(ctx, nil)
}

// ListByRole returns users whose denormalized role name matches, ignoring case.
func (r *UserRepository) ListByRole(ctx context.Context, roleName string) ([]domain.User, error) {
	return r.list(ctx, squirrel.Expr("LOWER(role_name) = LOWER(?)", roleName))
}

func (r *UserRepository) list(ctx context.Context, where any) ([]domain.User, error) {
	query := r.builder.
		Select(userColumns...).
		From("uam.users").
		OrderBy("registered_at ASC")
	if where != nil {
		query = query.Where(where)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Update rewrites every mutable column of the user row.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Update("uam.users").
		Set("email", user.Email).
		Set("full_name", user.FullName).
		Set("birthdate", user.Birthdate).
		Set("region", user.Region).
		Set("password_hash", user.PasswordHash).
		Set("password_algo", user.PasswordAlgo).
		Set("status", string(user.Status)).
		Set("email_confirmed", user.EmailConfirmed).
		Set("role_id", user.RoleID).
		Set("role_name", user.RoleName).
		Set("refresh_token", user.RefreshToken).
		Set("refresh_token_expires_at", user.RefreshTokenExpiresAt).
		Set("confirm_token_hash", user.ConfirmTokenHash).
		Set("last_login", user.LastLogin).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateStatus rewrites only the account status.
func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error {
	stmt, args, err := r.builder.Update("uam.users").
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update status sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ReplaceRefreshToken atomically swaps the stored refresh credential.
func (r *UserRepository) ReplaceRefreshToken(ctx context.Context, id string, token *string, expiresAt *time.Time) error {
	stmt, args, err := r.builder.Update("uam.users").
		Set("refresh_token", token).
		Set("refresh_token_expires_at", expiresAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build replace refresh token sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("replace refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ReassignRole rewrites the role reference and the denormalized role name.
func (r *UserRepository) ReassignRole(ctx context.Context, userID, roleID, roleName string) error {
	stmt, args, err := r.builder.Update("uam.users").
		Set("role_id", roleID).
		Set("role_name", roleName).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reassign role sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("reassign role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateLastLogin stamps the most recent successful authentication.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("uam.users").
		Set("last_login", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}

	return nil
}

// Delete removes the user row; owned addresses and phones go with it via
// ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("uam.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user             domain.User
		status           string
		birthdate        *time.Time
		refreshToken     sql.NullString
		refreshExpiry    *time.Time
		confirmTokenHash sql.NullString
		lastLogin        *time.Time
	)

	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&birthdate,
		&user.Region,
		&user.PasswordHash,
		&user.PasswordAlgo,
		&status,
		&user.EmailConfirmed,
		&user.RoleID,
		&user.RoleName,
		&refreshToken,
		&refreshExpiry,
		&confirmTokenHash,
		&user.RegisteredAt,
		&lastLogin,
	); err != nil {
		return nil, err
	}

	user.Status = domain.UserStatus(status)
	user.Birthdate = birthdate
	user.RefreshTokenExpiresAt = refreshExpiry
	user.LastLogin = lastLogin
	if refreshToken.Valid {
		value := refreshToken.String
		user.RefreshToken = &value
	}
	if confirmTokenHash.Valid {
		value := confirmTokenHash.String
		user.ConfirmTokenHash = &value
	}

	return &user, nil
}
