package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
)

// AuditRepository implements port.AuditRepository using PostgreSQL. All
// three tables are append-only; rows are never updated or deleted.
type AuditRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAuditRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewAuditRepository(exec pgExecutor) *AuditRepository {
	return &AuditRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// LogActivity appends a user activity fact.
func (r *AuditRepository) LogActivity(ctx context.Context, entry domain.UserActivity) error {
	stmt, args, err := r.builder.Insert("uam.user_activity").
		Columns("id", "user_id", "action", "created_at").
		Values(entry.ID, entry.UserID, entry.Action, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert activity sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}

	return nil
}

// LogLoginAttempt appends an authentication attempt fact.
func (r *AuditRepository) LogLoginAttempt(ctx context.Context, entry domain.LoginAttempt) error {
	stmt, args, err := r.builder.Insert("uam.login_attempts").
		Columns("id", "user_id", "outcome", "ip", "created_at").
		Values(entry.ID, entry.UserID, string(entry.Outcome), entry.IP, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert login attempt sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert login attempt: %w", err)
	}

	return nil
}

// LogRoleActivity appends a role activity fact.
func (r *AuditRepository) LogRoleActivity(ctx context.Context, entry domain.RoleActivity) error {
	stmt, args, err := r.builder.Insert("uam.role_activity").
		Columns("id", "role_id", "action", "created_at").
		Values(entry.ID, entry.RoleID, entry.Action, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role activity sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert role activity: %w", err)
	}

	return nil
}

// ListActivityByUser returns the most recent activity facts for a user.
func (r *AuditRepository) ListActivityByUser(ctx context.Context, userID string, limit int) ([]domain.UserActivity, error) {
	query := r.builder.
		Select("id", "user_id", "action", "created_at").
		From("uam.user_activity").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list activity sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var entries []domain.UserActivity
	for rows.Next() {
		var (
			entry  domain.UserActivity
			userID sql.NullString
		)
		if err := rows.Scan(&entry.ID, &userID, &entry.Action, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if userID.Valid {
			value := userID.String
			entry.UserID = &value
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}

	return entries, nil
}

// ListLoginAttemptsByUser returns the most recent authentication attempts
// for a user.
func (r *AuditRepository) ListLoginAttemptsByUser(ctx context.Context, userID string, limit int) ([]domain.LoginAttempt, error) {
	query := r.builder.
		Select("id", "user_id", "outcome", "ip", "created_at").
		From("uam.login_attempts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list login attempts sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list login attempts: %w", err)
	}
	defer rows.Close()

	var entries []domain.LoginAttempt
	for rows.Next() {
		var (
			entry   domain.LoginAttempt
			userID  sql.NullString
			outcome string
			ip      sql.NullString
		)
		if err := rows.Scan(&entry.ID, &userID, &outcome, &ip, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan login attempt: %w", err)
		}
		entry.Outcome = domain.LoginOutcome(outcome)
		if userID.Valid {
			value := userID.String
			entry.UserID = &value
		}
		if ip.Valid {
			value := ip.String
			entry.IP = &value
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate login attempts: %w", err)
	}

	return entries, nil
}

// ListActivityByRole returns the most recent activity facts for a role.
func (r *AuditRepository) ListActivityByRole(ctx context.Context, roleID string, limit int) ([]domain.RoleActivity, error) {
	query := r.builder.
		Select("id", "role_id", "action", "created_at").
		From("uam.role_activity").
		Where(squirrel.Eq{"role_id": roleID}).
		OrderBy("created_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list role activity sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list role activity: %w", err)
	}
	defer rows.Close()

	var entries []domain.RoleActivity
	for rows.Next() {
		var entry domain.RoleActivity
		if err := rows.Scan(&entry.ID, &entry.RoleID, &entry.Action, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role activity: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role activity: %w", err)
	}

	return entries, nil
}
