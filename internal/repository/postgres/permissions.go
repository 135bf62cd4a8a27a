package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

// PermissionRepository implements port.PermissionRepository using PostgreSQL.
type PermissionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPermissionRepository constructs a repository backed by any executor
// that satisfies pgExecutor.
func NewPermissionRepository(exec pgExecutor) *PermissionRepository {
	return &PermissionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new permission row.
func (r *PermissionRepository) Create(ctx context.Context, permission domain.Permission) error {
	stmt, args, err := r.builder.Insert("uam.permissions").
		Columns("id", "task", "description").
		Values(permission.ID, permission.Task, permission.Description).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert permission sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if translated := translateError(err); translated == repository.ErrDuplicate {
			return translated
		}
		return fmt.Errorf("insert permission: %w", err)
	}

	return nil
}

// GetByID retrieves a permission by identifier.
func (r *PermissionRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByTask retrieves a permission by task, matched case-insensitively so
// near-duplicate catalog entries are caught at creation time.
func (r *PermissionRepository) GetByTask(ctx context.Context, task string) (*domain.Permission, error) {
	return r.getOne(ctx, squirrel.Expr("LOWER(task) = LOWER(?)", task))
}

func (r *PermissionRepository) getOne(ctx context.Context, where any) (*domain.Permission, error) {
	stmt, args, err := r.builder.
		Select("id", "task", "description").
		From("uam.permissions").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permission sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	permission, err := scanPermission(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan permission: %w", err)
	}

	return permission, nil
}

// List returns the full permission catalog ordered by task.
func (r *PermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	stmt, args, err := r.builder.
		Select("id", "task", "description").
		From("uam.permissions").
		OrderBy("task ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list permissions sql: %w", err)
	}

	return r.queryMany(ctx, stmt, args)
}

// ListByRole returns the permissions granted to a role through the junction.
func (r *PermissionRepository) ListByRole(ctx context.Context, roleID string) ([]domain.Permission, error) {
	stmt, args, err := r.builder.
		Select("p.id", "p.task", "p.description").
		From("uam.permissions p").
		Join("uam.role_permissions rp ON rp.permission_id = p.id").
		Where(squirrel.Eq{"rp.role_id": roleID}).
		OrderBy("p.task ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list role permissions sql: %w", err)
	}

	return r.queryMany(ctx, stmt, args)
}

func (r *PermissionRepository) queryMany(ctx context.Context, stmt string, args []any) ([]domain.Permission, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	var permissions []domain.Permission
	for rows.Next() {
		permission, err := scanPermission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		permissions = append(permissions, *permission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}

	return permissions, nil
}

// Update rewrites the task and description.
func (r *PermissionRepository) Update(ctx context.Context, permission domain.Permission) error {
	stmt, args, err := r.builder.Update("uam.permissions").
		Set("task", permission.Task).
		Set("description", permission.Description).
		Where(squirrel.Eq{"id": permission.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update permission sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if translated := translateError(err); translated == repository.ErrDuplicate {
			return translated
		}
		return fmt.Errorf("update permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes the permission row; grants referencing it go with it via
// ON DELETE CASCADE.
func (r *PermissionRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("uam.permissions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete permission sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanPermission(row pgx.Row) (*domain.Permission, error) {
	var (
		permission  domain.Permission
		description sql.NullString
	)
	if err := row.Scan(&permission.ID, &permission.Task, &description); err != nil {
		return nil, err
	}
	if description.Valid {
		value := description.String
		permission.Description = &value
	}
	return &permission, nil
}
