package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

// RoleRepository implements port.RoleRepository using PostgreSQL.
type RoleRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRoleRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewRoleRepository(exec pgExecutor) *RoleRepository {
	return &RoleRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new role row.
func (r *RoleRepository) Create(ctx context.Context, role domain.Role) error {
	stmt, args, err := r.builder.Insert("uam.roles").
		Columns("id", "name").
		Values(role.ID, role.Name).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if translated := translateError(err); translated == repository.ErrDuplicate {
			return translated
		}
		return fmt.Errorf("insert role: %w", err)
	}

	return nil
}

// GetByID retrieves a role by identifier.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves a role by name, matched case-insensitively.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.getOne(ctx, squirrel.Expr("LOWER(name) = LOWER(?)", name))
}

func (r *RoleRepository) getOne(ctx context.Context, where any) (*domain.Role, error) {
	stmt, args, err := r.builder.
		Select("id", "name").
		From("uam.roles").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role sql: %w", err)
	}

	var role domain.Role
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&role.ID, &role.Name); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}

	return &role, nil
}

// List returns every role ordered by name.
func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	stmt, args, err := r.builder.
		Select("id", "name").
		From("uam.roles").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

// Update rewrites the role name.
func (r *RoleRepository) Update(ctx context.Context, role domain.Role) error {
	stmt, args, err := r.builder.Update("uam.roles").
		Set("name", role.Name).
		Where(squirrel.Eq{"id": role.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update role sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if translated := translateError(err); translated == repository.ErrDuplicate {
			return translated
		}
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes the role row; grants referencing it go with it via
// ON DELETE CASCADE.
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("uam.roles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete role sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AttachPermission inserts a role-permission grant. An existing pair
// surfaces as repository.ErrDuplicate.
func (r *RoleRepository) AttachPermission(ctx context.Context, roleID, permissionID string) error {
	stmt, args, err := r.builder.Insert("uam.role_permissions").
		Columns("role_id", "permission_id").
		Values(roleID, permissionID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build attach permission sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if translated := translateError(err); translated == repository.ErrDuplicate {
			return translated
		}
		return fmt.Errorf("attach permission: %w", err)
	}

	return nil
}

// DetachPermission removes a role-permission grant. A missing pair surfaces
// as repository.ErrNotFound.
func (r *RoleRepository) DetachPermission(ctx context.Context, roleID, permissionID string) error {
	stmt, args, err := r.builder.Delete("uam.role_permissions").
		Where(squirrel.Eq{"role_id": roleID, "permission_id": permissionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build detach permission sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("detach permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// HasPermission reports whether the role-permission pair exists.
func (r *RoleRepository) HasPermission(ctx context.Context, roleID, permissionID string) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From("uam.role_permissions").
		Where(squirrel.Eq{"role_id": roleID, "permission_id": permissionID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build has permission sql: %w", err)
	}

	var one int
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("scan grant: %w", err)
	}

	return true, nil
}
