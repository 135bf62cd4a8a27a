package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository"
)

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	registeredAt := time.Now().UTC()
	confirmHash := "abc123"
	user := domain.User{
		ID:               "user-1",
		Email:            "dina@example.com",
		FullName:         "Dina Hassan",
		Region:           "Egypt",
		PasswordHash:     "argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		PasswordAlgo:     "argon2id",
		Status:           domain.UserStatusUnconfirmed,
		RoleID:           "role-user",
		RoleName:         "User",
		ConfirmTokenHash: &confirmHash,
		RegisteredAt:     registeredAt,
	}

	mock.ExpectExec(`INSERT INTO uam\.users`).
		WithArgs(
			user.ID,
			user.Email,
			user.FullName,
			(*time.Time)(nil),
			user.Region,
			user.PasswordHash,
			user.PasswordAlgo,
			"unconfirmed",
			false,
			user.RoleID,
			user.RoleName,
			(*string)(nil),
			(*time.Time)(nil),
			&confirmHash,
			registeredAt,
			(*time.Time)(nil),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM uam\.users`).
		WithArgs("ghost@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err = repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_ReplaceRefreshToken_Clear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	expiry := time.Now().UTC()
	mock.ExpectExec(`UPDATE uam\.users SET refresh_token`).
		WithArgs((*string)(nil), &expiry, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.ReplaceRefreshToken(context.Background(), "user-1", nil, &expiry); err != nil {
		t.Fatalf("ReplaceRefreshToken returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_ReassignRole_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE uam\.users SET role_id`).
		WithArgs("role-editor", "Editor", "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.ReassignRole(context.Background(), "ghost", "role-editor", "Editor")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
