package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
)

func newTestUserService(t *testing.T, users *userRepoMock) (*UserService, *auditRepoMock, *publisherMock) {
	t.Helper()
	audit := &auditRepoMock{}
	publisher := &publisherMock{}
	return NewUserService(users, audit, publisher, zaptest.NewLogger(t)), audit, publisher
}

func TestDeactivateUser_ClearsRefreshCredential(t *testing.T) {
	user := activeUser()
	token := "stored-refresh-token"
	expiry := time.Now().UTC().Add(24 * time.Hour)
	user.RefreshToken = &token
	user.RefreshTokenExpiresAt = &expiry

	users := newUserRepoMock(user)
	service, _, publisher := newTestUserService(t, users)

	if err := service.DeactivateUser(context.Background(), testUserID); err != nil {
		t.Fatalf("DeactivateUser returned error: %v", err)
	}

	stored := users.users[testUserID]
	if stored.Status != domain.UserStatusInactive {
		t.Fatalf("expected inactive status, got %s", stored.Status)
	}
	if stored.RefreshToken != nil {
		t.Fatal("refresh token not cleared")
	}
	if stored.RefreshTokenExpiresAt == nil || stored.RefreshTokenExpiresAt.After(time.Now().UTC()) {
		t.Fatal("refresh expiry not forced into the past")
	}
	if len(publisher.updated) != 1 {
		t.Fatalf("expected 1 user updated event, got %d", len(publisher.updated))
	}
}

func TestDeactivateUser_OnlyFromActive(t *testing.T) {
	user := activeUser()
	user.Status = domain.UserStatusInactive
	users := newUserRepoMock(user)
	service, _, _ := newTestUserService(t, users)

	if err := service.DeactivateUser(context.Background(), testUserID); !errors.Is(err, ErrUserNotActive) {
		t.Fatalf("expected ErrUserNotActive, got %v", err)
	}
}

func TestActivateUser_OnlyFromInactive(t *testing.T) {
	inactive := activeUser()
	inactive.Status = domain.UserStatusInactive
	users := newUserRepoMock(inactive)
	service, _, _ := newTestUserService(t, users)

	if err := service.ActivateUser(context.Background(), testUserID); err != nil {
		t.Fatalf("ActivateUser returned error: %v", err)
	}
	if users.users[testUserID].Status != domain.UserStatusActive {
		t.Fatal("user not activated")
	}

	// Active accounts cannot be activated again.
	if err := service.ActivateUser(context.Background(), testUserID); !errors.Is(err, ErrUserNotInactive) {
		t.Fatalf("expected ErrUserNotInactive, got %v", err)
	}
}

func TestDeleteUser_OnlyUnconfirmedAndNeverAdmin(t *testing.T) {
	admin := activeUser()
	admin.ID = "user-admin"
	admin.Email = "root@example.com"
	admin.RoleID = "role-admin"
	admin.RoleName = "Admin"
	admin.Status = domain.UserStatusUnconfirmed

	confirmed := activeUser()
	confirmed.ID = "user-confirmed"
	confirmed.Email = "confirmed@example.com"

	pending := activeUser()
	pending.ID = "user-pending"
	pending.Email = "pending@example.com"
	pending.Status = domain.UserStatusUnconfirmed
	pending.RoleID = "role-user"
	pending.RoleName = "User"

	users := newUserRepoMock(admin, confirmed, pending)
	service, _, _ := newTestUserService(t, users)

	if err := service.DeleteUser(context.Background(), "user-admin"); !errors.Is(err, ErrAdminUndeletable) {
		t.Fatalf("expected ErrAdminUndeletable, got %v", err)
	}
	if err := service.DeleteUser(context.Background(), "user-confirmed"); !errors.Is(err, ErrUserNotDeletable) {
		t.Fatalf("expected ErrUserNotDeletable, got %v", err)
	}
	if err := service.DeleteUser(context.Background(), "user-pending"); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if _, ok := users.users["user-pending"]; ok {
		t.Fatal("pending user not removed")
	}
}

func TestUpdateProfile_RegionFallback(t *testing.T) {
	users := newUserRepoMock(activeUser())
	service, _, publisher := newTestUserService(t, users)

	updated, err := service.UpdateProfile(context.Background(), testUserID, UpdateProfileInput{
		FullName: "Amina F.",
		Region:   "  ",
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Region != "Egypt" {
		t.Fatalf("expected region fallback, got %q", updated.Region)
	}
	if updated.FullName != "Amina F." {
		t.Fatalf("full name not updated: %q", updated.FullName)
	}
	if len(publisher.updated) != 1 {
		t.Fatal("profile update must publish a user updated event")
	}
}

func TestUpdateProfile_RequiresFullName(t *testing.T) {
	users := newUserRepoMock(activeUser())
	service, _, _ := newTestUserService(t, users)

	if _, err := service.UpdateProfile(context.Background(), testUserID, UpdateProfileInput{FullName: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
