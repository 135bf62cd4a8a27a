package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
)

func newTestRoleService(t *testing.T, roles *roleRepoMock, users *userRepoMock) (*RoleService, *auditRepoMock) {
	t.Helper()
	audit := &auditRepoMock{}
	return NewRoleService(roles, users, audit, zaptest.NewLogger(t)), audit
}

func TestAddRole_CanonicalizesName(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{ID: "role-user", Name: "User"})
	service, _ := newTestRoleService(t, roles, newUserRepoMock())

	role, err := service.AddRole(context.Background(), "  content MANAGER ")
	if err != nil {
		t.Fatalf("AddRole returned error: %v", err)
	}
	if role.Name != "Content Manager" {
		t.Fatalf("expected canonical name, got %q", role.Name)
	}
}

func TestAddRole_CaseInsensitiveConflict(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{ID: "role-editor", Name: "Editor"})
	service, _ := newTestRoleService(t, roles, newUserRepoMock())

	if _, err := service.AddRole(context.Background(), "eDItor"); !errors.Is(err, ErrRoleExists) {
		t.Fatalf("expected ErrRoleExists, got %v", err)
	}
}

func TestDeleteRole_ProtectedRolesForbidden(t *testing.T) {
	roles := newRoleRepoMock(
		domain.Role{ID: "role-admin", Name: "Admin"},
		domain.Role{ID: "role-user", Name: "User"},
	)
	service, _ := newTestRoleService(t, roles, newUserRepoMock())

	if err := service.DeleteRole(context.Background(), "role-admin"); !errors.Is(err, ErrRoleProtected) {
		t.Fatalf("expected ErrRoleProtected for Admin, got %v", err)
	}
	if err := service.DeleteRole(context.Background(), "role-user"); !errors.Is(err, ErrRoleProtected) {
		t.Fatalf("expected ErrRoleProtected for User, got %v", err)
	}
}

func TestDeleteRole_ReassignsHoldersToFallback(t *testing.T) {
	roles := newRoleRepoMock(
		domain.Role{ID: "role-user", Name: "User"},
		domain.Role{ID: "role-editor", Name: "Editor"},
	)
	holderA := activeUser()
	holderA.ID = "user-a"
	holderA.Email = "a@example.com"
	holderB := activeUser()
	holderB.ID = "user-b"
	holderB.Email = "b@example.com"
	users := newUserRepoMock(holderA, holderB)

	service, audit := newTestRoleService(t, roles, users)

	if err := service.DeleteRole(context.Background(), "role-editor"); err != nil {
		t.Fatalf("DeleteRole returned error: %v", err)
	}

	for _, id := range []string{"user-a", "user-b"} {
		user := users.users[id]
		if user.RoleName != "User" || user.RoleID != "role-user" {
			t.Fatalf("user %s not reassigned to fallback: %+v", id, user)
		}
	}

	if _, err := roles.GetByID(context.Background(), "role-editor"); err == nil {
		t.Fatal("role not deleted")
	}

	// One audit fact per reassigned holder.
	if len(audit.activities) != 2 {
		t.Fatalf("expected 2 user audit facts, got %d", len(audit.activities))
	}
}

func TestAssignRoleToUser_DuplicateConflicts(t *testing.T) {
	roles := newRoleRepoMock(
		domain.Role{ID: "role-user", Name: "User"},
		domain.Role{ID: "role-editor", Name: "Editor"},
	)
	users := newUserRepoMock(activeUser())
	service, _ := newTestRoleService(t, roles, users)

	// The account already holds Editor; assigning it again is a conflict,
	// regardless of name casing.
	if err := service.AssignRoleToUser(context.Background(), testUserID, "editor"); !errors.Is(err, ErrRoleAlreadyAssigned) {
		t.Fatalf("expected ErrRoleAlreadyAssigned, got %v", err)
	}
}

func TestAssignRoleToUser_MovesUser(t *testing.T) {
	roles := newRoleRepoMock(
		domain.Role{ID: "role-user", Name: "User"},
		domain.Role{ID: "role-moderator", Name: "Moderator"},
	)
	users := newUserRepoMock(activeUser())
	service, _ := newTestRoleService(t, roles, users)

	if err := service.AssignRoleToUser(context.Background(), testUserID, "moderator"); err != nil {
		t.Fatalf("AssignRoleToUser returned error: %v", err)
	}

	user := users.users[testUserID]
	if user.RoleName != "Moderator" || user.RoleID != "role-moderator" {
		t.Fatalf("role not reassigned: %+v", user)
	}
}

func TestRevokeRoleFromUser_FallbackForbidden(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{ID: "role-user", Name: "User"})
	user := activeUser()
	user.RoleID = "role-user"
	user.RoleName = "User"
	service, _ := newTestRoleService(t, roles, newUserRepoMock(user))

	if err := service.RevokeRoleFromUser(context.Background(), testUserID, "User"); !errors.Is(err, ErrFallbackRoleRevoke) {
		t.Fatalf("expected ErrFallbackRoleRevoke, got %v", err)
	}
}

func TestRevokeRoleFromUser_NotHeldConflicts(t *testing.T) {
	roles := newRoleRepoMock(
		domain.Role{ID: "role-user", Name: "User"},
		domain.Role{ID: "role-moderator", Name: "Moderator"},
	)
	users := newUserRepoMock(activeUser())
	service, _ := newTestRoleService(t, roles, users)

	if err := service.RevokeRoleFromUser(context.Background(), testUserID, "Moderator"); !errors.Is(err, ErrRoleNotAssigned) {
		t.Fatalf("expected ErrRoleNotAssigned, got %v", err)
	}
}

func TestRevokeRoleFromUser_DropsToFallback(t *testing.T) {
	roles := newRoleRepoMock(
		domain.Role{ID: "role-user", Name: "User"},
		domain.Role{ID: "role-editor", Name: "Editor"},
	)
	users := newUserRepoMock(activeUser())
	service, _ := newTestRoleService(t, roles, users)

	if err := service.RevokeRoleFromUser(context.Background(), testUserID, "Editor"); err != nil {
		t.Fatalf("RevokeRoleFromUser returned error: %v", err)
	}

	user := users.users[testUserID]
	if user.RoleName != "User" {
		t.Fatalf("user not dropped to fallback role: %+v", user)
	}
}

func TestUpdateRole_RenamesHolders(t *testing.T) {
	roles := newRoleRepoMock(
		domain.Role{ID: "role-user", Name: "User"},
		domain.Role{ID: "role-editor", Name: "Editor"},
	)
	holder := activeUser()
	users := newUserRepoMock(holder)
	service, _ := newTestRoleService(t, roles, users)

	role, err := service.UpdateRole(context.Background(), "role-editor", "senior editor")
	if err != nil {
		t.Fatalf("UpdateRole returned error: %v", err)
	}
	if role.Name != "Senior Editor" {
		t.Fatalf("expected canonical rename, got %q", role.Name)
	}

	if got := users.users[testUserID].RoleName; got != "Senior Editor" {
		t.Fatalf("denormalized role name not rewritten: %q", got)
	}
}

func TestUpdateRole_ProtectedForbidden(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{ID: "role-user", Name: "User"})
	service, _ := newTestRoleService(t, roles, newUserRepoMock())

	if _, err := service.UpdateRole(context.Background(), "role-user", "Member"); !errors.Is(err, ErrRoleProtected) {
		t.Fatalf("expected ErrRoleProtected, got %v", err)
	}
}
