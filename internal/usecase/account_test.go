package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
)

const strongPassword = "Tr0pical-Harb0r!42"

type accountFixture struct {
	service   *AccountService
	tokens    *TokenService
	users     *userRepoMock
	roles     *roleRepoMock
	audit     *auditRepoMock
	publisher *publisherMock
	mailer    *mailerMock
}

func newAccountFixture(t *testing.T, users *userRepoMock) *accountFixture {
	t.Helper()

	roles := newRoleRepoMock(
		domain.Role{ID: "role-admin", Name: "Admin"},
		domain.Role{ID: "role-user", Name: "User"},
		domain.Role{ID: "role-editor", Name: "Editor"},
	)
	audit := &auditRepoMock{}
	publisher := &publisherMock{}
	mailer := &mailerMock{}
	tokens := newTestTokenService(t, users)

	service := NewAccountService(
		testConfig(),
		users,
		roles,
		audit,
		publisher,
		mailer,
		plainHasher{},
		tokens,
		zaptest.NewLogger(t),
	)

	return &accountFixture{
		service:   service,
		tokens:    tokens,
		users:     users,
		roles:     roles,
		audit:     audit,
		publisher: publisher,
		mailer:    mailer,
	}
}

func TestRegister_CreatesUnconfirmedAccount(t *testing.T) {
	fx := newAccountFixture(t, newUserRepoMock())

	result, err := fx.service.Register(context.Background(), RegisterInput{
		Email:    "Amina@Example.com",
		Password: strongPassword,
		FullName: "Amina Farouk",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if result.User.Status != domain.UserStatusUnconfirmed {
		t.Fatalf("expected unconfirmed status, got %s", result.User.Status)
	}
	if result.User.Email != "amina@example.com" {
		t.Fatalf("email not normalized: %s", result.User.Email)
	}
	if result.User.Region != "Egypt" {
		t.Fatalf("expected region fallback, got %q", result.User.Region)
	}
	if result.User.RoleName != "User" {
		t.Fatalf("expected default role, got %q", result.User.RoleName)
	}
	if result.ConfirmationToken == "" {
		t.Fatal("confirmation token missing")
	}

	if len(fx.publisher.added) != 1 {
		t.Fatalf("expected 1 user added event, got %d", len(fx.publisher.added))
	}
	if len(fx.mailer.sent) != 1 || fx.mailer.sent[0] != "amina@example.com" {
		t.Fatalf("confirmation mail not sent: %v", fx.mailer.sent)
	}
}

func TestRegister_ConfirmedEmailConflicts(t *testing.T) {
	existing := activeUser()
	fx := newAccountFixture(t, newUserRepoMock(existing))

	_, err := fx.service.Register(context.Background(), RegisterInput{
		Email:    existing.Email,
		Password: strongPassword,
		FullName: "Someone Else",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(fx.publisher.added) != 0 {
		t.Fatal("no event may be published on a failed registration")
	}
}

func TestRegister_PurgesStaleUnconfirmedRegistration(t *testing.T) {
	stale := domain.User{
		ID:           "stale-1",
		Email:        "amina@example.com",
		FullName:     "Amina Farouk",
		Region:       "Egypt",
		Status:       domain.UserStatusUnconfirmed,
		RoleID:       "role-user",
		RoleName:     "User",
		RegisteredAt: time.Now().UTC().Add(-72 * time.Hour),
	}
	users := newUserRepoMock(stale)
	fx := newAccountFixture(t, users)

	result, err := fx.service.Register(context.Background(), RegisterInput{
		Email:    "amina@example.com",
		Password: strongPassword,
		FullName: "Amina Farouk",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if len(users.deleted) != 1 || users.deleted[0] != "stale-1" {
		t.Fatalf("stale registration not purged: %v", users.deleted)
	}
	if result.User.ID == "stale-1" {
		t.Fatal("new registration must get a fresh identity")
	}
	if _, ok := users.users[result.User.ID]; !ok {
		t.Fatal("replacement account not created")
	}
}

func TestRegister_UnknownRole(t *testing.T) {
	fx := newAccountFixture(t, newUserRepoMock())

	_, err := fx.service.Register(context.Background(), RegisterInput{
		Email:    "amina@example.com",
		Password: strongPassword,
		FullName: "Amina Farouk",
		RoleName: "Wizard",
	})
	if !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestConfirmEmail_ActivatesAndIssuesFirstPair(t *testing.T) {
	fx := newAccountFixture(t, newUserRepoMock())

	result, err := fx.service.Register(context.Background(), RegisterInput{
		Email:    "amina@example.com",
		Password: strongPassword,
		FullName: "Amina Farouk",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	pair, err := fx.service.ConfirmEmail(context.Background(), result.User.ID, result.ConfirmationToken)
	if err != nil {
		t.Fatalf("ConfirmEmail returned error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("first token pair missing")
	}

	stored := fx.users.users[result.User.ID]
	if stored.Status != domain.UserStatusActive {
		t.Fatalf("expected active status, got %s", stored.Status)
	}
	if !stored.EmailConfirmed {
		t.Fatal("email_confirmed flag not set")
	}

	// Confirmation is one-shot.
	if _, err := fx.service.ConfirmEmail(context.Background(), result.User.ID, result.ConfirmationToken); !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("expected ErrAlreadyConfirmed, got %v", err)
	}
}

func TestConfirmEmail_WrongToken(t *testing.T) {
	fx := newAccountFixture(t, newUserRepoMock())

	result, err := fx.service.Register(context.Background(), RegisterInput{
		Email:    "amina@example.com",
		Password: strongPassword,
		FullName: "Amina Farouk",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, err := fx.service.ConfirmEmail(context.Background(), result.User.ID, "forged"); !errors.Is(err, ErrConfirmTokenInvalid) {
		t.Fatalf("expected ErrConfirmTokenInvalid, got %v", err)
	}

	if fx.users.users[result.User.ID].Status != domain.UserStatusUnconfirmed {
		t.Fatal("failed confirmation must not change status")
	}
}

func TestLogin_Succeeds(t *testing.T) {
	user := activeUser()
	user.PasswordHash = "plain$" + strongPassword
	fx := newAccountFixture(t, newUserRepoMock(user))

	pair, err := fx.service.Login(context.Background(), user.Email, strongPassword, "203.0.113.9")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if pair.RoleName != "Editor" {
		t.Fatalf("unexpected role on pair: %s", pair.RoleName)
	}

	if len(fx.audit.loginAttempts) != 1 {
		t.Fatalf("expected 1 login attempt record, got %d", len(fx.audit.loginAttempts))
	}
	attempt := fx.audit.loginAttempts[0]
	if attempt.Outcome != domain.LoginOutcomeSuccess {
		t.Fatalf("unexpected outcome: %s", attempt.Outcome)
	}
	if attempt.IP == nil || *attempt.IP != "203.0.113.9" {
		t.Fatal("source IP not recorded")
	}

	if fx.users.users[testUserID].LastLogin == nil {
		t.Fatal("last login not stamped")
	}
}

func TestLogin_WrongPasswordRecordsFailedAttempt(t *testing.T) {
	user := activeUser()
	user.PasswordHash = "plain$" + strongPassword
	fx := newAccountFixture(t, newUserRepoMock(user))

	_, err := fx.service.Login(context.Background(), user.Email, "wrong", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if len(fx.audit.loginAttempts) != 1 || fx.audit.loginAttempts[0].Outcome != domain.LoginOutcomeFailed {
		t.Fatal("failed attempt not recorded")
	}
}

func TestLogin_UnconfirmedAndInactiveRejected(t *testing.T) {
	unconfirmed := activeUser()
	unconfirmed.ID = "user-unconfirmed"
	unconfirmed.Email = "pending@example.com"
	unconfirmed.Status = domain.UserStatusUnconfirmed
	unconfirmed.EmailConfirmed = false
	unconfirmed.PasswordHash = "plain$" + strongPassword

	inactive := activeUser()
	inactive.ID = "user-inactive"
	inactive.Email = "suspended@example.com"
	inactive.Status = domain.UserStatusInactive
	inactive.PasswordHash = "plain$" + strongPassword

	fx := newAccountFixture(t, newUserRepoMock(unconfirmed, inactive))

	if _, err := fx.service.Login(context.Background(), "pending@example.com", strongPassword, ""); !errors.Is(err, ErrEmailNotConfirmed) {
		t.Fatalf("expected ErrEmailNotConfirmed, got %v", err)
	}
	if _, err := fx.service.Login(context.Background(), "suspended@example.com", strongPassword, ""); !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
}

func TestLogin_AuditFailureDoesNotBlock(t *testing.T) {
	user := activeUser()
	user.PasswordHash = "plain$" + strongPassword
	fx := newAccountFixture(t, newUserRepoMock(user))
	fx.audit.logErr = errors.New("audit store down")

	if _, err := fx.service.Login(context.Background(), user.Email, strongPassword, ""); err != nil {
		t.Fatalf("audit failure must not block login: %v", err)
	}
}

func TestLogout_InvalidatesRefreshToken(t *testing.T) {
	user := activeUser()
	user.PasswordHash = "plain$" + strongPassword
	fx := newAccountFixture(t, newUserRepoMock(user))

	pair, err := fx.service.Login(context.Background(), user.Email, strongPassword, "")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := fx.service.Logout(context.Background(), testUserID); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	if _, err := fx.tokens.RefreshAccessToken(context.Background(), pair.AccessToken, pair.RefreshToken); !errors.Is(err, ErrRefreshUnauthorized) {
		t.Fatalf("expected ErrRefreshUnauthorized after logout, got %v", err)
	}
}
