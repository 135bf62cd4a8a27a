package domain

import "time"

// UserStatus enumerates possible account states.
type UserStatus string

const (
	UserStatusUnconfirmed UserStatus = "unconfirmed"
	UserStatusActive      UserStatus = "active"
	UserStatusInactive    UserStatus = "inactive"
	UserStatusDeleted     UserStatus = "deleted"
)

// User mirrors the persisted representation in the users table. The current
// role is denormalized (id + name) and the single active refresh credential
// lives directly on the row.
type User struct {
	ID             string
	Email          string
	FullName       string
	Birthdate      *time.Time
	Region         string
	PasswordHash   string
	PasswordAlgo   string
	Status         UserStatus
	EmailConfirmed bool
	RoleID         string
	RoleName       string

	RefreshToken          *string
	RefreshTokenExpiresAt *time.Time

	// ConfirmTokenHash holds the SHA-256 of the emailed confirmation token
	// while the account is unconfirmed; cleared on confirmation.
	ConfirmTokenHash *string

	RegisteredAt time.Time
	LastLogin    *time.Time
}

// ConfirmEmail transitions an unconfirmed account to active.
// Returns true if the state changed.
func (u *User) ConfirmEmail() bool {
	if u.Status != UserStatusUnconfirmed {
		return false
	}
	u.Status = UserStatusActive
	u.EmailConfirmed = true
	u.ConfirmTokenHash = nil
	return true
}

// Deactivate suspends an active account and invalidates the stored refresh
// credential by clearing its value and forcing the expiry to now.
// Returns true if the state changed.
func (u *User) Deactivate(at time.Time) bool {
	if u.Status != UserStatusActive {
		return false
	}
	u.Status = UserStatusInactive
	u.RefreshToken = nil
	expiry := at
	u.RefreshTokenExpiresAt = &expiry
	return true
}

// Activate reinstates a deactivated account.
// Returns true if the state changed.
func (u *User) Activate() bool {
	if u.Status != UserStatusInactive {
		return false
	}
	u.Status = UserStatusActive
	return true
}

// Deletable reports whether the account may be physically removed. Only
// unconfirmed (suspended) accounts that do not hold the Admin role qualify.
func (u User) Deletable() bool {
	if IsAdminRole(u.RoleName) {
		return false
	}
	return u.Status == UserStatusUnconfirmed
}

// ReplaceRefreshToken rotates the refresh credential. The previous value,
// if any, becomes permanently invalid.
func (u *User) ReplaceRefreshToken(token string, expiresAt time.Time) {
	u.RefreshToken = &token
	u.RefreshTokenExpiresAt = &expiresAt
}

// HasValidRefreshToken reports whether the presented credential matches the
// stored one and the stored one has not expired.
func (u User) HasValidRefreshToken(presented string, at time.Time) bool {
	if u.RefreshToken == nil || *u.RefreshToken == "" || presented == "" {
		return false
	}
	if *u.RefreshToken != presented {
		return false
	}
	if u.RefreshTokenExpiresAt == nil {
		return false
	}
	return u.RefreshTokenExpiresAt.After(at)
}
