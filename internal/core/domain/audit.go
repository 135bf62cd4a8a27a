package domain

import "time"

// LoginOutcome is the recorded result of an authentication attempt.
type LoginOutcome string

const (
	LoginOutcomeSuccess LoginOutcome = "success"
	LoginOutcomeFailed  LoginOutcome = "failed"
)

// LoginAttempt records authentication attempts for audit. Append-only.
type LoginAttempt struct {
	ID        string
	UserID    *string
	Outcome   LoginOutcome
	IP        *string
	CreatedAt time.Time
}

// UserActivity is an append-only audit fact keyed by user.
type UserActivity struct {
	ID        string
	UserID    *string
	Action    string
	CreatedAt time.Time
}

// RoleActivity is an append-only audit fact keyed by role.
type RoleActivity struct {
	ID        string
	RoleID    string
	Action    string
	CreatedAt time.Time
}
