package domain

import "time"

// UserAddedEvent represents the payload for uam.user.added messages.
type UserAddedEvent struct {
	EventID      string
	UserID       string
	Email        string
	FullName     string
	Region       string
	Status       string
	RoleName     string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// UserUpdatedEvent represents the payload for uam.user.updated messages.
type UserUpdatedEvent struct {
	EventID   string
	UserID    string
	Email     string
	FullName  string
	Region    string
	Status    string
	RoleName  string
	UpdatedAt time.Time
	Metadata  map[string]any
}
