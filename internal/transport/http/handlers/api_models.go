package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/usecase"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserPayload describes a user returned by the API. The password hash and
// refresh credential never leave the service.
type UserPayload struct {
	ID             string            `json:"id"`
	Email          string            `json:"email"`
	FullName       string            `json:"full_name"`
	Birthdate      *string           `json:"birthdate,omitempty"`
	Region         string            `json:"region"`
	Status         domain.UserStatus `json:"status"`
	EmailConfirmed bool              `json:"email_confirmed"`
	RoleName       string            `json:"role_name"`
	RegisteredAt   time.Time         `json:"registered_at"`
	LastLogin      *time.Time        `json:"last_login,omitempty"`
}

func newUserPayload(user domain.User) UserPayload {
	payload := UserPayload{
		ID:             user.ID,
		Email:          user.Email,
		FullName:       user.FullName,
		Region:         user.Region,
		Status:         user.Status,
		EmailConfirmed: user.EmailConfirmed,
		RoleName:       user.RoleName,
		RegisteredAt:   user.RegisteredAt,
		LastLogin:      user.LastLogin,
	}

	if user.Birthdate != nil {
		birthdate := user.Birthdate.Format("2006-01-02")
		payload.Birthdate = &birthdate
	}

	return payload
}

func newUserPayloads(users []domain.User) []UserPayload {
	payloads := make([]UserPayload, 0, len(users))
	for _, user := range users {
		payloads = append(payloads, newUserPayload(user))
	}
	return payloads
}

// UserListResponse wraps multiple users.
type UserListResponse struct {
	Users []UserPayload `json:"users"`
	Total int           `json:"total"`
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required"`
	FullName  string  `json:"full_name" binding:"required"`
	Birthdate *string `json:"birthdate,omitempty"`
	Region    string  `json:"region"`
	RoleName  string  `json:"role_name"`
}

// RegisterResponse contains registration results and next steps.
type RegisterResponse struct {
	User    UserPayload `json:"user"`
	Message string      `json:"message"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenPairResponse carries an access/refresh credential pair.
type TokenPairResponse struct {
	UserID           string      `json:"user_id"`
	TokenType        string      `json:"token_type"`
	AccessToken      string      `json:"access_token"`
	AccessExpiresAt  time.Time   `json:"access_expires_at"`
	RefreshToken     string      `json:"refresh_token"`
	RefreshExpiresAt time.Time   `json:"refresh_expires_at"`
	User             UserPayload `json:"user"`
}

func newTokenPairResponse(pair *usecase.TokenPair, user domain.User) TokenPairResponse {
	return TokenPairResponse{
		UserID:           pair.UserID,
		TokenType:        "Bearer",
		AccessToken:      pair.AccessToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		User:             newUserPayload(user),
	}
}

// TokenRefreshRequest represents the payload to refresh an access token. The
// expired access token travels in the body alongside the refresh credential.
type TokenRefreshRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenRefreshResponse contains tokens issued by the refresh endpoint.
type TokenRefreshResponse struct {
	TokenType        string    `json:"token_type"`
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// UpdateProfileRequest captures mutable profile attributes.
type UpdateProfileRequest struct {
	FullName  string  `json:"full_name" binding:"required"`
	Birthdate *string `json:"birthdate,omitempty"`
	Region    string  `json:"region"`
}

// RolePayload summarizes a role entity.
type RolePayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newRolePayload(role domain.Role) RolePayload {
	return RolePayload{ID: role.ID, Name: role.Name}
}

// RoleRequest defines the payload for creating or renaming a role.
type RoleRequest struct {
	Name string `json:"name" binding:"required"`
}

// RoleListResponse wraps multiple roles.
type RoleListResponse struct {
	Roles []RolePayload `json:"roles"`
}

// RoleMembershipRequest assigns or revokes a role for a user by name.
type RoleMembershipRequest struct {
	RoleName string `json:"role_name" binding:"required"`
}

// PermissionPayload describes a permission entity.
type PermissionPayload struct {
	ID          string  `json:"id"`
	Task        string  `json:"task"`
	Description *string `json:"description,omitempty"`
}

func newPermissionPayload(permission domain.Permission) PermissionPayload {
	return PermissionPayload{
		ID:          permission.ID,
		Task:        permission.Task,
		Description: permission.Description,
	}
}

func newPermissionPayloads(permissions []domain.Permission) []PermissionPayload {
	payloads := make([]PermissionPayload, 0, len(permissions))
	for _, permission := range permissions {
		payloads = append(payloads, newPermissionPayload(permission))
	}
	return payloads
}

// PermissionRequest defines the payload for creating or updating a permission.
type PermissionRequest struct {
	Task        string  `json:"task" binding:"required"`
	Description *string `json:"description,omitempty"`
}

// PermissionListResponse wraps multiple permissions.
type PermissionListResponse struct {
	Permissions []PermissionPayload `json:"permissions"`
}

// AddressPayload describes a postal address owned by a user.
type AddressPayload struct {
	ID        string `json:"id"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	IsDefault bool   `json:"is_default"`
}

func newAddressPayload(address domain.Address) AddressPayload {
	return AddressPayload{
		ID:        address.ID,
		Street:    address.Street,
		City:      address.City,
		State:     address.State,
		Country:   address.Country,
		IsDefault: address.IsDefault,
	}
}

// AddressRequest defines the payload for creating or updating an address.
type AddressRequest struct {
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state"`
	Country   string `json:"country"`
	IsDefault bool   `json:"is_default"`
}

// AddressListResponse wraps a user's addresses.
type AddressListResponse struct {
	Addresses []AddressPayload `json:"addresses"`
}

// PhonePayload describes a phone number owned by a user.
type PhonePayload struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	IsDefault bool   `json:"is_default"`
}

func newPhonePayload(phone domain.Phone) PhonePayload {
	return PhonePayload{ID: phone.ID, Number: phone.Number, IsDefault: phone.IsDefault}
}

// PhoneRequest defines the payload for creating or updating a phone number.
type PhoneRequest struct {
	Number    string `json:"number" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

// PhoneListResponse wraps a user's phone numbers.
type PhoneListResponse struct {
	Phones []PhonePayload `json:"phones"`
}

// ActivityPayload describes an audit fact.
type ActivityPayload struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

func newActivityPayloads(activities []domain.UserActivity) []ActivityPayload {
	payloads := make([]ActivityPayload, 0, len(activities))
	for _, activity := range activities {
		payloads = append(payloads, ActivityPayload{
			ID:        activity.ID,
			Action:    activity.Action,
			CreatedAt: activity.CreatedAt,
		})
	}
	return payloads
}

func newRoleActivityPayloads(activities []domain.RoleActivity) []ActivityPayload {
	payloads := make([]ActivityPayload, 0, len(activities))
	for _, activity := range activities {
		payloads = append(payloads, ActivityPayload{
			ID:        activity.ID,
			Action:    activity.Action,
			CreatedAt: activity.CreatedAt,
		})
	}
	return payloads
}

// LoginAttemptPayload describes a recorded authentication attempt.
type LoginAttemptPayload struct {
	ID        string    `json:"id"`
	Outcome   string    `json:"outcome"`
	IP        *string   `json:"ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newLoginAttemptPayloads(attempts []domain.LoginAttempt) []LoginAttemptPayload {
	payloads := make([]LoginAttemptPayload, 0, len(attempts))
	for _, attempt := range attempts {
		payloads = append(payloads, LoginAttemptPayload{
			ID:        attempt.ID,
			Outcome:   string(attempt.Outcome),
			IP:        attempt.IP,
			CreatedAt: attempt.CreatedAt,
		})
	}
	return payloads
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func parseBirthdate(c *gin.Context, raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}

	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "birthdate must use YYYY-MM-DD"))
		return nil, false
	}
	return &parsed, true
}
