package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/transport/http/middleware"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/usecase"
)

// ProfileHandler exposes self-service endpoints for the authenticated user.
type ProfileHandler struct {
	users *usecase.UserService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(users *usecase.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// RegisterRoutes binds profile routes. The group must already carry the auth
// middleware.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.get)
	r.PUT("", h.update)
	r.POST("/deactivate", h.deactivate)
	r.GET("/activity", h.activity)
	r.GET("/login-history", h.loginHistory)
}

func (h *ProfileHandler) get(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserPayload(*user))
}

func (h *ProfileHandler) update(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	birthdate, ok := parseBirthdate(c, req.Birthdate)
	if !ok {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, usecase.UpdateProfileInput{
		FullName:  strings.TrimSpace(req.FullName),
		Birthdate: birthdate,
		Region:    strings.TrimSpace(req.Region),
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserPayload(*user))
}

func (h *ProfileHandler) deactivate(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.users.DeactivateUser(c.Request.Context(), userID); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "account deactivated"})
}

func (h *ProfileHandler) activity(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	activities, err := h.users.ActivityLog(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": newActivityPayloads(activities)})
}

func (h *ProfileHandler) loginHistory(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	attempts, err := h.users.LoginHistory(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"login_attempts": newLoginAttemptPayloads(attempts)})
}

// queryLimit reads the optional ?limit= parameter. Zero means no limit.
func queryLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
