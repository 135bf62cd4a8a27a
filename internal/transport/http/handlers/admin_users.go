package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/usecase"
)

// AdminUserHandler exposes user administration endpoints.
type AdminUserHandler struct {
	users *usecase.UserService
	roles *usecase.RoleService
}

// NewAdminUserHandler constructs AdminUserHandler.
func NewAdminUserHandler(users *usecase.UserService, roles *usecase.RoleService) *AdminUserHandler {
	return &AdminUserHandler{users: users, roles: roles}
}

// RegisterRoutes binds user administration routes. The group must already
// carry auth and admin-role middleware.
func (h *AdminUserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.GET("/:userId", h.get)
	r.DELETE("/:userId", h.delete)
	r.POST("/:userId/activate", h.activate)
	r.POST("/:userId/deactivate", h.deactivate)
	r.GET("/:userId/activity", h.activity)
	r.GET("/:userId/login-history", h.loginHistory)
	r.POST("/:userId/roles", h.assignRole)
	r.DELETE("/:userId/roles", h.revokeRole)
}

// list returns all users, optionally narrowed by ?email=<address> or
// ?role=<name>. The email filter wins when both are present.
func (h *AdminUserHandler) list(c *gin.Context) {
	if email := strings.TrimSpace(c.Query("email")); email != "" {
		user, err := h.users.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			RespondWithMappedError(c, err)
			return
		}

		c.JSON(http.StatusOK, UserListResponse{Users: newUserPayloads([]domain.User{*user}), Total: 1})
		return
	}

	roleName := strings.TrimSpace(c.Query("role"))

	var (
		users []domain.User
		err   error
	)
	if roleName != "" {
		users, err = h.users.ListUsersByRole(c.Request.Context(), roleName)
	} else {
		users, err = h.users.ListUsers(c.Request.Context())
	}
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserListResponse{Users: newUserPayloads(users), Total: len(users)})
}

func (h *AdminUserHandler) get(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserPayload(*user))
}

func (h *AdminUserHandler) delete(c *gin.Context) {
	if err := h.users.DeleteUser(c.Request.Context(), c.Param("userId")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminUserHandler) activate(c *gin.Context) {
	if err := h.users.ActivateUser(c.Request.Context(), c.Param("userId")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "account activated"})
}

func (h *AdminUserHandler) deactivate(c *gin.Context) {
	if err := h.users.DeactivateUser(c.Request.Context(), c.Param("userId")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "account deactivated"})
}

func (h *AdminUserHandler) activity(c *gin.Context) {
	activities, err := h.users.ActivityLog(c.Request.Context(), c.Param("userId"), queryLimit(c))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": newActivityPayloads(activities)})
}

func (h *AdminUserHandler) loginHistory(c *gin.Context) {
	attempts, err := h.users.LoginHistory(c.Request.Context(), c.Param("userId"), queryLimit(c))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"login_attempts": newLoginAttemptPayloads(attempts)})
}

func (h *AdminUserHandler) assignRole(c *gin.Context) {
	var req RoleMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "role_name is required"))
		return
	}

	if err := h.roles.AssignRoleToUser(c.Request.Context(), c.Param("userId"), req.RoleName); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "role assigned"})
}

func (h *AdminUserHandler) revokeRole(c *gin.Context) {
	var req RoleMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "role_name is required"))
		return
	}

	if err := h.roles.RevokeRoleFromUser(c.Request.Context(), c.Param("userId"), req.RoleName); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "role revoked"})
}
