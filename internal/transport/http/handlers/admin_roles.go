package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/usecase"
)

// AdminRoleHandler exposes role administration endpoints.
type AdminRoleHandler struct {
	roles       *usecase.RoleService
	permissions *usecase.PermissionService
}

// NewAdminRoleHandler constructs AdminRoleHandler.
func NewAdminRoleHandler(roles *usecase.RoleService, permissions *usecase.PermissionService) *AdminRoleHandler {
	return &AdminRoleHandler{roles: roles, permissions: permissions}
}

// RegisterRoutes binds role administration routes. The group must already
// carry auth and admin-role middleware.
func (h *AdminRoleHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/:roleId", h.get)
	r.PUT("/:roleId", h.update)
	r.DELETE("/:roleId", h.delete)
	r.GET("/:roleId/activity", h.activity)
	r.GET("/:roleId/permissions", h.listPermissions)
	r.POST("/:roleId/permissions/:permissionId", h.attachPermission)
	r.DELETE("/:roleId/permissions/:permissionId", h.detachPermission)
}

func (h *AdminRoleHandler) list(c *gin.Context) {
	roles, err := h.roles.ListRoles(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	payloads := make([]RolePayload, 0, len(roles))
	for _, role := range roles {
		payloads = append(payloads, newRolePayload(role))
	}

	c.JSON(http.StatusOK, RoleListResponse{Roles: payloads})
}

func (h *AdminRoleHandler) create(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name is required"))
		return
	}

	role, err := h.roles.AddRole(c.Request.Context(), req.Name)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newRolePayload(*role))
}

func (h *AdminRoleHandler) get(c *gin.Context) {
	role, err := h.roles.GetRole(c.Request.Context(), c.Param("roleId"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRolePayload(*role))
}

func (h *AdminRoleHandler) update(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name is required"))
		return
	}

	role, err := h.roles.UpdateRole(c.Request.Context(), c.Param("roleId"), req.Name)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRolePayload(*role))
}

func (h *AdminRoleHandler) delete(c *gin.Context) {
	if err := h.roles.DeleteRole(c.Request.Context(), c.Param("roleId")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminRoleHandler) activity(c *gin.Context) {
	activities, err := h.roles.RoleActivityLog(c.Request.Context(), c.Param("roleId"), queryLimit(c))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": newRoleActivityPayloads(activities)})
}

func (h *AdminRoleHandler) listPermissions(c *gin.Context) {
	permissions, err := h.permissions.ListRolePermissions(c.Request.Context(), c.Param("roleId"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, PermissionListResponse{Permissions: newPermissionPayloads(permissions)})
}

func (h *AdminRoleHandler) attachPermission(c *gin.Context) {
	if err := h.permissions.AssignPermissionToRole(c.Request.Context(), c.Param("roleId"), c.Param("permissionId")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "permission assigned"})
}

func (h *AdminRoleHandler) detachPermission(c *gin.Context) {
	if err := h.permissions.RevokePermissionFromRole(c.Request.Context(), c.Param("roleId"), c.Param("permissionId")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "permission revoked"})
}
