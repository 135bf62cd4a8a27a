package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/usecase"
)

// AdminPermissionHandler exposes permission administration endpoints.
type AdminPermissionHandler struct {
	permissions *usecase.PermissionService
}

// NewAdminPermissionHandler constructs AdminPermissionHandler.
func NewAdminPermissionHandler(permissions *usecase.PermissionService) *AdminPermissionHandler {
	return &AdminPermissionHandler{permissions: permissions}
}

// RegisterRoutes binds permission administration routes. The group must
// already carry auth and admin-role middleware.
func (h *AdminPermissionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/:permissionId", h.get)
	r.PUT("/:permissionId", h.update)
	r.DELETE("/:permissionId", h.delete)
}

func (h *AdminPermissionHandler) list(c *gin.Context) {
	permissions, err := h.permissions.ListPermissions(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, PermissionListResponse{Permissions: newPermissionPayloads(permissions)})
}

func (h *AdminPermissionHandler) create(c *gin.Context) {
	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "task is required"))
		return
	}

	permission, err := h.permissions.CreatePermission(c.Request.Context(), req.Task, req.Description)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPermissionPayload(*permission))
}

func (h *AdminPermissionHandler) get(c *gin.Context) {
	permission, err := h.permissions.GetPermission(c.Request.Context(), c.Param("permissionId"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPermissionPayload(*permission))
}

func (h *AdminPermissionHandler) update(c *gin.Context) {
	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "task is required"))
		return
	}

	permission, err := h.permissions.UpdatePermission(c.Request.Context(), c.Param("permissionId"), req.Task, req.Description)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPermissionPayload(*permission))
}

func (h *AdminPermissionHandler) delete(c *gin.Context) {
	if err := h.permissions.DeletePermission(c.Request.Context(), c.Param("permissionId")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
