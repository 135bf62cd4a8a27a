package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/usecase"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// commonErrorCases holds the sentinel-to-status mapping shared by every
// handler. Per-endpoint cases are prepended so they win on overlap.
var commonErrorCases = []ErrorCase{
	{usecase.ErrInvalidInput, http.StatusBadRequest, "invalid input"},

	{usecase.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{usecase.ErrEmailNotConfirmed, http.StatusUnauthorized, "email not confirmed"},
	{usecase.ErrInactiveAccount, http.StatusUnauthorized, "account is not active"},
	{usecase.ErrConfirmTokenInvalid, http.StatusUnauthorized, "invalid confirmation token"},
	{usecase.ErrMalformedToken, http.StatusUnauthorized, "malformed access token"},
	{usecase.ErrInvalidTokenSignature, http.StatusUnauthorized, "invalid access token"},
	{usecase.ErrRefreshUnauthorized, http.StatusUnauthorized, "refresh rejected"},

	{usecase.ErrRoleProtected, http.StatusForbidden, "role is protected"},
	{usecase.ErrFallbackRoleRevoke, http.StatusForbidden, "the default role cannot be revoked"},
	{usecase.ErrAdminUndeletable, http.StatusForbidden, "admin accounts cannot be deleted"},
	{usecase.ErrUserNotDeletable, http.StatusForbidden, "only unconfirmed accounts can be deleted"},

	{usecase.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{usecase.ErrRoleNotFound, http.StatusNotFound, "role not found"},
	{usecase.ErrPermissionNotFound, http.StatusNotFound, "permission not found"},
	{usecase.ErrAddressNotFound, http.StatusNotFound, "address not found"},
	{usecase.ErrPhoneNotFound, http.StatusNotFound, "phone not found"},
	{usecase.ErrPermissionNotAssigned, http.StatusNotFound, "permission is not assigned to the role"},

	{usecase.ErrEmailTaken, http.StatusConflict, "email already registered"},
	{usecase.ErrAlreadyConfirmed, http.StatusConflict, "email already confirmed"},
	{usecase.ErrRoleExists, http.StatusConflict, "role already exists"},
	{usecase.ErrRoleAlreadyAssigned, http.StatusConflict, "role already assigned"},
	{usecase.ErrRoleNotAssigned, http.StatusConflict, "user does not hold the role"},
	{usecase.ErrPermissionExists, http.StatusConflict, "permission already exists"},
	{usecase.ErrPermissionAlreadyAssigned, http.StatusConflict, "permission already assigned"},
	{usecase.ErrUserNotActive, http.StatusConflict, "account is not active"},
	{usecase.ErrUserNotInactive, http.StatusConflict, "account is not inactive"},
}

// RespondWithMappedError resolves the provided error against the endpoint's
// own cases first, then the shared table, or falls back to a 500.
func RespondWithMappedError(c *gin.Context, err error, cases ...ErrorCase) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, cs := range append(cases, commonErrorCases...) {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, cs.Message))
			return
		}
	}

	c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal server error"))
}
