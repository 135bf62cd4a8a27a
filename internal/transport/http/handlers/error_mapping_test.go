package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/usecase"
)

func respond(t *testing.T, err error, cases ...ErrorCase) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithMappedError(c, err, cases...)
	return w
}

func TestRespondWithMappedError_SharedTable(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{usecase.ErrInvalidInput, http.StatusBadRequest},
		{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{usecase.ErrRefreshUnauthorized, http.StatusUnauthorized},
		{usecase.ErrRoleProtected, http.StatusForbidden},
		{usecase.ErrAdminUndeletable, http.StatusForbidden},
		{usecase.ErrUserNotFound, http.StatusNotFound},
		{usecase.ErrPermissionNotAssigned, http.StatusNotFound},
		{usecase.ErrEmailTaken, http.StatusConflict},
		{usecase.ErrRoleAlreadyAssigned, http.StatusConflict},
	}

	for _, tc := range tests {
		if w := respond(t, tc.err); w.Code != tc.status {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
	}
}

func TestRespondWithMappedError_WrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("create user: %w", usecase.ErrEmailTaken)

	if w := respond(t, wrapped); w.Code != http.StatusConflict {
		t.Fatalf("wrapped sentinel must still map, got %d", w.Code)
	}
}

func TestRespondWithMappedError_EndpointCasesWin(t *testing.T) {
	w := respond(t, usecase.ErrUserNotFound,
		ErrorCase{usecase.ErrUserNotFound, http.StatusGone, "account purged"})

	if w.Code != http.StatusGone {
		t.Fatalf("endpoint case must take precedence, got %d", w.Code)
	}
}

func TestRespondWithMappedError_UnknownFallsBack(t *testing.T) {
	if w := respond(t, errors.New("boom")); w.Code != http.StatusInternalServerError {
		t.Fatalf("unknown errors must map to 500, got %d", w.Code)
	}
}
