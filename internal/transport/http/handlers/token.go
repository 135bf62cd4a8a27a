package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/usecase"
)

// TokenHandler exposes the refresh endpoint.
type TokenHandler struct {
	tokens *usecase.TokenService
}

// NewTokenHandler constructs TokenHandler.
func NewTokenHandler(tokens *usecase.TokenService) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// RegisterRoutes binds token routes.
func (h *TokenHandler) RegisterRoutes(r *gin.RouterGroup, middlewares ...gin.HandlerFunc) {
	r.POST("/refresh", withChain(middlewares, h.refresh)...)
}

// refresh exchanges an expired access token plus the stored refresh
// credential for a fresh access token. The refresh credential itself is not
// rotated here.
func (h *TokenHandler) refresh(c *gin.Context) {
	var req TokenRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "access_token and refresh_token are required"))
		return
	}

	pair, err := h.tokens.RefreshAccessToken(c.Request.Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenRefreshResponse{
		TokenType:        "Bearer",
		AccessToken:      pair.AccessToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	})
}
