package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/transport/http/middleware"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/usecase"
)

// AccountHandler exposes registration, confirmation, and authentication
// endpoints.
type AccountHandler struct {
	accounts *usecase.AccountService
	users    *usecase.UserService
}

// NewAccountHandler constructs AccountHandler.
func NewAccountHandler(accounts *usecase.AccountService, users *usecase.UserService) *AccountHandler {
	return &AccountHandler{accounts: accounts, users: users}
}

// RegisterRoutes binds account routes, applying optional middleware ahead of
// the rate-limited endpoints.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc, registerLimit, loginLimit []gin.HandlerFunc) {
	r.POST("/register", withChain(registerLimit, h.register)...)
	r.GET("/confirm", h.confirm)
	r.POST("/login", withChain(loginLimit, h.login)...)
	r.POST("/logout", auth, h.logout)
}

func withChain(middlewares []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := append([]gin.HandlerFunc{}, middlewares...)
	return append(chain, handler)
}

func (h *AccountHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	birthdate, ok := parseBirthdate(c, req.Birthdate)
	if !ok {
		return
	}

	result, err := h.accounts.Register(c.Request.Context(), usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		Birthdate: birthdate,
		Region:    strings.TrimSpace(req.Region),
		RoleName:  strings.TrimSpace(req.RoleName),
		SourceIP:  c.ClientIP(),
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	// The confirmation token travels by mail only.
	c.JSON(http.StatusCreated, RegisterResponse{
		User:    newUserPayload(result.User),
		Message: "confirmation email sent",
	})
}

// confirm consumes the emailed link: GET /confirm?userId=...&token=...
func (h *AccountHandler) confirm(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	token := strings.TrimSpace(c.Query("token"))
	if userID == "" || token == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "userId and token are required"))
		return
	}

	pair, err := h.accounts.ConfirmEmail(c.Request.Context(), userID, token)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTokenPairResponse(pair, *user))
}

func (h *AccountHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	pair, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), pair.UserID)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTokenPairResponse(pair, *user))
}

func (h *AccountHandler) logout(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.accounts.Logout(c.Request.Context(), userID); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
