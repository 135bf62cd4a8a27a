package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/config"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/transport/http/handlers"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/transport/http/middleware"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Accounts    *usecase.AccountService
	Tokens      *usecase.TokenService
	Users       *usecase.UserService
	Roles       *usecase.RoleService
	Permissions *usecase.PermissionService
	Contacts    *usecase.ContactService
	Authz       *usecase.AuthorizationService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS([]string{"*"}))

	if metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{}); err != nil {
		deps.Logger.Warn("http metrics disabled", zap.Error(err))
	} else {
		r.Use(metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.RequireAuth(deps.Services.Tokens)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		accountGroup := api.Group("/account")
		accountHandler := handlers.NewAccountHandler(deps.Services.Accounts, deps.Services.Users)
		accountHandler.RegisterRoutes(accountGroup, authMiddleware,
			rateLimitChain(deps, "account_register_ip", deps.Config.RateLimit.RegisterMaxAttempts),
			rateLimitChain(deps, "account_login_ip", deps.Config.RateLimit.LoginMaxAttempts))

		tokenGroup := api.Group("/token")
		tokenHandler := handlers.NewTokenHandler(deps.Services.Tokens)
		tokenHandler.RegisterRoutes(tokenGroup,
			rateLimitChain(deps, "token_refresh_ip", deps.Config.RateLimit.RefreshMaxAttempts)...)

		profileGroup := api.Group("/profile")
		profileGroup.Use(authMiddleware)
		handlers.NewProfileHandler(deps.Services.Users).RegisterRoutes(profileGroup)
		handlers.NewContactHandler(deps.Services.Contacts).RegisterRoutes(profileGroup)

		adminGroup := api.Group("/admin")
		adminGroup.Use(authMiddleware, adminOnly)

		handlers.NewAdminUserHandler(deps.Services.Users, deps.Services.Roles).
			RegisterRoutes(adminGroup.Group("/users"))
		handlers.NewAdminRoleHandler(deps.Services.Roles, deps.Services.Permissions).
			RegisterRoutes(adminGroup.Group("/roles"))
		handlers.NewAdminPermissionHandler(deps.Services.Permissions).
			RegisterRoutes(adminGroup.Group("/permissions"))
	}

	return r
}

func rateLimitChain(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil || limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
