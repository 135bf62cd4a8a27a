package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/port"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/config"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/database"
	kafkainfra "github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/kafka"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/logger"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/mail"
	redisinfra "github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/redis"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/security"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/telemetry"
	postgresrepo "github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository/postgres"
	redisrepo "github.com/AhmedKhaled-74/UserManagement-Amzon/internal/repository/redis"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/transport/http/middleware"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/transport/http/routes"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if _, err := telemetry.Attach(ctx, cfg); err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	cleanup := func() {
		pool.Close()
		_ = redisClient.Close()
	}

	hasher, err := security.NewArgon2Hasher(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("init password hasher: %w", err)
	}

	codec, err := security.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("init token codec: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var eventPublisher port.EventPublisher
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka disabled, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	mailer := mail.NewLogMailer(log)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitPrefix := cfg.Redis.RateLimitPrefix
	if rateLimitPrefix == "" {
		rateLimitPrefix = "uam:rate-limit"
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: rateLimitPrefix,
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	tokenService := usecase.NewTokenService(cfg, codec, repos.Users, log)
	accountService := usecase.NewAccountService(cfg, repos.Users, repos.Roles, repos.Audit, eventPublisher, mailer, hasher, tokenService, log)
	userService := usecase.NewUserService(repos.Users, repos.Audit, eventPublisher, log)
	roleService := usecase.NewRoleService(repos.Roles, repos.Users, repos.Audit, log)
	permissionService := usecase.NewPermissionService(repos.Permissions, repos.Roles, repos.Audit, log)
	contactService := usecase.NewContactService(repos.Addresses, repos.Phones, repos.Users, log)
	authzService := usecase.NewAuthorizationService(repos.Roles, repos.Permissions, log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Accounts:    accountService,
			Tokens:      tokenService,
			Users:       userService,
			Roles:       roleService,
			Permissions: permissionService,
			Contacts:    contactService,
			Authz:       authzService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting user management API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
