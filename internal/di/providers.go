package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/logiscore/logiscore-backend/internal/app"
	"github.com/logiscore/logiscore-backend/internal/config"
	"github.com/logiscore/logiscore-backend/internal/database"
	"github.com/logiscore/logiscore-backend/internal/health"
	"github.com/logiscore/logiscore-backend/internal/http/handler"
	"github.com/logiscore/logiscore-backend/internal/http/middleware"
	"github.com/logiscore/logiscore-backend/internal/http/router"
	"github.com/logiscore/logiscore-backend/internal/observability"
	"github.com/logiscore/logiscore-backend/internal/repository"
	"github.com/logiscore/logiscore-backend/internal/security"
	"github.com/logiscore/logiscore-backend/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideStorageService,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewForwarderRepository,
	repository.NewReviewRepository,
	repository.NewDisputeRepository,
	repository.NewCampaignRepository,
)

var SecuritySet = wire.NewSet(provideJWTManager)

var ServiceSet = wire.NewSet(
	provideMailer,
	provideRatingCache,
	service.NewAuthService,
	service.NewGitHubProvider,
	wire.Bind(new(service.OAuthProvider), new(*service.GitHubProvider)),
	service.NewOAuthService,
	service.NewUserService,
	service.NewForwarderService,
	service.NewReviewService,
	service.NewAdminService,
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
	wire.Bind(new(service.OAuthServiceInterface), new(*service.OAuthService)),
	wire.Bind(new(service.UserServiceInterface), new(*service.UserService)),
	wire.Bind(new(service.ForwarderServiceInterface), new(*service.ForwarderService)),
	wire.Bind(new(service.ReviewServiceInterface), new(*service.ReviewService)),
	wire.Bind(new(service.AdminServiceInterface), new(*service.AdminService)),
	wire.Bind(new(middleware.UserLoader), new(*service.UserService)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewForwarderHandler,
	handler.NewReviewHandler,
	handler.NewSearchHandler,
	handler.NewAdminHandler,
	provideAPIRateLimiter,
	provideAuthRateLimiter,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(provideApp)

type MigrationRunner struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewMigrationRunner(cfg *config.Config, db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{cfg: cfg, db: db}
}

func (m *MigrationRunner) Run() error {
	if err := database.Migrate(m.db); err != nil {
		return err
	}
	if err := database.Seed(m.db, m.cfg.BootstrapAdminEmail); err != nil {
		return err
	}
	fmt.Println("migration complete")
	return nil
}

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	if err := database.Seed(db, cfg.BootstrapAdminEmail); err != nil {
		return nil, err
	}
	return db, nil
}

// provideRedisClient returns nil when Redis is disabled. Consumers
// treat a nil client as "feature disabled".
func provideRedisClient(cfg *config.Config) redis.UniversalClient {
	if !cfg.RedisEnabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTSecret, "logiscore", cfg.JWTAccessTTL)
}

func provideMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	if cfg.EmailDevMode {
		return service.NewDevMailer(logger)
	}
	return service.NewSMTPMailer(cfg)
}

func provideRatingCache(redisClient redis.UniversalClient) service.RatingCache {
	if redisClient == nil {
		return service.NewNoopRatingCache()
	}
	return service.NewRedisRatingCache(redisClient, "logiscore:ratings")
}

func provideStorageService(cfg *config.Config) (service.StorageService, error) {
	return service.NewMinIOStorageService(
		cfg.MinIOEndpoint,
		cfg.MinIOAccessKey,
		cfg.MinIOSecretKey,
		cfg.MinIOBucket,
		cfg.MinIOUseSSL,
	)
}

func provideAPIRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) APIRateLimiterFunc {
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		redisLimiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimitRedisPrefix+":api")
		return APIRateLimiterFunc(middleware.NewDistributedRateLimiter(
			redisLimiter,
			cfg.APIRateLimitPerMin,
			time.Minute,
			middleware.FailOpen,
			"api",
		).Middleware())
	}
	return APIRateLimiterFunc(middleware.NewRateLimiter(cfg.APIRateLimitPerMin, time.Minute, "api").Middleware())
}

func provideAuthRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) AuthRateLimiterFunc {
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		redisLimiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimitRedisPrefix+":auth")
		return AuthRateLimiterFunc(middleware.NewDistributedRateLimiter(
			redisLimiter,
			cfg.AuthRateLimitPerMin,
			time.Minute,
			middleware.FailClosed,
			"auth",
		).Middleware())
	}
	return AuthRateLimiterFunc(middleware.NewRateLimiter(cfg.AuthRateLimitPerMin, time.Minute, "auth").Middleware())
}

// Distinct types so wire can tell the two limiters apart.
type APIRateLimiterFunc func(http.Handler) http.Handler
type AuthRateLimiterFunc func(http.Handler) http.Handler

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	forwarderHandler *handler.ForwarderHandler,
	reviewHandler *handler.ReviewHandler,
	searchHandler *handler.SearchHandler,
	adminHandler *handler.AdminHandler,
	jwt *security.JWTManager,
	users middleware.UserLoader,
	apiRateLimiter APIRateLimiterFunc,
	authRateLimiter AuthRateLimiterFunc,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		ForwarderHandler: forwarderHandler,
		ReviewHandler:    reviewHandler,
		SearchHandler:    searchHandler,
		AdminHandler:     adminHandler,
		JWTManager:       jwt,
		UserLoader:       users,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		AuthRateLimitRPM: cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:  cfg.APIRateLimitPerMin,
		APIRateLimiter:   apiRateLimiter,
		AuthRateLimiter:  authRateLimiter,
		Readiness:        readiness,
		EnableOTelHTTP:   cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient, storage service.StorageService) *health.ProbeRunner {
	checkers := make([]health.Checker, 0, 3)
	if c := health.NewDBChecker(db); c != nil {
		checkers = append(checkers, c)
	}
	if redisClient != nil {
		if c := health.NewRedisChecker(redisClient); c != nil {
			checkers = append(checkers, c)
		}
	}
	if minioSvc, ok := storage.(*service.MinIOStorageService); ok {
		if client := minioSvc.Client(); client != nil {
			checkers = append(checkers, health.NewObjectStoreChecker(client, minioSvc.Bucket()))
		}
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, cfg.ServerStartGracePeriod, checkers...)
}

func provideApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	readiness *health.ProbeRunner,
) *app.App {
	return app.New(cfg, logger, server, runtime, db, redisClient, readiness)
}
