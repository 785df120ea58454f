package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/mdp_service/internal/adapters/cache"
	"github.com/SscSPs/mdp_service/internal/adapters/clients"
	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	"github.com/SscSPs/mdp_service/internal/core/services"
	"github.com/SscSPs/mdp_service/internal/handlers"
	"github.com/SscSPs/mdp_service/internal/middleware"
	"github.com/SscSPs/mdp_service/internal/platform/config"
	"github.com/SscSPs/mdp_service/internal/repositories/database/pgsql"
	"github.com/SscSPs/mdp_service/internal/utils"
	"github.com/SscSPs/mdp_service/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title MDP Service API
// @version 1.0
// @description Member access keys and journeys for the pension member portal.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.CalcAPIURL == "" {
		logger.Error("CALC_API_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, cfg.MdpDatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize mdp database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("mdp database connection pool established.")

	memberDB, err := database.NewMemberDB(ctx, cfg.MemberDatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize member database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer memberDB.Close()
	logger.Info("member database connection established.")

	// --- Run Database Migrations ---
	if err := runMigrations(logger, "pgx", cfg.MdpDatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Error("Failed to apply mdp migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.MemberMigrationsPath != "" {
		if err := runMigrations(logger, "postgres", cfg.MemberDatabaseURL, cfg.MemberMigrationsPath); err != nil {
			logger.Error("Failed to apply member migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if cfg.EnableDBCheck {
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("Failed to ping redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	uow := pgsql.NewUnitOfWork(dbPool)
	repos := pgsql.NewRepositoryProvider(dbPool, memberDB, uow)
	serviceContainer := services.NewServiceContainer(repos, newClientProvider(cfg, rdb))

	limiterInstance, err := middleware.NewRateLimiter(cfg.RateLimit, rdb)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, utils.DefaultPosthogEndpoint, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(limiterInstance))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	healthChecks := map[string]handlers.HealthChecker{
		"mdp_db":    handlers.HealthCheckFunc(dbPool.Ping),
		"member_db": handlers.HealthCheckFunc(memberDB.PingContext),
		"redis": handlers.HealthCheckFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, healthChecks,
		middleware.PosthogMiddleware(posthogClient),
		middleware.UnitOfWorkMiddleware(uow),
	)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newClientProvider wires the downstream API clients. Clients whose URL is not configured stay nil,
// which turns off the wording flags they feed.
func newClientProvider(cfg *config.Config, rdb *redis.Client) portsclients.ClientProvider {
	httpClient := clients.NewFastHTTPClient(cfg.HTTPClientTimeout)

	calculations := cache.NewCachedCalculationsClient(
		clients.NewCalculationsClient(httpClient, cfg.CalcAPIURL, cfg.HTTPClientTimeout),
		rdb,
		cfg.CalcCacheTTL,
	)
	provider := portsclients.ClientProvider{
		Calculations:      calculations,
		CalculationsCache: calculations,
		AccessKeyCache:    cache.NewAccessKeyCache(rdb, cfg.AccessKeyCacheTTL),
		MemberLock:        cache.NewRedisMemberLock(rdb, cache.DefaultMemberLockTTL),
	}
	if cfg.CasesAPIURL != "" {
		provider.Cases = clients.NewCasesClient(httpClient, cfg.CasesAPIURL, cfg.HTTPClientTimeout)
	}
	if cfg.InvestmentAPIURL != "" {
		provider.Investment = clients.NewInvestmentClient(httpClient, cfg.InvestmentAPIURL, cfg.HTTPClientTimeout)
	}
	if cfg.EpaAPIURL != "" {
		provider.Epa = clients.NewEpaClient(httpClient, cfg.EpaAPIURL, cfg.HTTPClientTimeout)
	}
	if cfg.SingleAuthAPIURL != "" {
		provider.SingleAuth = clients.NewSingleAuthClient(httpClient, cfg.SingleAuthAPIURL, cfg.HTTPClientTimeout)
	}
	if cfg.BankAPIURL != "" {
		provider.Bank = clients.NewBankClient(httpClient, cfg.BankAPIURL, cfg.HTTPClientTimeout)
	}
	return provider
}

// runMigrations applies every pending "up" migration found at sourceURL.
func runMigrations(logger *slog.Logger, driverName, databaseURL, sourceURL string) error {
	logger.Info("Running database migrations...", slog.String("source", sourceURL))
	migrationDB, err := sql.Open(driverName, databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}
	if err := errors.Join(sourceErr, dbErr); err != nil {
		return err
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.", slog.String("source", sourceURL))
	} else {
		logger.Info("Database migrations applied successfully.", slog.String("source", sourceURL))
	}
	return nil
}
