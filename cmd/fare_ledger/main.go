package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/core/services"
	"github.com/SscSPs/campus_fare_ledger/internal/handlers"
	"github.com/SscSPs/campus_fare_ledger/internal/middleware"
	"github.com/SscSPs/campus_fare_ledger/internal/platform/config"
	"github.com/SscSPs/campus_fare_ledger/internal/platform/notify"
	"github.com/SscSPs/campus_fare_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/campus_fare_ledger/internal/repositories/memory"
	"github.com/SscSPs/campus_fare_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// @title Campus Fare Ledger API
// @version 1.0
// @description Fare charging, refunds and shuttle assignment for the campus cashless platform.

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store", slog.String("store", cfg.StoreDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	redisClient := newRedisClient(ctx, cfg, logger)
	var notifier portssvc.Notifier = notify.LogNotifier{}
	if redisClient != nil {
		defer redisClient.Close()
		notifier = notify.NewRedisNotifier(redisClient, cfg.ReceiptQueue, cfg.ChangeChannel)
	}

	rateLimiter, err := newRateLimiter(cfg, redisClient)
	if err != nil {
		logger.Error("Failed to initialize rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, notifier)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, metrics, recovery, CORS)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		middleware.MetricsMiddleware(),
		gin.Recovery(),
		cors.New(corsConfig(cfg)),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, middleware.RateLimit(rateLimiter))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", slog.String("error", err.Error()))
	}
}

// openStore builds the repository provider for the configured STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.RepositoryProvider, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		store := memory.NewStore()
		if cfg.MemorySeedFile != "" {
			f, err := os.Open(cfg.MemorySeedFile)
			if err != nil {
				return repositories.RepositoryProvider{}, nil, fmt.Errorf("failed to open seed file: %w", err)
			}
			defer f.Close()
			if err := store.LoadSeed(ctx, f); err != nil {
				return repositories.RepositoryProvider{}, nil, err
			}
			logger.Info("Loaded memory store seed", slog.String("file", cfg.MemorySeedFile))
		}
		logger.Warn("Using in-memory store; state is lost on restart")
		return memory.NewRepositoryProvider(store), func() {}, nil

	default:
		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return repositories.RepositoryProvider{}, nil, err
		}

		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:       cfg.DBMaxConns,
			ConnectTimeout: 5 * time.Second,
		})
		if err != nil {
			return repositories.RepositoryProvider{}, nil, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
	}
}

// newRedisClient returns nil when REDIS_ADDR is unset or unreachable; notifications then only get logged.
func newRedisClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, notifications will only be logged")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unreachable, notifications will only be logged", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}
	logger.Info("Connected to Redis", slog.String("addr", cfg.RedisAddr))
	return client
}

// newRateLimiter shares counters through Redis when available so every replica enforces the same limit.
func newRateLimiter(cfg *config.Config, client *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}

	store := limitermemory.NewStore()
	if client != nil {
		store, err = limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: "fare_ledger:limiter"})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
		}
	}
	return limiter.New(store, rate), nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "X-Request-ID")
	c.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}
