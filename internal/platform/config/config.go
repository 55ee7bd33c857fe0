package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	StoreDriver    string
	MigrationsPath string
	MemorySeedFile string
	DBMaxConns     int32

	JWTSecret string
	JWTIssuer string

	// DefaultFare and NegativeLimit are used when the fare_settings table holds no row.
	DefaultFare   domain.Money
	NegativeLimit *domain.Money
	// RequireDeviceRoleForOffline only honours offline=true from device tokens.
	RequireDeviceRoleForOffline bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ReceiptQueue  string
	ChangeChannel string
	NotifyTimeout time.Duration

	RateLimit          string
	CORSAllowedOrigins []string
}

// FareSettings is the configured fallback for stored fare settings.
func (c *Config) FareSettings() domain.FareSettings {
	return domain.FareSettings{DefaultFare: c.DefaultFare, Floor: c.NegativeLimit}
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORE_DRIVER", StorePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("MEMORY_SEED_FILE", "")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "campus-fare-ledger")
	v.SetDefault("DEFAULT_FARE", "15.00")
	v.SetDefault("NEGATIVE_LIMIT", "")
	v.SetDefault("REQUIRE_DEVICE_ROLE_FOR_OFFLINE", true)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RECEIPT_QUEUE", "fare_ledger:receipts")
	v.SetDefault("CHANGE_CHANNEL", "fare_ledger:changes")
	v.SetDefault("NOTIFY_TIMEOUT", "5s")
	v.SetDefault("RATE_LIMIT", "600-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.AutomaticEnv()

	return fromViper(v)
}

// LoadJWTConfig loads only the token signing settings, for tools that do not open a store.
func LoadJWTConfig() (secret, issuer string) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "campus-fare-ledger")
	v.AutomaticEnv()
	return v.GetString("JWT_SECRET"), v.GetString("JWT_ISSUER")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:                 v.GetString("PGSQL_URL"),
		Port:                        v.GetString("PORT"),
		IsProduction:                v.GetBool("IS_PRODUCTION"),
		StoreDriver:                 strings.ToLower(v.GetString("STORE_DRIVER")),
		MigrationsPath:              v.GetString("MIGRATIONS_PATH"),
		MemorySeedFile:              v.GetString("MEMORY_SEED_FILE"),
		DBMaxConns:                  v.GetInt32("DB_MAX_CONNS"),
		JWTSecret:                   v.GetString("JWT_SECRET"),
		JWTIssuer:                   v.GetString("JWT_ISSUER"),
		RequireDeviceRoleForOffline: v.GetBool("REQUIRE_DEVICE_ROLE_FOR_OFFLINE"),
		RedisAddr:                   v.GetString("REDIS_ADDR"),
		RedisPassword:               v.GetString("REDIS_PASSWORD"),
		RedisDB:                     v.GetInt("REDIS_DB"),
		ReceiptQueue:                v.GetString("RECEIPT_QUEUE"),
		ChangeChannel:               v.GetString("CHANGE_CHANNEL"),
		RateLimit:                   v.GetString("RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	switch cfg.StoreDriver {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER=%s", StorePostgres)
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	fare, err := domain.ParseMoney(v.GetString("DEFAULT_FARE"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_FARE: %w", err)
	}
	if err := fare.RequirePositive(); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_FARE: %w", err)
	}
	cfg.DefaultFare = fare

	if raw := v.GetString("NEGATIVE_LIMIT"); raw != "" {
		limit, err := domain.ParseMoney(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid NEGATIVE_LIMIT: %w", err)
		}
		if limit > 0 {
			return nil, fmt.Errorf("invalid NEGATIVE_LIMIT: %s must not be positive", limit)
		}
		cfg.NegativeLimit = &limit
	}

	timeout, err := time.ParseDuration(v.GetString("NOTIFY_TIMEOUT"))
	if err != nil || timeout <= 0 {
		timeout = 5 * time.Second
		log.Printf("Warning: Invalid value for NOTIFY_TIMEOUT. Defaulting to %s.\n", timeout)
	}
	cfg.NotifyTimeout = timeout

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
