package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	LogLevel          string
	StoreDriver       string
	DBDSN             string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	UsersFile         string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BookingWindowDays int
	ParkingPlaces     []int
	Location          *time.Location
	RateLimitRPS      float64
	RateLimitBurst    int
	StoreRetries      int
	StoreRetryBase    time.Duration
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	var err error
	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	// Reservation store backend (default: postgres)
	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres))
	switch cfg.StoreDriver {
	case DriverPostgres:
		// Database DSN is required
		cfg.DBDSN = os.Getenv("DB_DSN")
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required")
		}
	case DriverRedis:
		cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
		cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
		cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: must be one of postgres, redis, memory", cfg.StoreDriver)
	}

	// Roster file: imported into the users table for postgres, the only user source otherwise
	cfg.UsersFile = getEnv("USERS_FILE", "")
	if cfg.StoreDriver != DriverPostgres && cfg.UsersFile == "" {
		return nil, fmt.Errorf("USERS_FILE is required for STORE_DRIVER=%s", cfg.StoreDriver)
	}

	// JWT secret is required for verifying tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	ttlStr := getEnv("JWT_ACCESS_TOKEN_TTL", "12h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	// Working days ahead a non-priority user may book (default: 2)
	cfg.BookingWindowDays, err = getEnvAsInt("BOOKING_WINDOW_DAYS", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_WINDOW_DAYS: %w", err)
	}
	if cfg.BookingWindowDays < 1 {
		return nil, fmt.Errorf("invalid BOOKING_WINDOW_DAYS: must be at least 1, got %d", cfg.BookingWindowDays)
	}

	cfg.ParkingPlaces, err = getEnvAsIntList("PARKING_PLACES", []int{1, 2, 3, 4, 5, 6})
	if err != nil {
		return nil, fmt.Errorf("invalid PARKING_PLACES: %w", err)
	}

	tz := getEnv("TIMEZONE", "Europe/Prague")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	rps := getEnv("RATE_LIMIT_RPS", "5")
	cfg.RateLimitRPS, err = strconv.ParseFloat(rps, 64)
	if err != nil || cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q: must be a positive number", rps)
	}
	cfg.RateLimitBurst, err = getEnvAsInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	if cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: must be at least 1")
	}

	// Retries of transient store failures (default: 3, starting at 50ms)
	cfg.StoreRetries, err = getEnvAsInt("STORE_RETRY_ATTEMPTS", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_RETRY_ATTEMPTS: %w", err)
	}
	if cfg.StoreRetries < 0 {
		return nil, fmt.Errorf("invalid STORE_RETRY_ATTEMPTS: must not be negative")
	}
	cfg.StoreRetryBase, err = time.ParseDuration(getEnv("STORE_RETRY_BASE", "50ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_RETRY_BASE: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Return 0 and a wrapped error to provide context
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsIntList parses a comma separated list of integers.
func getEnvAsIntList(key string, defaultValue []int) ([]int, error) {
	valStr := getEnv(key, "")
	if strings.TrimSpace(valStr) == "" {
		return defaultValue, nil
	}

	var out []int
	for _, part := range strings.Split(valStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("env %s value %q is not a valid integer: %w", key, part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("env %s is empty", key)
	}
	return out, nil
}
