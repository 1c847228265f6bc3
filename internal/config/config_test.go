package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DSN", "postgres://parking@localhost/parking")
	t.Setenv("JWT_SECRET", "secret")
}

func TestFromEnv_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 12*time.Hour, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 2, cfg.BookingWindowDays)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, cfg.ParkingPlaces)
	assert.Equal(t, "Europe/Prague", cfg.Location.String())
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, 3, cfg.StoreRetries)
	assert.Equal(t, 50*time.Millisecond, cfg.StoreRetryBase)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnv_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("BOOKING_WINDOW_DAYS", "3")
	t.Setenv("PARKING_PLACES", " 1, 2 ,3,10")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("USERS_FILE", "/etc/parking/users.json")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, 3, cfg.BookingWindowDays)
	assert.Equal(t, []int{1, 2, 3, 10}, cfg.ParkingPlaces)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, DriverRedis, cfg.StoreDriver)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "/etc/parking/users.json", cfg.UsersFile)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"JWT_SECRET": ""}},
		{"missing dsn", map[string]string{"DB_DSN": ""}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"memory without roster", map[string]string{"STORE_DRIVER": "memory"}},
		{"window below one", map[string]string{"BOOKING_WINDOW_DAYS": "0"}},
		{"window not a number", map[string]string{"BOOKING_WINDOW_DAYS": "two"}},
		{"bad places", map[string]string{"PARKING_PLACES": "1,x"}},
		{"bad timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}},
		{"bad ttl", map[string]string{"JWT_ACCESS_TOKEN_TTL": "forever"}},
		{"zero rps", map[string]string{"RATE_LIMIT_RPS": "0"}},
		{"negative retries", map[string]string{"STORE_RETRY_ATTEMPTS": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
