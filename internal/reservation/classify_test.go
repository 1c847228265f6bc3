package reservation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replyError is a server error reply as go-redis surfaces it.
type replyError string

func (e replyError) Error() string { return string(e) }
func (replyError) RedisError()     {}

var (
	errDial = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	errRead = &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}
)

func pgError(code string) error {
	return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code})
}

func TestPostgresErrorClassifiers(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
		write     bool
	}{
		{"dial failure", errDial, true, false},
		{"read failure", errRead, true, false},
		{"unique violation", pgError(pgerrcode.UniqueViolation), false, false},
		{"foreign key violation", pgError(pgerrcode.ForeignKeyViolation), false, false},
		{"serialization failure", pgError(pgerrcode.SerializationFailure), true, true},
		{"deadlock", pgError(pgerrcode.DeadlockDetected), true, true},
		{"connection failure", pgError(pgerrcode.ConnectionFailure), true, true},
		{"admin shutdown", pgError(pgerrcode.AdminShutdown), true, false},
		{"canceled", context.Canceled, false, false},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), false, false},
		{"plain error", errors.New("boom"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, isTransientPg(tt.err), "isTransientPg")
			assert.Equal(t, tt.write, isRetryableWrite(tt.err), "isRetryableWrite")
		})
	}
}

func TestRedisErrorClassifiers(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		busy      bool
		transient bool
		write     bool
	}{
		{"dial failure", errDial, false, true, true},
		{"read failure", errRead, false, true, false},
		{"loading", replyError("LOADING Redis is loading the dataset in memory"), true, true, true},
		{"busy script", replyError("BUSY Redis is busy running a script"), true, true, true},
		{"wrapped tryagain", fmt.Errorf("eval: %w", replyError("TRYAGAIN multiple keys request during rehashing")), true, true, true},
		{"syntax error", replyError("ERR syntax error"), false, false, false},
		{"nil reply", redis.Nil, false, false, false},
		{"canceled", context.Canceled, false, false, false},
		{"plain error", errors.New("boom"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.busy, serverBusy(tt.err), "serverBusy")
			assert.Equal(t, tt.transient, isTransientRedis(tt.err), "isTransientRedis")
			assert.Equal(t, tt.write, isRetryableRedisWrite(tt.err), "isRetryableRedisWrite")
		})
	}
}

func TestDeleteRows(t *testing.T) {
	cfg := RetryConfig{Attempts: 3, Base: time.Millisecond}
	ctx := context.Background()

	t.Run("lost reply is not repeated", func(t *testing.T) {
		calls := 0
		err := deleteRows(ctx, cfg, func(context.Context) (int64, error) {
			calls++
			if calls == 1 {
				return 0, errRead
			}
			return 0, nil
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, errRead)
	})

	t.Run("serialization failure is repeated", func(t *testing.T) {
		calls := 0
		err := deleteRows(ctx, cfg, func(context.Context) (int64, error) {
			calls++
			if calls == 1 {
				return 0, pgError(pgerrcode.SerializationFailure)
			}
			return 1, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("missing row", func(t *testing.T) {
		err := deleteRows(ctx, cfg, func(context.Context) (int64, error) { return 0, nil })
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
