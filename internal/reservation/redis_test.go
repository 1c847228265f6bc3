package reservation

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadasys/parkovaci-app/internal/db"
)

// newRedisTestStore returns a store under a fresh key prefix on TEST_REDIS_ADDR.
// The test is skipped when no Redis is configured.
func newRedisTestStore(t *testing.T) Store {
	t.Helper()

	_ = godotenv.Load("../../.env")
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}

	ctx := context.Background()
	client, err := db.NewRedisClient(ctx, addr, os.Getenv("TEST_REDIS_PASSWORD"), 0)
	require.NoError(t, err)

	prefix := fmt.Sprintf("parking-test-%d", time.Now().UnixNano())
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "{"+prefix+"}:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return NewRedisStore(client, prefix, time.UTC, RetryConfig{Attempts: 2, Base: 10 * time.Millisecond})
}

func TestRedisStore(t *testing.T) {
	runStoreContract(t, newRedisTestStore)
}

func TestRedisStore_KeyLayout(t *testing.T) {
	s := NewRedisStore(nil, "", time.UTC, RetryConfig{})

	assert.Equal(t, "{parking}:slot:3:2026-10-19:morning", s.slotKey(testSlot(3, "2026-10-19", Morning)))
	assert.Equal(t, "{parking}:reservation:42", s.recordKey(42))
	assert.Equal(t, "{parking}:reservations", s.indexKey())
	assert.Equal(t, "{parking}:reservation:seq", s.seqKey())
}

func TestRedisStore_KeysShareHashTag(t *testing.T) {
	s := NewRedisStore(nil, "lot-b", time.UTC, RetryConfig{})
	slot := testSlot(1, "2026-10-20", Afternoon)

	for _, key := range []string{s.slotKey(slot), s.recordKey(7), s.indexKey(), s.seqKey()} {
		assert.True(t, strings.HasPrefix(key, "{lot-b}:"), key)
	}
}

func TestRedisStore_DeleteKeepsForeignSlotClaim(t *testing.T) {
	store := newRedisTestStore(t)
	s := store.(*RedisStore)
	ctx := context.Background()
	slot := testSlot(2, "2026-10-21", Morning)

	r, err := s.TryCreate(ctx, slot, testUserA)
	require.NoError(t, err)

	// Point the slot at another id; deleting r must drop r's record but leave that claim alone.
	require.NoError(t, s.client.Set(ctx, s.slotKey(slot), "999", 0).Err())
	require.NoError(t, s.Delete(ctx, r.ID))

	owner, err := s.client.Get(ctx, s.slotKey(slot)).Result()
	require.NoError(t, err)
	assert.Equal(t, "999", owner)

	_, err = s.FindByID(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
