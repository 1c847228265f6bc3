package user

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadasys/parkovaci-app/internal/db"
)

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	_ = godotenv.Load("../../.env")
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx, dsn))

	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	// Only touch the ids used here; other packages share the database.
	cleanup := func() {
		_, err := pool.Exec(ctx, "DELETE FROM public.users WHERE id = ANY($1)", []int64{10, 20})
		require.NoError(t, err)
	}
	cleanup()
	t.Cleanup(cleanup)
	return pool
}

func TestPgxRepository_ImportAndRead(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewPgxRepository(pool)

	require.NoError(t, ImportRoster(ctx, pool, []*User{
		{ID: 20, Role: RoleUser, DisplayName: "Petr", PlateNumber: "2CD 6789"},
		{ID: 10, Role: RoleAdmin, Priority: true, DisplayName: "Jana", PlateNumber: "1AB 2345"},
	}))

	u, err := repo.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.True(t, u.Priority)
	assert.Equal(t, "1AB 2345", u.PlateNumber)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	// A second import updates in place.
	require.NoError(t, ImportRoster(ctx, pool, []*User{
		{ID: 20, Role: RoleUser, Priority: true, DisplayName: "Petr Svoboda", PlateNumber: "2CD 6789"},
	}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	var imported []*User
	for _, u := range all {
		if u.ID == 10 || u.ID == 20 {
			imported = append(imported, u)
		}
	}
	require.Len(t, imported, 2)
	assert.Equal(t, int64(10), imported[0].ID)
	assert.Equal(t, "Petr Svoboda", imported[1].DisplayName)
	assert.True(t, imported[1].Priority)
}
