package user

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	repo, err := NewMemoryRepository([]User{
		{ID: 3, Role: RoleUser, DisplayName: "Cecilie", PlateNumber: "3C3 3333"},
		{ID: 1, Role: RoleAdmin, DisplayName: "Adam"},
		{ID: 2, Priority: true, DisplayName: "Bára"},
	})
	require.NoError(t, err)

	ctx := context.Background()

	u, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, u.Role, "empty role defaults to user")
	assert.True(t, u.Priority)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{users[0].ID, users[1].ID, users[2].ID})
	assert.True(t, users[0].IsAdmin())

	// Returned values are copies.
	users[0].Role = RoleUser
	admin, _ := repo.GetByID(ctx, 1)
	assert.True(t, admin.IsAdmin())
}

func TestMemoryRepository_Validation(t *testing.T) {
	_, err := NewMemoryRepository([]User{{ID: 1}, {ID: 1}})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = NewMemoryRepository([]User{{ID: 1, Role: "owner"}})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLoadRosterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	roster := `[
		{"id": 1, "role": "admin", "display_name": "Správce", "plate_number": "1A1 0001"},
		{"id": 2, "priority": true, "display_name": "Vedoucí", "plate_number": "2B2 0002"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(roster), 0o600))

	repo, err := LoadRosterFile(path)
	require.NoError(t, err)

	svc := NewService(repo)
	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "2B2 0002", users[1].PlateNumber)

	_, err = LoadRosterFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
