package user

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// MemoryRepository serves a roster held in memory, typically loaded from a JSON export
// of the identity provider.
type MemoryRepository struct {
	byID map[int64]*User
	ids  []int64
}

// NewMemoryRepository builds a repository from users. Ids must be unique and roles valid.
func NewMemoryRepository(users []User) (*MemoryRepository, error) {
	r := &MemoryRepository{byID: make(map[int64]*User, len(users))}
	for i := range users {
		u := users[i]
		if u.Role == "" {
			u.Role = RoleUser
		}
		if !u.Role.Valid() {
			return nil, fmt.Errorf("user %d: %w: %q", u.ID, ErrInvalidRole, u.Role)
		}
		if _, dup := r.byID[u.ID]; dup {
			return nil, fmt.Errorf("user %d: %w", u.ID, ErrDuplicateID)
		}
		r.byID[u.ID] = &u
		r.ids = append(r.ids, u.ID)
	}
	sort.Slice(r.ids, func(i, j int) bool { return r.ids[i] < r.ids[j] })
	return r, nil
}

// LoadRosterFile reads a JSON array of users from path.
func LoadRosterFile(path string) (*MemoryRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}

	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse roster file %s: %w", path, err)
	}
	return NewMemoryRepository(users)
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*User, error) {
	users := make([]*User, 0, len(r.ids))
	for _, id := range r.ids {
		c := *r.byID[id]
		users = append(users, &c)
	}
	return users, nil
}
