package user

import (
	"errors"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidRole = errors.New("invalid user role")
	ErrDuplicateID = errors.New("duplicate user id")
)

// Role distinguishes administrators, who may cancel any reservation, from regular users.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is a member of the fixed parking roster. The roster is maintained by the identity
// provider; this service only reads it.
type User struct {
	ID          int64  `json:"id"`
	Role        Role   `json:"role"`
	Priority    bool   `json:"priority"`
	DisplayName string `json:"display_name"`
	PlateNumber string `json:"plate_number"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is the authenticated caller as seen by the booking rules.
type Identity struct {
	ID       int64
	Role     Role
	Priority bool
}

// IsAdmin reports whether the caller has the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Identity returns the booking identity of u.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Role: u.Role, Priority: u.Priority}
}
