package http

import (
	"github.com/dadasys/parkovaci-app/internal/user"
)

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	PlateNumber string `json:"plate_number"`
	Role        string `json:"role"`
	Priority    bool   `json:"priority"`
}

// NewUserResponse converts domain user.User to UserResponse used by the API.
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		PlateNumber: u.PlateNumber,
		Role:        string(u.Role),
		Priority:    u.Priority,
	}
}

// MeResponse returns the current user info.
type MeResponse struct {
	User UserResponse `json:"user"`
}
