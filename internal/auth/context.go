package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/dadasys/parkovaci-app/internal/user"
)

const (
	userIDKey = "userID"
	userKey   = "user"
)

// GetUserID returns the authenticated user's ID or 0.
func GetUserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// GetUser returns the authenticated user or nil.
func GetUser(c *gin.Context) *user.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*user.User); ok {
			return u
		}
	}
	return nil
}

// GetIdentity returns the booking identity of the authenticated user.
func GetIdentity(c *gin.Context) (user.Identity, bool) {
	u := GetUser(c)
	if u == nil {
		return user.Identity{}, false
	}
	return u.Identity(), true
}
