package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dadasys/parkovaci-app/internal/auth"
	"github.com/dadasys/parkovaci-app/internal/pkg/response"
	"github.com/dadasys/parkovaci-app/internal/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me returns the profile of the currently authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	u := auth.GetUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, MeResponse{User: NewUserResponse(u)})
}

// List returns the whole roster so clients can show who holds a slot.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = NewUserResponse(u)
	}

	c.JSON(http.StatusOK, response.NewListResponse(items))
}
