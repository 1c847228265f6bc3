package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all user-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware gin.HandlerFunc) {
	g.GET("/me", authMiddleware, h.Me)
	g.GET("/users", authMiddleware, h.List)
}
