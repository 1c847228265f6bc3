package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the week grid and reservation routes.
// writeLimiter runs on mutating routes only.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, writeLimiter gin.HandlerFunc) {
	g.GET("/weeks/:offset", authMiddleware, h.Week)

	group := g.Group("/reservations")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", writeLimiter, h.Create)
		group.DELETE("/:id", writeLimiter, h.Delete)
	}
}
