package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes exposes the catalog read-only. The console needs it before login
// to render the service picker, so no auth middleware is attached.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	services := g.Group("/services")
	{
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
	}

	locations := g.Group("/locations")
	{
		locations.GET("", h.ListLocations)
		locations.GET("/:id", h.GetLocation)
	}
}
