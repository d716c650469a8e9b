package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	appointments := g.Group("/appointments")
	appointments.Use(authMiddleware)
	{
		appointments.GET("", h.List)
		appointments.GET("/:id", h.Get)
		appointments.POST("", h.Create)
	}

	g.GET("/availability", authMiddleware, h.Availability)

	calendar := g.Group("/calendar")
	calendar.Use(authMiddleware)
	{
		calendar.GET("", h.Calendar)
		calendar.GET("/today", h.Today)
		calendar.GET("/feed.ics", h.Feed)
	}
}
