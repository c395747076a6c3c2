package routes

import (
	"gotransit/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerRouteRoutes(api *gin.RouterGroup, h *Handlers, auth gin.HandlerFunc) {
	busRoutes := api.Group("/routes", auth)
	{
		busRoutes.GET("", h.Route.List)
		busRoutes.GET("/:id", h.Route.GetByID)

		busRoutes.POST("", middleware.AdminRequired(), h.Route.Create)
		busRoutes.PUT("/:id", middleware.AdminRequired(), h.Route.Update)
		busRoutes.DELETE("/:id", middleware.AdminRequired(), h.Route.Delete)
	}
}
