package routes

import (
	"gotransit/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerBusRoutes(api *gin.RouterGroup, h *Handlers, auth gin.HandlerFunc) {
	buses := api.Group("/buses", auth)
	{
		buses.GET("", h.Bus.List)
		buses.GET("/by-route", h.Bus.ListByRoute)
		buses.GET("/:id", h.Bus.GetByID)

		buses.POST("", middleware.AdminRequired(), h.Bus.Create)
		buses.PUT("/:id", middleware.AdminRequired(), h.Bus.Update)
		buses.DELETE("/:id", middleware.AdminRequired(), h.Bus.Delete)

		buses.PUT("/:id/location", middleware.DriverRequired(), h.Bus.UpdateLocation)
		buses.PUT("/:id/seats", middleware.DriverRequired(), h.Bus.UpdateSeats)
	}
}
