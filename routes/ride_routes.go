package routes

import (
	"gotransit/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerRideRoutes(api *gin.RouterGroup, h *Handlers, auth gin.HandlerFunc) {
	rides := api.Group("/rides", auth)
	{
		rides.POST("/create", h.Ride.Create)
		rides.POST("/verify/:rideId", h.Ride.Verify)
		rides.POST("/cancel/:rideId", h.Ride.Cancel)
		rides.POST("/start/:rideId", h.Ride.Start)
		rides.POST("/end/:rideId", h.Ride.End)

		rides.DELETE("/cancelled", middleware.AdminRequired(), h.Ride.DeleteCancelled)
	}
}
