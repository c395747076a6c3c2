package routes

import (
	"gotransit/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerDriverRoutes(api *gin.RouterGroup, h *Handlers, auth gin.HandlerFunc) {
	driver := api.Group("/driver", auth)
	{
		driver.POST("/set-details", middleware.DriverRequired(), h.Driver.SetDetails)
		driver.GET("/getAllDriver", h.Driver.List)
		driver.PUT("/add-review", h.Driver.AddReview)
		driver.DELETE("/delete-review", h.Driver.DeleteReview)

		driver.PUT("/assign-duty", middleware.AdminRequired(), h.Driver.AssignDuty)
		driver.DELETE("/release-duty", middleware.AdminRequired(), h.Driver.ReleaseDuty)
		driver.PUT("/update-details/:id", middleware.AdminRequired(), h.Driver.UpdateDetails)
		driver.DELETE("/delete", middleware.AdminRequired(), h.Driver.Delete)
	}
}
