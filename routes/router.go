package routes

import (
	"net/http"

	"gotransit/internal/config"
	"gotransit/internal/handlers"
	"gotransit/internal/middleware"
	"gotransit/internal/repositories/interfaces"
	"gotransit/internal/utils"
	"gotransit/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth   *handlers.AuthHandler
	User   *handlers.UserHandler
	Driver *handlers.DriverHandler
	Bus    *handlers.BusHandler
	Route  *handlers.RouteHandler
	Ride   *handlers.RideHandler
}

func Setup(cfg *config.Config, log *logger.Logger, userRepo interfaces.UserRepository, h *Handlers) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.Security.CORSAllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, "OK", gin.H{"version": cfg.App.Version})
	})

	router.NoRoute(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, "Route not found")
	})

	auth := middleware.AuthRequired(userRepo, cfg.Security.JWTSecret)

	api := router.Group("/api/v1")

	registerUserRoutes(api, h, auth)
	registerDriverRoutes(api, h, auth)
	registerBusRoutes(api, h, auth)
	registerRouteRoutes(api, h, auth)
	registerRideRoutes(api, h, auth)

	return router
}
