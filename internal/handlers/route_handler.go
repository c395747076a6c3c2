package handlers

import (
	"net/http"

	"gotransit/internal/services"
	"gotransit/internal/utils"
	"gotransit/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RouteHandler struct {
	routeService services.RouteService
	debug        bool
	logger       *logger.Logger
}

func NewRouteHandler(routeService services.RouteService, debug bool, logger *logger.Logger) *RouteHandler {
	return &RouteHandler{
		routeService: routeService,
		debug:        debug,
		logger:       logger,
	}
}

func (h *RouteHandler) Create(c *gin.Context) {
	var request services.CreateRouteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	route, err := h.routeService.Create(c.Request.Context(), currentUserRole(c), &request)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.CreatedResponse(c, "Route created", route)
}

func (h *RouteHandler) GetByID(c *gin.Context) {
	routeID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	route, err := h.routeService.GetByID(c.Request.Context(), routeID)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Route fetched", route)
}

func (h *RouteHandler) List(c *gin.Context) {
	routes, err := h.routeService.List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Routes fetched", routes)
}

func (h *RouteHandler) Update(c *gin.Context) {
	routeID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request services.UpdateRouteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	route, err := h.routeService.Update(c.Request.Context(), currentUserRole(c), routeID, &request)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Route updated", route)
}

func (h *RouteHandler) Delete(c *gin.Context) {
	routeID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.routeService.Delete(c.Request.Context(), currentUserRole(c), routeID); err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Route deleted", nil)
}
