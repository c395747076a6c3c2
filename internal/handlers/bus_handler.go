package handlers

import (
	"net/http"

	"gotransit/internal/models"
	"gotransit/internal/repositories/interfaces"
	"gotransit/internal/services"
	"gotransit/internal/utils"
	"gotransit/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BusHandler struct {
	busService services.BusService
	debug      bool
	logger     *logger.Logger
}

func NewBusHandler(busService services.BusService, debug bool, logger *logger.Logger) *BusHandler {
	return &BusHandler{
		busService: busService,
		debug:      debug,
		logger:     logger,
	}
}

func (h *BusHandler) Create(c *gin.Context) {
	var request services.CreateBusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	bus, err := h.busService.Create(c.Request.Context(), currentUserRole(c), &request)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.CreatedResponse(c, "Bus created", bus)
}

func (h *BusHandler) GetByID(c *gin.Context) {
	busID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	bus, err := h.busService.GetByID(c.Request.Context(), busID)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Bus fetched", bus)
}

func (h *BusHandler) List(c *gin.Context) {
	filter := &interfaces.BusFilter{
		Status: models.BusStatus(c.Query("status")),
		Page:   queryInt(c, "page", utils.DefaultPage),
		Limit:  queryInt(c, "limit", utils.DefaultLimit),
	}
	if routeParam := c.Query("route"); routeParam != "" {
		routeID, err := primitive.ObjectIDFromHex(routeParam)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid route filter")
			return
		}
		filter.Route = &routeID
	}
	if filter.Limit > utils.MaxLimit {
		filter.Limit = utils.MaxLimit
	}

	buses, err := h.busService.List(c.Request.Context(), filter)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Buses fetched", gin.H{
		"buses": buses,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

func (h *BusHandler) ListByRoute(c *gin.Context) {
	routeID, err := primitive.ObjectIDFromHex(c.Query("route"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid route filter")
		return
	}

	buses, err := h.busService.ListByRoute(c.Request.Context(), routeID)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Buses fetched", gin.H{"buses": buses})
}

func (h *BusHandler) Update(c *gin.Context) {
	busID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request services.UpdateBusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	bus, err := h.busService.Update(c.Request.Context(), currentUserRole(c), busID, &request)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Bus updated", bus)
}

func (h *BusHandler) Delete(c *gin.Context) {
	busID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.busService.Delete(c.Request.Context(), currentUserRole(c), busID); err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Bus deleted", nil)
}

func (h *BusHandler) UpdateLocation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	busID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request services.UpdateBusLocationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	bus, err := h.busService.UpdateLocation(c.Request.Context(), userID, busID, &request)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Bus location updated", bus)
}

func (h *BusHandler) UpdateSeats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	busID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		AvailableSeats *int `json:"available_seats" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	bus, err := h.busService.UpdateSeats(c.Request.Context(), userID, busID, *request.AvailableSeats)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Bus seats updated", bus)
}
