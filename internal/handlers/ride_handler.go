package handlers

import (
	"net/http"

	"gotransit/internal/services"
	"gotransit/internal/utils"
	"gotransit/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RideHandler struct {
	rideService services.RideService
	debug       bool
	logger      *logger.Logger
}

func NewRideHandler(rideService services.RideService, debug bool, logger *logger.Logger) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		debug:       debug,
		logger:      logger,
	}
}

func (h *RideHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var request services.CreateRideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ride, err := h.rideService.Create(c.Request.Context(), userID, &request)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.CreatedResponse(c, "Ride created", ride)
}

func (h *RideHandler) Verify(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	rideID, ok := parseObjectID(c, "rideId")
	if !ok {
		return
	}

	ride, err := h.rideService.Verify(c.Request.Context(), userID, rideID)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Ride verified", ride)
}

func (h *RideHandler) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	rideID, ok := parseObjectID(c, "rideId")
	if !ok {
		return
	}

	ride, err := h.rideService.Cancel(c.Request.Context(), userID, rideID)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Ride canceled", ride)
}

func (h *RideHandler) Start(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	rideID, ok := parseObjectID(c, "rideId")
	if !ok {
		return
	}

	// Body is optional: stops default to those recorded at creation.
	var request services.StartRideRequest
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ride, err := h.rideService.Start(c.Request.Context(), userID, rideID, &request)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Ride started", ride)
}

func (h *RideHandler) End(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	rideID, ok := parseObjectID(c, "rideId")
	if !ok {
		return
	}

	var request struct {
		CurrentPosition *float64 `json:"current_position" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ride, err := h.rideService.End(c.Request.Context(), userID, rideID, *request.CurrentPosition)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Ride completed", ride)
}

func (h *RideHandler) DeleteCancelled(c *gin.Context) {
	deleted, err := h.rideService.DeleteCanceled(c.Request.Context(), currentUserRole(c))
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Canceled rides deleted", gin.H{"deleted": deleted})
}
