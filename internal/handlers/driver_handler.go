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

type DriverHandler struct {
	driverService services.DriverService
	debug         bool
	logger        *logger.Logger
}

func NewDriverHandler(driverService services.DriverService, debug bool, logger *logger.Logger) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		debug:         debug,
		logger:        logger,
	}
}

func (h *DriverHandler) SetDetails(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var request services.SetDriverDetailsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	driver, err := h.driverService.SetDetails(c.Request.Context(), userID, &request)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.CreatedResponse(c, "Driver details saved", driver)
}

func (h *DriverHandler) AssignDuty(c *gin.Context) {
	var request struct {
		BusID    string `json:"bus_id" binding:"required"`
		DriverID string `json:"driver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	busID, err := primitive.ObjectIDFromHex(request.BusID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid bus_id")
		return
	}
	driverID, err := primitive.ObjectIDFromHex(request.DriverID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid driver_id")
		return
	}

	result, err := h.driverService.AssignBus(c.Request.Context(), currentUserRole(c), busID, driverID)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Driver assigned to bus", result)
}

func (h *DriverHandler) ReleaseDuty(c *gin.Context) {
	var request struct {
		BusID string `json:"bus_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	busID, err := primitive.ObjectIDFromHex(request.BusID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid bus_id")
		return
	}

	if err := h.driverService.ReleaseBus(c.Request.Context(), currentUserRole(c), busID); err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Driver released from bus", nil)
}

func (h *DriverHandler) AddReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var request struct {
		DriverID string   `json:"driver_id" binding:"required"`
		Score    *float64 `json:"score" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	driverID, err := primitive.ObjectIDFromHex(request.DriverID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid driver_id")
		return
	}

	summary, err := h.driverService.AddRating(c.Request.Context(), userID, driverID, *request.Score)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Review saved", summary)
}

func (h *DriverHandler) DeleteReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var request struct {
		DriverID string `json:"driver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	driverID, err := primitive.ObjectIDFromHex(request.DriverID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid driver_id")
		return
	}

	summary, err := h.driverService.RemoveRating(c.Request.Context(), userID, driverID)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Review removed", summary)
}

func (h *DriverHandler) List(c *gin.Context) {
	filter := &interfaces.DriverFilter{
		Status: models.DriverStatus(c.Query("status")),
		Page:   queryInt(c, "page", utils.DefaultPage),
		Limit:  queryInt(c, "limit", utils.DefaultLimit),
	}
	if min := queryInt(c, "min_experience", -1); min >= 0 {
		filter.MinExperience = &min
	}
	if max := queryInt(c, "max_experience", -1); max >= 0 {
		filter.MaxExperience = &max
	}
	if filter.Limit > utils.MaxLimit {
		filter.Limit = utils.MaxLimit
	}

	drivers, err := h.driverService.List(c.Request.Context(), filter)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Drivers fetched", gin.H{
		"drivers": drivers,
		"page":    filter.Page,
		"limit":   filter.Limit,
	})
}

func (h *DriverHandler) UpdateDetails(c *gin.Context) {
	driverID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request services.UpdateDriverDetailsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	driver, err := h.driverService.UpdateDetails(c.Request.Context(), currentUserRole(c), driverID, &request)
	if err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Driver updated", driver)
}

// Delete takes the driver ID in the body rather than the path.
func (h *DriverHandler) Delete(c *gin.Context) {
	var request struct {
		DriverID string `json:"driver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	driverID, err := primitive.ObjectIDFromHex(request.DriverID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid driver_id")
		return
	}

	if err := h.driverService.Delete(c.Request.Context(), currentUserRole(c), driverID); err != nil {
		utils.HandleError(c, err, h.debug)
		return
	}

	utils.SuccessResponse(c, "Driver deleted", nil)
}
