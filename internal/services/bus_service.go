package services

import (
	"context"
	"errors"
	"time"

	"gotransit/internal/models"
	"gotransit/internal/repositories/interfaces"
	"gotransit/internal/utils"
	"gotransit/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BusService interface {
	Create(ctx context.Context, requesterRole models.UserRole, request *CreateBusRequest) (*models.Bus, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Bus, error)
	List(ctx context.Context, filter *interfaces.BusFilter) ([]*models.Bus, error)
	ListByRoute(ctx context.Context, routeID primitive.ObjectID) ([]*models.Bus, error)
	Update(ctx context.Context, requesterRole models.UserRole, id primitive.ObjectID, request *UpdateBusRequest) (*models.Bus, error)
	Delete(ctx context.Context, requesterRole models.UserRole, id primitive.ObjectID) error
	UpdateLocation(ctx context.Context, driverUserID, busID primitive.ObjectID, request *UpdateBusLocationRequest) (*models.Bus, error)
	UpdateSeats(ctx context.Context, driverUserID, busID primitive.ObjectID, availableSeats int) (*models.Bus, error)
}

type busService struct {
	busRepo    interfaces.BusRepository
	routeRepo  interfaces.RouteRepository
	driverRepo interfaces.DriverRepository
	logger     *logger.Logger
}

type CreateBusRequest struct {
	BusNumber string  `json:"bus_number" binding:"required"`
	Route     string  `json:"route" binding:"required"`
	Capacity  int     `json:"capacity" binding:"required,min=1"`
	Longitude float64 `json:"longitude" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"required"`
}

type UpdateBusRequest struct {
	BusNumber string            `json:"bus_number"`
	Route     string            `json:"route"`
	Capacity  *int              `json:"capacity"`
	Status    *models.BusStatus `json:"status"`
}

type UpdateBusLocationRequest struct {
	Longitude        float64 `json:"longitude" binding:"required"`
	Latitude         float64 `json:"latitude" binding:"required"`
	CurrentStopOrder *int    `json:"current_stop_order"`
}

func NewBusService(
	busRepo interfaces.BusRepository,
	routeRepo interfaces.RouteRepository,
	driverRepo interfaces.DriverRepository,
	logger *logger.Logger,
) BusService {
	return &busService{
		busRepo:    busRepo,
		routeRepo:  routeRepo,
		driverRepo: driverRepo,
		logger:     logger,
	}
}

func (s *busService) Create(ctx context.Context, requesterRole models.UserRole, request *CreateBusRequest) (*models.Bus, error) {
	if requesterRole != models.UserRoleAdmin {
		return nil, utils.NewForbidden("Only admins can create buses")
	}

	routeID, err := primitive.ObjectIDFromHex(request.Route)
	if err != nil {
		return nil, utils.NewValidationError("Invalid route ID")
	}

	route, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFound("Route")
		}
		return nil, utils.NewInternal(err)
	}

	location := models.NewPoint(request.Longitude, request.Latitude)
	if !location.IsValid() {
		return nil, utils.NewValidationError("Valid coordinates (longitude, latitude) are required")
	}

	bus := &models.Bus{
		BusNumber:         request.BusNumber,
		Route:             route.ID,
		Capacity:          request.Capacity,
		AvailableCapacity: request.Capacity,
		Status:            models.BusStatusActive,
		CurrentLocation:   location,
	}

	if err := s.busRepo.Create(ctx, bus); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, utils.NewConflict("Bus with this number already exists")
		}
		return nil, utils.NewInternal(err)
	}

	s.logger.WithField("bus_number", bus.BusNumber).Info("Bus created")

	return bus, nil
}

func (s *busService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Bus, error) {
	bus, err := s.busRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFound("Bus")
		}
		return nil, utils.NewInternal(err)
	}

	return bus, nil
}

func (s *busService) List(ctx context.Context, filter *interfaces.BusFilter) ([]*models.Bus, error) {
	buses, err := s.busRepo.List(ctx, filter)
	if err != nil {
		return nil, utils.NewInternal(err)
	}

	return buses, nil
}

func (s *busService) ListByRoute(ctx context.Context, routeID primitive.ObjectID) ([]*models.Bus, error) {
	if _, err := s.routeRepo.GetByID(ctx, routeID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFound("Route")
		}
		return nil, utils.NewInternal(err)
	}

	buses, err := s.busRepo.ListByRoute(ctx, routeID)
	if err != nil {
		return nil, utils.NewInternal(err)
	}

	return buses, nil
}

func (s *busService) Update(ctx context.Context, requesterRole models.UserRole, id primitive.ObjectID, request *UpdateBusRequest) (*models.Bus, error) {
	if requesterRole != models.UserRoleAdmin {
		return nil, utils.NewForbidden("Only admins can update buses")
	}

	bus, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if request.BusNumber != "" {
		updates["bus_number"] = request.BusNumber
		bus.BusNumber = request.BusNumber
	}
	if request.Route != "" {
		routeID, err := primitive.ObjectIDFromHex(request.Route)
		if err != nil {
			return nil, utils.NewValidationError("Invalid route ID")
		}
		if _, err := s.routeRepo.GetByID(ctx, routeID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, utils.NewNotFound("Route")
			}
			return nil, utils.NewInternal(err)
		}
		updates["route"] = routeID
		bus.Route = routeID
	}
	if request.Capacity != nil {
		if *request.Capacity < 1 {
			return nil, utils.NewValidationError("Capacity must be at least 1")
		}
		updates["capacity"] = *request.Capacity
		bus.Capacity = *request.Capacity
		if bus.AvailableCapacity > bus.Capacity {
			updates["available_capacity"] = bus.Capacity
			bus.AvailableCapacity = bus.Capacity
		}
	}
	if request.Status != nil {
		if *request.Status != models.BusStatusActive && *request.Status != models.BusStatusInactive {
			return nil, utils.NewValidationError("Status must be active or inactive")
		}
		updates["status"] = *request.Status
		bus.Status = *request.Status
	}

	if len(updates) == 0 {
		return nil, utils.NewValidationError("No fields to update")
	}

	if err := s.busRepo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, utils.NewConflict("Bus with this number already exists")
		}
		return nil, utils.NewInternal(err)
	}

	return bus, nil
}

func (s *busService) Delete(ctx context.Context, requesterRole models.UserRole, id primitive.ObjectID) error {
	if requesterRole != models.UserRoleAdmin {
		return utils.NewForbidden("Only admins can delete buses")
	}

	bus, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if bus.AssignedDriver != nil {
		return utils.NewConflict("Cannot delete a bus with an assigned driver")
	}

	if err := s.busRepo.Delete(ctx, id); err != nil {
		return utils.NewInternal(err)
	}

	return nil
}

// UpdateLocation is restricted to the driver currently assigned to the bus.
func (s *busService) UpdateLocation(ctx context.Context, driverUserID, busID primitive.ObjectID, request *UpdateBusLocationRequest) (*models.Bus, error) {
	bus, err := s.authorizeDriver(ctx, driverUserID, busID)
	if err != nil {
		return nil, err
	}

	location := models.NewPoint(request.Longitude, request.Latitude)
	if !location.IsValid() {
		return nil, utils.NewValidationError("Valid coordinates (longitude, latitude) are required")
	}

	updates := map[string]interface{}{
		"current_location": location,
	}
	bus.CurrentLocation = location

	if request.CurrentStopOrder != nil {
		updates["current_stop_order"] = *request.CurrentStopOrder
		bus.CurrentStopOrder = *request.CurrentStopOrder

		arrivals, err := s.estimateArrivals(ctx, bus)
		if err == nil && arrivals != nil {
			updates["estimated_arrivals"] = arrivals
			bus.EstimatedArrivals = arrivals
		}
	}

	if err := s.busRepo.Update(ctx, busID, updates); err != nil {
		return nil, utils.NewInternal(err)
	}

	return bus, nil
}

func (s *busService) UpdateSeats(ctx context.Context, driverUserID, busID primitive.ObjectID, availableSeats int) (*models.Bus, error) {
	bus, err := s.authorizeDriver(ctx, driverUserID, busID)
	if err != nil {
		return nil, err
	}

	if availableSeats < 0 || availableSeats > bus.Capacity {
		return nil, utils.NewValidationError("Available seats must be between 0 and the bus capacity")
	}

	if err := s.busRepo.Update(ctx, busID, map[string]interface{}{
		"available_capacity": availableSeats,
	}); err != nil {
		return nil, utils.NewInternal(err)
	}

	bus.AvailableCapacity = availableSeats

	return bus, nil
}

func (s *busService) authorizeDriver(ctx context.Context, driverUserID, busID primitive.ObjectID) (*models.Bus, error) {
	bus, err := s.GetByID(ctx, busID)
	if err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.GetByUserID(ctx, driverUserID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewForbidden("Only the assigned driver can update this bus")
		}
		return nil, utils.NewInternal(err)
	}

	if bus.AssignedDriver == nil || *bus.AssignedDriver != driver.ID {
		return nil, utils.NewForbidden("Only the assigned driver can update this bus")
	}

	return bus, nil
}

// estimateArrivals projects arrival times for the stops ahead of the bus
// using the route's cumulative travel times.
func (s *busService) estimateArrivals(ctx context.Context, bus *models.Bus) ([]models.EstimatedArrival, error) {
	route, err := s.routeRepo.GetByID(ctx, bus.Route)
	if err != nil {
		return nil, err
	}

	var current *models.Stop
	for i := range route.Stops {
		if route.Stops[i].Order == bus.CurrentStopOrder {
			current = &route.Stops[i]
			break
		}
	}
	if current == nil {
		return nil, nil
	}

	now := time.Now()
	arrivals := make([]models.EstimatedArrival, 0, len(route.Stops))
	for i := range route.Stops {
		stop := &route.Stops[i]
		if stop.Order <= current.Order {
			continue
		}
		minutes := stop.TravelTime - current.TravelTime
		arrivals = append(arrivals, models.EstimatedArrival{
			StopName: stop.Name,
			ETA:      now.Add(time.Duration(minutes * float64(time.Minute))),
		})
	}

	return arrivals, nil
}
