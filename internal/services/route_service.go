package services

import (
	"context"
	"errors"

	"gotransit/internal/models"
	"gotransit/internal/repositories/interfaces"
	"gotransit/internal/utils"
	"gotransit/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RouteService interface {
	Create(ctx context.Context, requesterRole models.UserRole, request *CreateRouteRequest) (*models.Route, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Route, error)
	List(ctx context.Context) ([]*models.Route, error)
	Update(ctx context.Context, requesterRole models.UserRole, id primitive.ObjectID, request *UpdateRouteRequest) (*models.Route, error)
	Delete(ctx context.Context, requesterRole models.UserRole, id primitive.ObjectID) error
}

type routeService struct {
	routeRepo interfaces.RouteRepository
	busRepo   interfaces.BusRepository
	logger    *logger.Logger
}

type StopInput struct {
	Name       string    `json:"name" binding:"required"`
	Longitude  float64   `json:"longitude"`
	Latitude   float64   `json:"latitude"`
	Distance   float64   `json:"distance"`
	TravelTime float64   `json:"travel_time"`
	Location   []float64 `json:"location"`
}

type CreateRouteRequest struct {
	RouteName string      `json:"route_name" binding:"required"`
	Stops     []StopInput `json:"stops" binding:"required,min=2"`
}

type UpdateRouteRequest struct {
	RouteName string      `json:"route_name"`
	Stops     []StopInput `json:"stops"`
}

func NewRouteService(routeRepo interfaces.RouteRepository, busRepo interfaces.BusRepository, logger *logger.Logger) RouteService {
	return &routeService{
		routeRepo: routeRepo,
		busRepo:   busRepo,
		logger:    logger,
	}
}

func (s *routeService) Create(ctx context.Context, requesterRole models.UserRole, request *CreateRouteRequest) (*models.Route, error) {
	if requesterRole != models.UserRoleAdmin {
		return nil, utils.NewForbidden("Only admins can create routes")
	}

	stops, err := buildStops(request.Stops)
	if err != nil {
		return nil, err
	}

	route := &models.Route{
		RouteName: request.RouteName,
		Stops:     stops,
	}

	if err := s.routeRepo.Create(ctx, route); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, utils.NewConflict("Route with this name already exists")
		}
		return nil, utils.NewInternal(err)
	}

	s.logger.WithField("route_name", route.RouteName).Info("Route created")

	return route, nil
}

func (s *routeService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Route, error) {
	route, err := s.routeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFound("Route")
		}
		return nil, utils.NewInternal(err)
	}

	return route, nil
}

func (s *routeService) List(ctx context.Context) ([]*models.Route, error) {
	routes, err := s.routeRepo.List(ctx)
	if err != nil {
		return nil, utils.NewInternal(err)
	}

	return routes, nil
}

func (s *routeService) Update(ctx context.Context, requesterRole models.UserRole, id primitive.ObjectID, request *UpdateRouteRequest) (*models.Route, error) {
	if requesterRole != models.UserRoleAdmin {
		return nil, utils.NewForbidden("Only admins can update routes")
	}

	route, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if request.RouteName != "" {
		updates["route_name"] = request.RouteName
		route.RouteName = request.RouteName
	}
	if request.Stops != nil {
		stops, err := buildStops(request.Stops)
		if err != nil {
			return nil, err
		}
		updates["stops"] = stops
		route.Stops = stops
	}

	if len(updates) == 0 {
		return nil, utils.NewValidationError("No fields to update")
	}

	if err := s.routeRepo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, utils.NewConflict("Route with this name already exists")
		}
		return nil, utils.NewInternal(err)
	}

	return route, nil
}

func (s *routeService) Delete(ctx context.Context, requesterRole models.UserRole, id primitive.ObjectID) error {
	if requesterRole != models.UserRoleAdmin {
		return utils.NewForbidden("Only admins can delete routes")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	buses, err := s.busRepo.ListByRoute(ctx, id)
	if err != nil {
		return utils.NewInternal(err)
	}
	if len(buses) > 0 {
		return utils.NewConflict("Cannot delete a route with buses assigned to it")
	}

	if err := s.routeRepo.Delete(ctx, id); err != nil {
		return utils.NewInternal(err)
	}

	return nil
}

// buildStops validates the stop list and assigns order by position. Distance
// and travel time are cumulative from the first stop and must never decrease.
func buildStops(inputs []StopInput) ([]models.Stop, error) {
	if len(inputs) < 2 {
		return nil, utils.NewValidationError("A route requires at least 2 stops")
	}

	stops := make([]models.Stop, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))

	for i, in := range inputs {
		if in.Name == "" {
			return nil, utils.NewValidationError("Every stop requires a name")
		}
		if seen[in.Name] {
			return nil, utils.NewValidationError("Duplicate stop name: " + in.Name)
		}
		seen[in.Name] = true

		longitude, latitude := in.Longitude, in.Latitude
		if len(in.Location) == 2 {
			longitude, latitude = in.Location[0], in.Location[1]
		}

		location := models.NewPoint(longitude, latitude)
		if !location.IsValid() {
			return nil, utils.NewValidationError("Every stop requires valid coordinates (longitude, latitude)")
		}

		if i > 0 {
			prev := stops[i-1]
			if in.Distance < prev.Distance {
				return nil, utils.NewValidationError("Stop distances must be non-decreasing along the route")
			}
			if in.TravelTime < prev.TravelTime {
				return nil, utils.NewValidationError("Stop travel times must be non-decreasing along the route")
			}
		}

		stops = append(stops, models.Stop{
			Name:       in.Name,
			Location:   location,
			Distance:   in.Distance,
			TravelTime: in.TravelTime,
			Order:      i,
		})
	}

	return stops, nil
}
