package services

import (
	"context"
	"errors"
	"time"

	"gotransit/internal/config"
	"gotransit/internal/models"
	"gotransit/internal/repositories/interfaces"
	"gotransit/internal/utils"
	"gotransit/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideService interface {
	Create(ctx context.Context, passengerID primitive.ObjectID, request *CreateRideRequest) (*models.Ride, error)
	Verify(ctx context.Context, passengerID, rideID primitive.ObjectID) (*models.Ride, error)
	Cancel(ctx context.Context, passengerID, rideID primitive.ObjectID) (*models.Ride, error)
	Start(ctx context.Context, passengerID, rideID primitive.ObjectID, request *StartRideRequest) (*models.Ride, error)
	End(ctx context.Context, passengerID, rideID primitive.ObjectID, currentPosition float64) (*models.Ride, error)
	DeleteCanceled(ctx context.Context, requesterRole models.UserRole) (int64, error)
}

type rideService struct {
	rideRepo     interfaces.RideRepository
	busRepo      interfaces.BusRepository
	routeRepo    interfaces.RouteRepository
	userRepo     interfaces.UserRepository
	fare         *config.FareConfig
	verifyWindow time.Duration
	logger       *logger.Logger
	now          func() time.Time
}

type CreateRideRequest struct {
	BusID         string `json:"bus_id" binding:"required"`
	StartStop     string `json:"start_stop" binding:"required"`
	EndStop       string `json:"end_stop" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=wallet cash"`
}

type StartRideRequest struct {
	StartStop string `json:"start_stop"`
	EndStop   string `json:"end_stop"`
}

func NewRideService(
	rideRepo interfaces.RideRepository,
	busRepo interfaces.BusRepository,
	routeRepo interfaces.RouteRepository,
	userRepo interfaces.UserRepository,
	fare *config.FareConfig,
	verifyWindow time.Duration,
	logger *logger.Logger,
) RideService {
	return &rideService{
		rideRepo:     rideRepo,
		busRepo:      busRepo,
		routeRepo:    routeRepo,
		userRepo:     userRepo,
		fare:         fare,
		verifyWindow: verifyWindow,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *rideService) Create(ctx context.Context, passengerID primitive.ObjectID, request *CreateRideRequest) (*models.Ride, error) {
	busID, err := primitive.ObjectIDFromHex(request.BusID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid bus ID")
	}

	method := models.PaymentMethod(request.PaymentMethod)
	if method != models.PaymentMethodWallet && method != models.PaymentMethodCash {
		return nil, utils.NewValidationError("Payment method must be wallet or cash")
	}

	if _, err := s.busRepo.GetByID(ctx, busID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFound("Bus")
		}
		return nil, utils.NewInternal(err)
	}

	ongoing, err := s.rideRepo.GetOngoingByPassenger(ctx, passengerID)
	if err != nil {
		return nil, utils.NewInternal(err)
	}
	if ongoing != nil {
		return nil, utils.NewConflict("You already have an ongoing ride")
	}

	ride := &models.Ride{
		Passenger:     passengerID,
		Bus:           busID,
		StartStop:     request.StartStop,
		EndStop:       request.EndStop,
		PaymentMethod: method,
		Status:        models.RideStatusOngoing,
		Verified:      false,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		// The partial unique index on (passenger, ongoing) backstops the
		// read-then-create race above.
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, utils.NewConflict("You already have an ongoing ride")
		}
		return nil, utils.NewInternal(err)
	}

	s.logger.LogRideEvent(ride.ID, "created", map[string]interface{}{"passenger": passengerID.Hex()})

	return ride, nil
}

func (s *rideService) Verify(ctx context.Context, passengerID, rideID primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.getOwnedOngoingRide(ctx, passengerID, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Verified {
		return nil, utils.NewAlreadyDone("Ride is already verified")
	}

	if ride.VerificationExpired(s.now(), s.verifyWindow) {
		return nil, utils.NewExpired("Ride verification window has expired")
	}

	if err := s.rideRepo.Update(ctx, rideID, map[string]interface{}{
		"verified": true,
	}); err != nil {
		return nil, utils.NewInternal(err)
	}

	ride.Verified = true

	s.logger.LogRideEvent(ride.ID, "verified", nil)

	return ride, nil
}

func (s *rideService) Cancel(ctx context.Context, passengerID, rideID primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.getOwnedOngoingRide(ctx, passengerID, rideID)
	if err != nil {
		return nil, err
	}

	if err := s.rideRepo.Update(ctx, rideID, map[string]interface{}{
		"status": models.RideStatusCanceled,
	}); err != nil {
		return nil, utils.NewInternal(err)
	}

	ride.Status = models.RideStatusCanceled

	s.logger.LogRideEvent(ride.ID, "canceled", nil)

	return ride, nil
}

func (s *rideService) Start(ctx context.Context, passengerID, rideID primitive.ObjectID, request *StartRideRequest) (*models.Ride, error) {
	ride, err := s.getOwnedOngoingRide(ctx, passengerID, rideID)
	if err != nil {
		return nil, err
	}

	if !ride.Verified {
		return nil, utils.NewInvalidState("Ride must be verified before it can start")
	}

	startName, endName := ride.StartStop, ride.EndStop
	if request != nil {
		if request.StartStop != "" {
			startName = request.StartStop
		}
		if request.EndStop != "" {
			endName = request.EndStop
		}
	}

	route, err := s.routeRepo.FindByStops(ctx, startName, endName)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewInvalidRoute("No route contains both stops")
		}
		return nil, utils.NewInternal(err)
	}

	start := route.FindStop(startName)
	end := route.FindStop(endName)
	if start == nil || end == nil {
		return nil, utils.NewInvalidRoute("No route contains both stops")
	}

	distance := end.Distance - start.Distance
	travelTime := end.TravelTime - start.TravelTime
	if distance < 0 || travelTime < 0 {
		return nil, utils.NewInvalidRoute("Stops are in the wrong order for this route")
	}

	fare := s.computeFare(distance)

	if err := s.rideRepo.Update(ctx, rideID, map[string]interface{}{
		"start_stop":     startName,
		"end_stop":       endName,
		"fare":           fare,
		"estimated_time": travelTime,
	}); err != nil {
		return nil, utils.NewInternal(err)
	}

	ride.StartStop = startName
	ride.EndStop = endName
	ride.Fare = fare
	ride.EstimatedTime = travelTime

	s.logger.LogRideEvent(ride.ID, "started", map[string]interface{}{"fare": fare})

	return ride, nil
}

// End selects the furthest stop at or behind currentPosition, recomputes the
// fare for the distance actually traveled, and completes the ride. For wallet
// rides the debit happens first so a failed debit leaves the ride ongoing.
func (s *rideService) End(ctx context.Context, passengerID, rideID primitive.ObjectID, currentPosition float64) (*models.Ride, error) {
	ride, err := s.getOwnedOngoingRide(ctx, passengerID, rideID)
	if err != nil {
		return nil, err
	}

	if !ride.Verified {
		return nil, utils.NewInvalidState("Ride must be verified before it can end")
	}

	route, err := s.routeRepo.FindByStops(ctx, ride.StartStop)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewInvalidRoute("No route contains the ride's start stop")
		}
		return nil, utils.NewInternal(err)
	}

	start := route.FindStop(ride.StartStop)
	if start == nil {
		return nil, utils.NewInvalidRoute("No route contains the ride's start stop")
	}

	// Walk forward from the start stop, keeping the last stop whose
	// cumulative distance has not passed the reported position. Ties take
	// the farther stop.
	end := start
	for i := range route.Stops {
		stop := &route.Stops[i]
		if stop.Order < start.Order {
			continue
		}
		if stop.Distance <= currentPosition && stop.Order >= end.Order {
			end = stop
		}
	}

	distance := end.Distance - start.Distance
	travelTime := end.TravelTime - start.TravelTime
	fare := s.computeFare(distance)

	if ride.PaymentMethod == models.PaymentMethodWallet {
		if err := s.userRepo.DebitWallet(ctx, passengerID, fare); err != nil {
			if errors.Is(err, interfaces.ErrInsufficientFunds) {
				return nil, utils.NewInsufficientFunds("Wallet balance does not cover the fare")
			}
			return nil, utils.NewInternal(err)
		}
	}

	if err := s.rideRepo.Update(ctx, rideID, map[string]interface{}{
		"end_stop":       end.Name,
		"fare":           fare,
		"estimated_time": travelTime,
		"status":         models.RideStatusCompleted,
	}); err != nil {
		return nil, utils.NewInternal(err)
	}

	ride.EndStop = end.Name
	ride.Fare = fare
	ride.EstimatedTime = travelTime
	ride.Status = models.RideStatusCompleted

	s.logger.LogRideEvent(ride.ID, "completed", map[string]interface{}{"fare": fare})

	return ride, nil
}

func (s *rideService) DeleteCanceled(ctx context.Context, requesterRole models.UserRole) (int64, error) {
	if requesterRole != models.UserRoleAdmin {
		return 0, utils.NewForbidden("Only admins can delete canceled rides")
	}

	deleted, err := s.rideRepo.DeleteCanceled(ctx)
	if err != nil {
		return 0, utils.NewInternal(err)
	}

	return deleted, nil
}

func (s *rideService) getOwnedOngoingRide(ctx context.Context, passengerID, rideID primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFound("Ride")
		}
		return nil, utils.NewInternal(err)
	}

	if ride.Passenger != passengerID {
		return nil, utils.NewForbidden("You do not own this ride")
	}

	if !ride.IsOngoing() {
		return nil, utils.NewInvalidState("Ride is not ongoing")
	}

	return ride, nil
}

func (s *rideService) computeFare(distance float64) float64 {
	return s.fare.BaseFare + s.fare.RatePerDistance*distance
}
