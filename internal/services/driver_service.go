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

type DriverService interface {
	SetDetails(ctx context.Context, userID primitive.ObjectID, request *SetDriverDetailsRequest) (*models.Driver, error)
	AssignBus(ctx context.Context, requesterRole models.UserRole, busID, driverID primitive.ObjectID) (*AssignmentResult, error)
	ReleaseBus(ctx context.Context, requesterRole models.UserRole, busID primitive.ObjectID) error
	AddRating(ctx context.Context, userID, driverID primitive.ObjectID, score float64) (*RatingSummary, error)
	RemoveRating(ctx context.Context, userID, driverID primitive.ObjectID) (*RatingSummary, error)
	List(ctx context.Context, filter *interfaces.DriverFilter) ([]*models.Driver, error)
	UpdateDetails(ctx context.Context, requesterRole models.UserRole, driverID primitive.ObjectID, request *UpdateDriverDetailsRequest) (*models.Driver, error)
	Delete(ctx context.Context, requesterRole models.UserRole, driverID primitive.ObjectID) error
}

type driverService struct {
	driverRepo interfaces.DriverRepository
	busRepo    interfaces.BusRepository
	userRepo   interfaces.UserRepository
	tx         TxRunner
	logger     *logger.Logger
}

type SetDriverDetailsRequest struct {
	LicenseNumber string `json:"license_number" binding:"required"`
	Experience    int    `json:"experience" binding:"required,min=0"`
}

type UpdateDriverDetailsRequest struct {
	LicenseNumber string `json:"license_number"`
	Experience    *int   `json:"experience"`
}

type AssignmentResult struct {
	Bus    *models.Bus    `json:"bus"`
	Driver *models.Driver `json:"driver"`
}

type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

func NewDriverService(
	driverRepo interfaces.DriverRepository,
	busRepo interfaces.BusRepository,
	userRepo interfaces.UserRepository,
	tx TxRunner,
	logger *logger.Logger,
) DriverService {
	return &driverService{
		driverRepo: driverRepo,
		busRepo:    busRepo,
		userRepo:   userRepo,
		tx:         tx,
		logger:     logger,
	}
}

func (s *driverService) SetDetails(ctx context.Context, userID primitive.ObjectID, request *SetDriverDetailsRequest) (*models.Driver, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFound("User")
		}
		return nil, utils.NewInternal(err)
	}

	if !user.IsDriver() {
		return nil, utils.NewForbidden("Only drivers can set driver details")
	}

	if existing, err := s.driverRepo.GetByUserID(ctx, userID); err == nil && existing != nil {
		return nil, utils.NewConflict("Driver details already exist for this user")
	}

	driver := &models.Driver{
		UserID:        userID,
		LicenseNumber: request.LicenseNumber,
		Experience:    request.Experience,
		Status:        models.DriverStatusAvailable,
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, utils.NewConflict("Driver with this license already exists")
		}
		return nil, utils.NewInternal(err)
	}

	return driver, nil
}

// AssignBus sets the mutual bus/driver pointers inside one transaction so a
// half-assigned pair can never be observed, even under concurrent admin
// requests.
func (s *driverService) AssignBus(ctx context.Context, requesterRole models.UserRole, busID, driverID primitive.ObjectID) (*AssignmentResult, error) {
	if requesterRole != models.UserRoleAdmin {
		return nil, utils.NewForbidden("Only admins can assign buses")
	}

	var result *AssignmentResult

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		bus, err := s.busRepo.GetByID(txCtx, busID)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return utils.NewNotFound("Bus")
			}
			return err
		}

		driver, err := s.driverRepo.GetByID(txCtx, driverID)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return utils.NewNotFound("Driver")
			}
			return err
		}

		if bus.AssignedDriver != nil {
			return utils.NewConflict("Bus already has a driver assigned")
		}

		if driver.AssignedBus != nil {
			return utils.NewConflict("Driver is already assigned to another bus")
		}

		if err := s.busRepo.Update(txCtx, busID, map[string]interface{}{
			"assigned_driver": driverID,
		}); err != nil {
			return err
		}

		if err := s.driverRepo.Update(txCtx, driverID, map[string]interface{}{
			"assigned_bus": busID,
			"status":       models.DriverStatusOnDuty,
		}); err != nil {
			return err
		}

		bus.AssignedDriver = &driverID
		driver.AssignedBus = &busID
		driver.Status = models.DriverStatusOnDuty

		result = &AssignmentResult{Bus: bus, Driver: driver}
		return nil
	})
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, utils.NewInternal(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"bus_id":    busID.Hex(),
		"driver_id": driverID.Hex(),
	}).Info("Driver assigned to bus")

	return result, nil
}

func (s *driverService) ReleaseBus(ctx context.Context, requesterRole models.UserRole, busID primitive.ObjectID) error {
	if requesterRole != models.UserRoleAdmin {
		return utils.NewForbidden("Only admins can release drivers")
	}

	bus, err := s.busRepo.GetByID(ctx, busID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return utils.NewNotFound("Bus")
		}
		return utils.NewInternal(err)
	}

	if bus.AssignedDriver == nil {
		return utils.NewInvalidState("No driver is assigned to this bus")
	}

	driver, err := s.driverRepo.GetByID(ctx, *bus.AssignedDriver)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return utils.NewInternal(err)
	}

	if err := s.busRepo.Update(ctx, busID, map[string]interface{}{
		"assigned_driver": nil,
	}); err != nil {
		return utils.NewInternal(err)
	}

	if driver == nil {
		// Dangling pointer: the driver record was deleted out from under
		// the bus. The bus side is cleared above.
		return utils.NewNotFound("Driver")
	}

	if err := s.driverRepo.Update(ctx, driver.ID, map[string]interface{}{
		"assigned_bus": nil,
		"status":       models.DriverStatusAvailable,
	}); err != nil {
		return utils.NewInternal(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"bus_id":    busID.Hex(),
		"driver_id": driver.ID.Hex(),
	}).Info("Driver released from bus")

	return nil
}

func (s *driverService) AddRating(ctx context.Context, userID, driverID primitive.ObjectID, score float64) (*RatingSummary, error) {
	if score < 0 || score > 5 {
		return nil, utils.NewValidationError("Rating must be between 0 and 5")
	}

	driver, err := s.getDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	// One rating per (driver, user) pair: replace when present.
	found := false
	for i := range driver.Ratings {
		if driver.Ratings[i].UserID == userID {
			driver.Ratings[i].Score = score
			found = true
			break
		}
	}
	if !found {
		driver.Ratings = append(driver.Ratings, models.DriverRating{UserID: userID, Score: score})
	}

	driver.RecalculateAverage()

	if err := s.driverRepo.Update(ctx, driverID, map[string]interface{}{
		"ratings":        driver.Ratings,
		"average_rating": driver.AverageRating,
	}); err != nil {
		return nil, utils.NewInternal(err)
	}

	return &RatingSummary{
		AverageRating: driver.AverageRating,
		TotalRatings:  len(driver.Ratings),
	}, nil
}

func (s *driverService) RemoveRating(ctx context.Context, userID, driverID primitive.ObjectID) (*RatingSummary, error) {
	driver, err := s.getDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range driver.Ratings {
		if driver.Ratings[i].UserID == userID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, utils.NewNotFound("Rating")
	}

	driver.Ratings = append(driver.Ratings[:index], driver.Ratings[index+1:]...)
	driver.RecalculateAverage()

	if err := s.driverRepo.Update(ctx, driverID, map[string]interface{}{
		"ratings":        driver.Ratings,
		"average_rating": driver.AverageRating,
	}); err != nil {
		return nil, utils.NewInternal(err)
	}

	return &RatingSummary{
		AverageRating: driver.AverageRating,
		TotalRatings:  len(driver.Ratings),
	}, nil
}

func (s *driverService) List(ctx context.Context, filter *interfaces.DriverFilter) ([]*models.Driver, error) {
	drivers, err := s.driverRepo.List(ctx, filter)
	if err != nil {
		return nil, utils.NewInternal(err)
	}

	return drivers, nil
}

func (s *driverService) UpdateDetails(ctx context.Context, requesterRole models.UserRole, driverID primitive.ObjectID, request *UpdateDriverDetailsRequest) (*models.Driver, error) {
	if requesterRole != models.UserRoleAdmin {
		return nil, utils.NewForbidden("Only admins can update driver details")
	}

	if request.LicenseNumber == "" && request.Experience == nil {
		return nil, utils.NewValidationError("At least one of license number or experience is required")
	}

	driver, err := s.getDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if request.LicenseNumber != "" {
		updates["license_number"] = request.LicenseNumber
		driver.LicenseNumber = request.LicenseNumber
	}
	if request.Experience != nil {
		if *request.Experience < 0 {
			return nil, utils.NewValidationError("Experience cannot be negative")
		}
		updates["experience"] = *request.Experience
		driver.Experience = *request.Experience
	}

	if err := s.driverRepo.Update(ctx, driverID, updates); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, utils.NewConflict("Driver with this license already exists")
		}
		return nil, utils.NewInternal(err)
	}

	return driver, nil
}

// Delete removes the driver record and its backing user account. Refused
// while the driver holds a bus.
func (s *driverService) Delete(ctx context.Context, requesterRole models.UserRole, driverID primitive.ObjectID) error {
	if requesterRole != models.UserRoleAdmin {
		return utils.NewForbidden("Only admins can delete drivers")
	}

	driver, err := s.getDriver(ctx, driverID)
	if err != nil {
		return err
	}

	if driver.AssignedBus != nil {
		return utils.NewConflict("Cannot delete a driver assigned to a bus")
	}

	if err := s.driverRepo.Delete(ctx, driverID); err != nil {
		return utils.NewInternal(err)
	}

	if err := s.userRepo.Delete(ctx, driver.UserID); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return utils.NewInternal(err)
	}

	return nil
}

func (s *driverService) getDriver(ctx context.Context, driverID primitive.ObjectID) (*models.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFound("Driver")
		}
		return nil, utils.NewInternal(err)
	}

	return driver, nil
}
