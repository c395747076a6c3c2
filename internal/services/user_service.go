package services

import (
	"context"
	"errors"
	"io"

	"gotransit/internal/models"
	"gotransit/internal/repositories/interfaces"
	"gotransit/internal/utils"
	"gotransit/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID primitive.ObjectID, filename, contentType string, reader io.Reader, size int64) (string, error)
	UpdateLocation(ctx context.Context, userID primitive.ObjectID, longitude, latitude float64) error
	RequestAccountDeletion(ctx context.Context, userID primitive.ObjectID) error
}

type userService struct {
	userRepo interfaces.UserRepository
	storage  StorageService
	logger   *logger.Logger
}

func NewUserService(userRepo interfaces.UserRepository, storage StorageService, logger *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		storage:  storage,
		logger:   logger,
	}
}

func (s *userService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFound("User")
		}
		return nil, utils.NewInternal(err)
	}

	return user, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID primitive.ObjectID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	url, err := s.storage.UploadAvatar(ctx, userID, filename, contentType, reader, size)
	if err != nil {
		return "", utils.NewInternal(err)
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"avatar": url,
	}); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return "", utils.NewNotFound("User")
		}
		return "", utils.NewInternal(err)
	}

	return url, nil
}

func (s *userService) UpdateLocation(ctx context.Context, userID primitive.ObjectID, longitude, latitude float64) error {
	location := models.NewPoint(longitude, latitude)
	if !location.IsValid() {
		return utils.NewValidationError("Valid coordinates (longitude, latitude) are required")
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"current_location": location,
	}); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return utils.NewNotFound("User")
		}
		return utils.NewInternal(err)
	}

	return nil
}

// RequestAccountDeletion flags the account; the scheduled sweep performs the
// actual removal.
func (s *userService) RequestAccountDeletion(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"delete_confirmation": true,
	}); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return utils.NewNotFound("User")
		}
		return utils.NewInternal(err)
	}

	s.logger.WithUserID(userID).Info("Account deletion requested")

	return nil
}
