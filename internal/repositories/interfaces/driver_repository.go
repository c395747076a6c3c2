package interfaces

import (
	"context"

	"gotransit/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverFilter struct {
	Status        models.DriverStatus
	MinExperience *int
	MaxExperience *int
	Page          int
	Limit         int
}

type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error)
	GetByLicense(ctx context.Context, licenseNumber string) (*models.Driver, error)
	List(ctx context.Context, filter *DriverFilter) ([]*models.Driver, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
