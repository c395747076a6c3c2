package interfaces

import (
	"context"

	"gotransit/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BusFilter struct {
	Status         models.BusStatus
	Route          *primitive.ObjectID
	AssignedDriver *primitive.ObjectID
	Page           int
	Limit          int
}

type BusRepository interface {
	Create(ctx context.Context, bus *models.Bus) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Bus, error)
	GetByNumber(ctx context.Context, busNumber string) (*models.Bus, error)
	List(ctx context.Context, filter *BusFilter) ([]*models.Bus, error)
	ListByRoute(ctx context.Context, routeID primitive.ObjectID) ([]*models.Bus, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
