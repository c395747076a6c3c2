package interfaces

import (
	"context"

	"gotransit/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RouteRepository interface {
	Create(ctx context.Context, route *models.Route) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Route, error)
	GetByName(ctx context.Context, routeName string) (*models.Route, error)
	List(ctx context.Context) ([]*models.Route, error)

	// FindByStops returns the first route whose stop list contains every
	// named stop.
	FindByStops(ctx context.Context, stopNames ...string) (*models.Route, error)

	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
