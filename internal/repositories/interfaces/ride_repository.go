package interfaces

import (
	"context"
	"time"

	"gotransit/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRepository interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)

	// GetOngoingByPassenger returns the passenger's single ongoing ride,
	// or nil when there is none.
	GetOngoingByPassenger(ctx context.Context, passengerID primitive.ObjectID) (*models.Ride, error)

	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Sweep deletes. Idempotent bulk filter-deletes.
	DeleteCanceled(ctx context.Context) (int64, error)
	DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
