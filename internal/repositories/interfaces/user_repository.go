package interfaces

import (
	"context"
	"errors"

	"gotransit/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInsufficientFunds is returned by DebitWallet when the conditional
// update matches nothing because the balance is too low.
var ErrInsufficientFunds = errors.New("insufficient wallet balance")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// DebitWallet atomically subtracts amount when the balance covers it.
	DebitWallet(ctx context.Context, id primitive.ObjectID, amount float64) error

	// Sweep deletes. Both are idempotent bulk filter-deletes.
	DeleteConfirmed(ctx context.Context) (int64, error)
	DeleteUnverifiedExhausted(ctx context.Context, maxAttempts, maxResends int) (int64, error)
}
