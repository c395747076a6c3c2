package mongodb

import (
	"context"
	"fmt"
	"time"

	"gotransit/internal/models"
	"gotransit/internal/repositories/interfaces"
	"gotransit/pkg/cache"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const rideCacheTTL = 5 * time.Minute

type rideRepository struct {
	collection *mongo.Collection
	cache      *cache.RedisCache
}

// NewRideRepository wires the rides collection with an optional redis cache
// for ongoing rides; pass nil to disable caching.
func NewRideRepository(db *mongo.Database, redisCache *cache.RedisCache) interfaces.RideRepository {
	return &rideRepository{
		collection: db.Collection("rides"),
		cache:      redisCache,
	}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	ride.ID = primitive.NewObjectID()
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = ride.CreatedAt
	ride.Status = models.RideStatusOngoing
	ride.Verified = false

	_, err := r.collection.InsertOne(ctx, ride)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Partial unique index on {passenger, status:ongoing}.
			return interfaces.ErrDuplicate
		}
		return fmt.Errorf("failed to create ride: %w", err)
	}

	r.cacheRide(ctx, ride)

	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	if ride := r.getCachedRide(ctx, id.Hex()); ride != nil {
		return ride, nil
	}

	var ride models.Ride
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ride)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	if ride.IsOngoing() {
		r.cacheRide(ctx, &ride)
	}

	return &ride, nil
}

func (r *rideRepository) GetOngoingByPassenger(ctx context.Context, passengerID primitive.ObjectID) (*models.Ride, error) {
	var ride models.Ride
	filter := bson.M{"passenger": passengerID, "status": models.RideStatusOngoing}

	err := r.collection.FindOne(ctx, filter).Decode(&ride)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ongoing ride: %w", err)
	}

	return &ride, nil
}

func (r *rideRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update ride: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	r.invalidateRide(ctx, id.Hex())

	return nil
}

func (r *rideRepository) DeleteCanceled(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"status": models.RideStatusCanceled})
	if err != nil {
		return 0, fmt.Errorf("failed to delete canceled rides: %w", err)
	}

	return result.DeletedCount, nil
}

func (r *rideRepository) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"verified":   false,
		"created_at": bson.M{"$lt": cutoff},
	}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete unverified rides: %w", err)
	}

	return result.DeletedCount, nil
}

func (r *rideRepository) cacheRide(ctx context.Context, ride *models.Ride) {
	if r.cache == nil {
		return
	}
	// Best effort; a cache failure never fails the write.
	_ = r.cache.Set(ctx, "ride:"+ride.ID.Hex(), ride, rideCacheTTL)
}

func (r *rideRepository) getCachedRide(ctx context.Context, id string) *models.Ride {
	if r.cache == nil {
		return nil
	}

	var ride models.Ride
	if err := r.cache.Get(ctx, "ride:"+id, &ride); err != nil {
		return nil
	}

	return &ride
}

func (r *rideRepository) invalidateRide(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, "ride:"+id)
}
