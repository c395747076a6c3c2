package mongodb

import (
	"context"
	"fmt"
	"time"

	"gotransit/internal/models"
	"gotransit/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type busRepository struct {
	collection *mongo.Collection
}

func NewBusRepository(db *mongo.Database) interfaces.BusRepository {
	return &busRepository{
		collection: db.Collection("buses"),
	}
}

func (r *busRepository) Create(ctx context.Context, bus *models.Bus) error {
	bus.ID = primitive.NewObjectID()
	bus.CreatedAt = time.Now()
	bus.UpdatedAt = bus.CreatedAt
	if bus.Status == "" {
		bus.Status = models.BusStatusActive
	}

	_, err := r.collection.InsertOne(ctx, bus)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return interfaces.ErrDuplicate
		}
		return fmt.Errorf("failed to create bus: %w", err)
	}

	return nil
}

func (r *busRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Bus, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *busRepository) GetByNumber(ctx context.Context, busNumber string) (*models.Bus, error) {
	return r.findOne(ctx, bson.M{"bus_number": busNumber})
}

func (r *busRepository) findOne(ctx context.Context, filter bson.M) (*models.Bus, error) {
	var bus models.Bus
	err := r.collection.FindOne(ctx, filter).Decode(&bus)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bus: %w", err)
	}

	return &bus, nil
}

func (r *busRepository) List(ctx context.Context, filter *interfaces.BusFilter) ([]*models.Bus, error) {
	query := bson.M{}

	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Route != nil {
		query["route"] = *filter.Route
	}
	if filter.AssignedDriver != nil {
		query["assigned_driver"] = *filter.AssignedDriver
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}
	defer cursor.Close(ctx)

	var buses []*models.Bus
	if err := cursor.All(ctx, &buses); err != nil {
		return nil, fmt.Errorf("failed to decode buses: %w", err)
	}

	return buses, nil
}

func (r *busRepository) ListByRoute(ctx context.Context, routeID primitive.ObjectID) ([]*models.Bus, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"route": routeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list buses by route: %w", err)
	}
	defer cursor.Close(ctx)

	var buses []*models.Bus
	if err := cursor.All(ctx, &buses); err != nil {
		return nil, fmt.Errorf("failed to decode buses: %w", err)
	}

	return buses, nil
}

func (r *busRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return interfaces.ErrDuplicate
		}
		return fmt.Errorf("failed to update bus: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}

func (r *busRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete bus: %w", err)
	}

	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}
