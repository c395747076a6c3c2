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

type routeRepository struct {
	collection *mongo.Collection
}

func NewRouteRepository(db *mongo.Database) interfaces.RouteRepository {
	return &routeRepository{
		collection: db.Collection("routes"),
	}
}

func (r *routeRepository) Create(ctx context.Context, route *models.Route) error {
	route.ID = primitive.NewObjectID()
	route.CreatedAt = time.Now()
	route.UpdatedAt = route.CreatedAt

	_, err := r.collection.InsertOne(ctx, route)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return interfaces.ErrDuplicate
		}
		return fmt.Errorf("failed to create route: %w", err)
	}

	return nil
}

func (r *routeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Route, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *routeRepository) GetByName(ctx context.Context, routeName string) (*models.Route, error) {
	return r.findOne(ctx, bson.M{"route_name": routeName})
}

func (r *routeRepository) findOne(ctx context.Context, filter bson.M) (*models.Route, error) {
	var route models.Route
	err := r.collection.FindOne(ctx, filter).Decode(&route)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	return &route, nil
}

func (r *routeRepository) List(ctx context.Context) ([]*models.Route, error) {
	opts := options.Find().SetSort(bson.D{{Key: "route_name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	defer cursor.Close(ctx)

	var routes []*models.Route
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, fmt.Errorf("failed to decode routes: %w", err)
	}

	return routes, nil
}

func (r *routeRepository) FindByStops(ctx context.Context, stopNames ...string) (*models.Route, error) {
	return r.findOne(ctx, bson.M{"stops.name": bson.M{"$all": stopNames}})
}

func (r *routeRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return interfaces.ErrDuplicate
		}
		return fmt.Errorf("failed to update route: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}

func (r *routeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}

	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}
