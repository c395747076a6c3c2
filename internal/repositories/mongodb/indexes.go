package mongodb

import (
	"context"
	"fmt"

	"gotransit/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the workflows rely on. Safe to
// call on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	driverIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "license_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("drivers").Indexes().CreateMany(ctx, driverIndexes); err != nil {
		return fmt.Errorf("failed to create driver indexes: %w", err)
	}

	busIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "bus_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "route", Value: 1}},
		},
	}
	if _, err := db.Collection("buses").Indexes().CreateMany(ctx, busIndexes); err != nil {
		return fmt.Errorf("failed to create bus indexes: %w", err)
	}

	routeIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "route_name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "stops.name", Value: 1}},
		},
	}
	if _, err := db.Collection("routes").Indexes().CreateMany(ctx, routeIndexes); err != nil {
		return fmt.Errorf("failed to create route indexes: %w", err)
	}

	// Partial unique index: at most one ongoing ride per passenger, enforced
	// at the storage layer so concurrent creates cannot slip through the
	// read-then-write check.
	rideIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "passenger", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.RideStatusOngoing}),
		},
		{
			Keys: bson.D{{Key: "verified", Value: 1}, {Key: "created_at", Value: 1}},
		},
	}
	if _, err := db.Collection("rides").Indexes().CreateMany(ctx, rideIndexes); err != nil {
		return fmt.Errorf("failed to create ride indexes: %w", err)
	}

	return nil
}
