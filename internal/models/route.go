package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stop is one entry in a route's ordered stop list. Distance and TravelTime
// are cumulative from the first stop and monotonically non-decreasing along
// Order, so segment values come from subtraction.
type Stop struct {
	Name       string    `json:"name" bson:"name" validate:"required"`
	Location   *Location `json:"location" bson:"location" validate:"required"`
	Distance   float64   `json:"distance" bson:"distance"`
	TravelTime float64   `json:"travel_time" bson:"travel_time"`
	Order      int       `json:"order" bson:"order"`
}

type Route struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RouteName string             `json:"route_name" bson:"route_name" validate:"required"`
	Stops     []Stop             `json:"stops" bson:"stops" validate:"required,min=2"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// FindStop returns the stop with the given name, or nil.
func (r *Route) FindStop(name string) *Stop {
	for i := range r.Stops {
		if r.Stops[i].Name == name {
			return &r.Stops[i]
		}
	}
	return nil
}

// HasStops reports whether the route contains every named stop.
func (r *Route) HasStops(names ...string) bool {
	for _, name := range names {
		if r.FindStop(name) == nil {
			return false
		}
	}
	return true
}
