package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BusStatus string

const (
	BusStatusActive   BusStatus = "active"
	BusStatusInactive BusStatus = "inactive"
)

type EstimatedArrival struct {
	StopName string    `json:"stop_name" bson:"stop_name"`
	ETA      time.Time `json:"eta" bson:"eta"`
}

type Bus struct {
	ID                primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	BusNumber         string              `json:"bus_number" bson:"bus_number" validate:"required"`
	Route             primitive.ObjectID  `json:"route" bson:"route" validate:"required"`
	AssignedDriver    *primitive.ObjectID `json:"assigned_driver" bson:"assigned_driver"`
	Capacity          int                 `json:"capacity" bson:"capacity" validate:"required,min=1"`
	AvailableCapacity int                 `json:"available_capacity" bson:"available_capacity"`
	Status            BusStatus           `json:"status" bson:"status"`
	CurrentLocation   *Location           `json:"current_location" bson:"current_location" validate:"required"`
	CurrentStopOrder  int                 `json:"current_stop_order" bson:"current_stop_order"`
	EstimatedArrivals []EstimatedArrival  `json:"estimated_arrivals" bson:"estimated_arrivals"`
	CreatedAt         time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" bson:"updated_at"`
}
