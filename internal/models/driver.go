package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "available"
	DriverStatusInactive  DriverStatus = "inactive"
	DriverStatusOnDuty    DriverStatus = "on-duty"
)

type DriverRating struct {
	UserID primitive.ObjectID `json:"user_id" bson:"user_id"`
	Score  float64            `json:"score" bson:"score" validate:"min=0,max=5"`
}

type Driver struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID        primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	LicenseNumber string              `json:"license_number" bson:"license_number" validate:"required"`
	Experience    int                 `json:"experience" bson:"experience" validate:"min=0"`
	AssignedBus   *primitive.ObjectID `json:"assigned_bus" bson:"assigned_bus"`
	Ratings       []DriverRating      `json:"ratings" bson:"ratings"`
	AverageRating float64             `json:"average_rating" bson:"average_rating"`
	Status        DriverStatus        `json:"status" bson:"status"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" bson:"updated_at"`
}

// RecalculateAverage keeps AverageRating equal to the mean of all scores,
// zero when the list is empty.
func (d *Driver) RecalculateAverage() {
	if len(d.Ratings) == 0 {
		d.AverageRating = 0
		return
	}

	var total float64
	for _, r := range d.Ratings {
		total += r.Score
	}
	d.AverageRating = total / float64(len(d.Ratings))
}
