package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideStatus string
type PaymentMethod string

const (
	RideStatusOngoing   RideStatus = "ongoing"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCanceled  RideStatus = "canceled"

	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodCash   PaymentMethod = "cash"
)

type Ride struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Passenger     primitive.ObjectID `json:"passenger" bson:"passenger" validate:"required"`
	Bus           primitive.ObjectID `json:"bus" bson:"bus" validate:"required"`
	StartStop     string             `json:"start_stop" bson:"start_stop" validate:"required"`
	EndStop       string             `json:"end_stop" bson:"end_stop" validate:"required"`
	Fare          float64            `json:"fare" bson:"fare"`
	PaymentMethod PaymentMethod      `json:"payment_method" bson:"payment_method" validate:"required"`
	Status        RideStatus         `json:"status" bson:"status"`
	Verified      bool               `json:"verified" bson:"verified"`
	EstimatedTime float64            `json:"estimated_time" bson:"estimated_time"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

func (r *Ride) IsOngoing() bool {
	return r.Status == RideStatusOngoing
}

// VerificationExpired reports whether the verification window has passed.
// A call exactly at the boundary still succeeds.
func (r *Ride) VerificationExpired(now time.Time, window time.Duration) bool {
	return now.Sub(r.CreatedAt) > window
}
