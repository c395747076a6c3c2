package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	UserRolePassenger UserRole = "passenger"
	UserRoleDriver    UserRole = "driver"
	UserRoleAdmin     UserRole = "admin"
)

const (
	WalletBalanceMin = 0.0
	WalletBalanceMax = 10000.0
)

// OTP holds the current one-time code sent to the user. Cleared on
// successful verification.
type OTP struct {
	Code      string    `json:"-" bson:"code"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

type User struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name               string             `json:"name" bson:"name" validate:"required,min=2,max=50"`
	Email              string             `json:"email" bson:"email" validate:"required,email"`
	Phone              string             `json:"phone" bson:"phone" validate:"required"`
	Password           string             `json:"-" bson:"password"`
	Role               UserRole           `json:"role" bson:"role" validate:"required"`
	Avatar             string             `json:"avatar" bson:"avatar"`
	WalletBalance      float64            `json:"wallet_balance" bson:"wallet_balance"`
	CurrentLocation    *Location          `json:"current_location" bson:"current_location"`
	OTP                *OTP               `json:"-" bson:"otp"`
	OTPAttempts        int                `json:"-" bson:"otp_attempts"`
	OTPResendAttempts  int                `json:"-" bson:"otp_resend_attempts"`
	IsVerified         bool               `json:"is_verified" bson:"is_verified"`
	DeleteConfirmation bool               `json:"delete_confirmation" bson:"delete_confirmation"`
	RefreshToken       string             `json:"-" bson:"refresh_token"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

func (u *User) IsDriver() bool {
	return u.Role == UserRoleDriver
}

// OTPExpired reports whether the stored code is past its expiry.
func (u *User) OTPExpired(now time.Time) bool {
	return u.OTP == nil || now.After(u.OTP.ExpiresAt)
}
