package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the single persistent entity of the account service.
//
// The confirmation token pair is present only while a confirmation is
// outstanding; the three reset fields only while a password reset is
// outstanding. Both pairs are cleared on consumption so a token can never be
// replayed.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password_hash"`
	Confirmed    bool          `bson:"confirmed"`

	SignupDate          time.Time  `bson:"signup_date"`
	ConfirmedDate       *time.Time `bson:"confirmed_date,omitempty"`
	PasswordLastUpdated *time.Time `bson:"password_last_updated,omitempty"`
	PasswordResetDate   *time.Time `bson:"password_reset_date,omitempty"`

	ConfirmationToken        string     `bson:"confirmation_token,omitempty"`
	ConfirmationTokenExpires *time.Time `bson:"confirmation_token_expires,omitempty"`

	ResetPasswordToken       string     `bson:"reset_password_token,omitempty"`
	ResetPasswordExpires     *time.Time `bson:"reset_password_expires,omitempty"`
	PasswordResetRequestDate *time.Time `bson:"password_reset_request_date,omitempty"`

	// Data is an opaque application payload attached at registration.
	// The service stores and returns it without interpreting it.
	Data map[string]any `bson:"data,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}
