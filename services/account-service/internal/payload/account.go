package payload

import (
	"time"

	"github.com/pakin/account-api/services/account-service/internal/model"
)

type RegisterRequest struct {
	Email    string         `json:"email"    validate:"required,email"`
	Password string         `json:"password" validate:"required"`
	Data     map[string]any `json:"data,omitempty"`
}

type RegisterResponse struct {
	OK           bool   `json:"ok"`
	ID           string `json:"id,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ConfirmRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

type ConfirmResponse struct {
	OK           bool   `json:"ok"`
	ID           string `json:"id,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type AuthenticateRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthenticateResponse struct {
	OK           bool   `json:"ok"`
	ID           string `json:"id,omitempty"`
	Token        string `json:"token,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type ValidateResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id,omitempty"`
}

type RefreshResponse struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Token string `json:"token,omitempty"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Token    string `json:"token"    validate:"required"`
}

type ResetPasswordResponse struct {
	OK           bool   `json:"ok"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type UpdatePasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ErrorResponse struct {
	OK           bool   `json:"ok"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// UserResponse is the whitelisted projection of a user record. It is the
// only shape user data ever leaves the service in: no password hash, no
// tokens, no expiry timestamps.
type UserResponse struct {
	ID         string         `json:"id"`
	Email      string         `json:"email"`
	Confirmed  bool           `json:"confirmed"`
	SignupDate time.Time      `json:"signupDate"`
	Data       map[string]any `json:"data,omitempty"`
}

// NewUserResponse projects a user record onto the whitelisted fields.
func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:         user.ID.Hex(),
		Email:      user.Email,
		Confirmed:  user.Confirmed,
		SignupDate: user.SignupDate,
		Data:       user.Data,
	}
}
