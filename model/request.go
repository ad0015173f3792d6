// file: model/request.go

package model

import "time"

// RegisterRequest defines the payload for creating a new user.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=100"`
	Password  string `json:"password" validate:"required,min=3,max=72"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// LoginRequest defines the payload for user authentication. DeviceID scopes
// the issued tokens; NotBefore postpones their validity.
type LoginRequest struct {
	Username  string     `json:"username" validate:"required"`
	Password  string     `json:"password" validate:"required"`
	DeviceID  string     `json:"device_id" validate:"max=100"`
	NotBefore *time.Time `json:"not_before"`
}
