// file: model/token.go

package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind tells access tokens and refresh tokens apart. It travels in the
// "type" claim and selects the storage partition.
type TokenKind string

const (
	TokenAccess  TokenKind = "ACCESS"
	TokenRefresh TokenKind = "REFRESH"
)

func (k TokenKind) Valid() bool {
	return k == TokenAccess || k == TokenRefresh
}

// DefaultDeviceID is stored when the client did not name its device.
const DefaultDeviceID = "unspecified"

// AssignedToken is the persisted record of an issued token.
type AssignedToken struct {
	ID          int64     `json:"id"`
	TokenID     uuid.UUID `json:"jti"`
	IsActive    bool      `json:"is_active"`
	ExpiredTime time.Time `json:"expired_time"`
	DeviceID    string    `json:"device_id"`
	UserID      uuid.UUID `json:"user_id"`
}

// TokenPair is returned by login and by the token refresh endpoint.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
