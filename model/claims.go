package model

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const subjectSeparator = "="

var ErrInvalidSubject = errors.New("invalid token subject")

// TokenClaims is the claim set serialized into every token.
type TokenClaims struct {
	Type TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// NewSubject builds the composite "<userId>=<deviceId>" subject.
func NewSubject(userID uuid.UUID, deviceID string) string {
	if deviceID == "" {
		deviceID = DefaultDeviceID
	}
	return userID.String() + subjectSeparator + deviceID
}

// ParseSubject splits a subject produced by NewSubject. The device part may
// itself contain the separator.
func ParseSubject(subject string) (uuid.UUID, string, error) {
	rawID, deviceID, ok := strings.Cut(subject, subjectSeparator)
	if !ok || deviceID == "" {
		return uuid.Nil, "", ErrInvalidSubject
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", ErrInvalidSubject
	}
	return userID, deviceID, nil
}

// TokenID parses the jti claim.
func (c *TokenClaims) TokenID() (uuid.UUID, error) {
	return uuid.Parse(c.ID)
}

// UserID returns the user half of the subject.
func (c *TokenClaims) UserID() (uuid.UUID, error) {
	userID, _, err := ParseSubject(c.Subject)
	return userID, err
}

// DeviceID returns the device half of the subject.
func (c *TokenClaims) DeviceID() (string, error) {
	_, deviceID, err := ParseSubject(c.Subject)
	return deviceID, err
}
