package service

import (
	"context"
	"fmt"
	"go-account-api/logger"
	"go-account-api/model"
	"go-account-api/repository"
	"time"

	"github.com/sirupsen/logrus"
)

// IssueOptions carries the optional inputs of an issuance.
type IssueOptions struct {
	DeviceID    string
	NotBefore   *time.Time
	CurrentTime *time.Time
	// TTL overrides the kind's configured lifetime when positive.
	TTL time.Duration
}

// Issuer produces tokens for an authenticated user.
type Issuer interface {
	IssuePair(ctx context.Context, user *model.User, opts IssueOptions) (*model.TokenPair, error)
	IssueAccess(ctx context.Context, user *model.User, opts IssueOptions) (string, error)
}

// TokenIssuer encodes tokens and records them so that each (user, device)
// keeps a single active token per kind.
type TokenIssuer struct {
	codec TokenEncoder
	store repository.ITokenRepository
}

func NewTokenIssuer(codec TokenEncoder, store repository.ITokenRepository) *TokenIssuer {
	return &TokenIssuer{codec: codec, store: store}
}

// IssuePair issues an access token and a refresh token, in that order.
func (i *TokenIssuer) IssuePair(ctx context.Context, user *model.User, opts IssueOptions) (*model.TokenPair, error) {
	access, err := i.issue(ctx, model.TokenAccess, user, opts)
	if err != nil {
		return nil, err
	}
	refresh, err := i.issue(ctx, model.TokenRefresh, user, opts)
	if err != nil {
		return nil, err
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess issues only an access token.
func (i *TokenIssuer) IssueAccess(ctx context.Context, user *model.User, opts IssueOptions) (string, error) {
	return i.issue(ctx, model.TokenAccess, user, opts)
}

func (i *TokenIssuer) issue(ctx context.Context, kind model.TokenKind, user *model.User, opts IssueOptions) (string, error) {
	deviceID := opts.DeviceID
	if deviceID == "" {
		deviceID = model.DefaultDeviceID
	}

	stamp := StampOptions{TTL: opts.TTL}
	if opts.CurrentTime != nil {
		stamp.IssuedAt = *opts.CurrentTime
	}
	if opts.NotBefore != nil {
		stamp.NotBefore = *opts.NotBefore
	}

	token, claims, err := i.codec.Encode(kind, model.NewSubject(user.ID, deviceID), stamp)
	if err != nil {
		return "", err
	}

	tokenID, err := claims.TokenID()
	if err != nil {
		return "", fmt.Errorf("issue %s token: %w", kind, err)
	}
	record := &model.AssignedToken{
		TokenID:     tokenID,
		ExpiredTime: claims.ExpiresAt.Time,
		DeviceID:    deviceID,
		UserID:      user.ID,
	}
	if err := i.store.RotateDeviceToken(ctx, kind, record); err != nil {
		return "", fmt.Errorf("issue %s token: %w", kind, err)
	}

	logger.Log.WithFields(logrus.Fields{
		"kind":      kind,
		"user_id":   user.ID,
		"device_id": deviceID,
		"jti":       tokenID,
	}).Info("Token issued")
	return token, nil
}
