package service

import (
	"context"
	"errors"
	"go-account-api/logger"
	"go-account-api/model"
	"go-account-api/repository"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	users  repository.IUserRepository
	hasher PasswordHasher
	issuer Issuer
}

func NewAuthService(users repository.IUserRepository, hasher PasswordHasher, issuer Issuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, issuer: issuer}
}

// Authenticate returns the user named username when password matches.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.Password) {
		logger.Log.WithField("username", username).Info("Password mismatch on login")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates the request and issues a token pair for its device.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, now time.Time) (*model.User, *model.TokenPair, error) {
	user, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issuer.IssuePair(ctx, user, IssueOptions{
		DeviceID:    req.DeviceID,
		NotBefore:   req.NotBefore,
		CurrentTime: &now,
	})
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshTokens issues a new pair for a user already authenticated by a refresh token.
func (s *AuthService) RefreshTokens(ctx context.Context, user *model.User, deviceID string, now time.Time) (*model.TokenPair, error) {
	return s.issuer.IssuePair(ctx, user, IssueOptions{DeviceID: deviceID, CurrentTime: &now})
}

// RefreshAccessToken issues only a new access token; the refresh token stays valid.
func (s *AuthService) RefreshAccessToken(ctx context.Context, user *model.User, deviceID string, now time.Time) (string, error) {
	return s.issuer.IssueAccess(ctx, user, IssueOptions{DeviceID: deviceID, CurrentTime: &now})
}
