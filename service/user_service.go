package service

import (
	"context"
	"encoding/json"
	"errors"
	"go-account-api/logger"
	"go-account-api/model"
	"go-account-api/repository"
	"time"

	"github.com/google/uuid"
)

const usersCacheKey = "users:all"

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
)

type UserService struct {
	repo   repository.IUserRepository
	hasher PasswordHasher
	cache  ICacheClient
	ttl    time.Duration
}

func NewUserService(repo repository.IUserRepository, hasher PasswordHasher, cache ICacheClient, ttl time.Duration) *UserService {
	if cache == nil {
		cache = NopCache{}
	}
	return &UserService{repo: repo, hasher: hasher, cache: cache, ttl: ttl}
}

// Register creates a new active user after checking that neither the
// username nor the email is taken.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	s.invalidate(ctx)
	return user, nil
}

// ListUsers serves the user listing from the cache when possible.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	cached, err := s.cache.Get(ctx, usersCacheKey).Result()
	if err == nil {
		var users []*model.User
		if err := json.Unmarshal([]byte(cached), &users); err == nil {
			return users, nil
		}
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(users); err == nil {
		if err := s.cache.Set(ctx, usersCacheKey, data, s.ttl).Err(); err != nil {
			logger.Log.WithError(err).Warn("Failed to cache user list")
		}
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// DeleteUser removes the user together with all of its assigned tokens.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *UserService) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, usersCacheKey).Err(); err != nil {
		logger.Log.WithError(err).Warn("Failed to invalidate user list cache")
	}
}
