// file: service/mocks_test.go

package service

import (
	"context"
	"go-account-api/model"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ListUsers(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *mockUserRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) DeactivateByDevice(ctx context.Context, kind model.TokenKind, userID uuid.UUID, deviceID string) error {
	args := m.Called(ctx, kind, userID, deviceID)
	return args.Error(0)
}

func (m *mockTokenRepo) Insert(ctx context.Context, kind model.TokenKind, token *model.AssignedToken) error {
	args := m.Called(ctx, kind, token)
	return args.Error(0)
}

func (m *mockTokenRepo) RotateDeviceToken(ctx context.Context, kind model.TokenKind, token *model.AssignedToken) error {
	args := m.Called(ctx, kind, token)
	return args.Error(0)
}

func (m *mockTokenRepo) FindActiveByTokenID(ctx context.Context, kind model.TokenKind, tokenID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, kind, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type mockIssuer struct{ mock.Mock }

func (m *mockIssuer) IssuePair(ctx context.Context, user *model.User, opts IssueOptions) (*model.TokenPair, error) {
	args := m.Called(ctx, user, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenPair), args.Error(1)
}

func (m *mockIssuer) IssueAccess(ctx context.Context, user *model.User, opts IssueOptions) (string, error) {
	args := m.Called(ctx, user, opts)
	return args.String(0), args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *mockCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*redis.IntCmd)
}
