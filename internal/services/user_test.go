package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/noobsmoke/auth-service/internal/models"
	"github.com/noobsmoke/auth-service/internal/services"
	"github.com/noobsmoke/auth-service/internal/storage/repository"
)

type UserReaderMock struct {
	mock.Mock
}

func (m *UserReaderMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserReaderMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestUserService_Me(t *testing.T) {
	alice := &models.User{UID: "uid-1", Username: "alice", Email: "alice@x.com", Enabled: true}

	t.Run("cache miss falls back to repository and fills cache", func(t *testing.T) {
		reader := new(UserReaderMock)
		cache := new(CacheMock)
		svc := services.NewUserService(reader, cache, noopLogger())

		cache.On("Get", mock.Anything, "user:alice", mock.Anything).Return(false, nil).Once()
		reader.On("GetUserByUsername", mock.Anything, "alice").Return(alice, nil).Once()
		cache.On("Set", mock.Anything, "user:alice", alice, mock.Anything).Return(nil).Once()

		got, err := svc.Me(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, alice, got)

		reader.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("unknown user maps to ErrUserNotFound", func(t *testing.T) {
		reader := new(UserReaderMock)
		cache := new(CacheMock)
		svc := services.NewUserService(reader, cache, noopLogger())

		cache.On("Get", mock.Anything, "user:ghost", mock.Anything).Return(false, nil).Once()
		reader.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Me(context.Background(), "ghost")
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})

	t.Run("cache error is not fatal", func(t *testing.T) {
		reader := new(UserReaderMock)
		cache := new(CacheMock)
		svc := services.NewUserService(reader, cache, noopLogger())

		cache.On("Get", mock.Anything, "user:alice", mock.Anything).Return(false, errors.New("redis down")).Once()
		reader.On("GetUserByUsername", mock.Anything, "alice").Return(alice, nil).Once()
		cache.On("Set", mock.Anything, "user:alice", alice, mock.Anything).Return(errors.New("redis down")).Once()

		got, err := svc.Me(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, alice, got)
	})
}

func TestUserService_ListAll(t *testing.T) {
	all := []*models.User{
		{UID: "uid-1", Username: "alice", Enabled: true},
		{UID: "uid-2", Username: "bob", Enabled: false},
	}

	t.Run("cache miss lists from repository", func(t *testing.T) {
		reader := new(UserReaderMock)
		cache := new(CacheMock)
		svc := services.NewUserService(reader, cache, noopLogger())

		cache.On("Get", mock.Anything, "users:all", mock.Anything).Return(false, nil).Once()
		reader.On("ListUsers", mock.Anything).Return(all, nil).Once()
		cache.On("Set", mock.Anything, "users:all", all, mock.Anything).Return(nil).Once()

		got, err := svc.ListAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)

		reader.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		reader := new(UserReaderMock)
		cache := new(CacheMock)
		svc := services.NewUserService(reader, cache, noopLogger())

		cache.On("Get", mock.Anything, "users:all", mock.Anything).Return(false, nil).Once()
		reader.On("ListUsers", mock.Anything).Return(nil, errors.New("db error")).Once()

		_, err := svc.ListAll(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "db error")
	})
}
