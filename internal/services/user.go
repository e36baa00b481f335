package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/noobsmoke/auth-service/internal/lib/sl"
	"github.com/noobsmoke/auth-service/internal/models"
	"github.com/noobsmoke/auth-service/internal/storage/repository"
)

// UserReader описывает чтение пользователей из базы данных.
type UserReader interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// Cache описывает кэш для выборок пользователей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

const usersCacheTTL = time.Minute

// UserService отдает текущего пользователя и список всех пользователей,
// используя кэш по схеме cache-aside.
type UserService struct {
	users UserReader
	cache Cache
	log   *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users UserReader, cache Cache, log *slog.Logger) *UserService {
	return &UserService{
		users: users,
		cache: cache,
		log:   log,
	}
}

// Me возвращает пользователя по имени из токена.
func (s *UserService) Me(ctx context.Context, username string) (*models.User, error) {
	const op = "services.Me"

	key := "user:" + username
	var cached models.User
	if s.cache != nil {
		if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
			s.log.Warn("cache read failed", sl.Err(err))
		} else if ok {
			return &cached, nil
		}
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err = s.cache.Set(ctx, key, user, usersCacheTTL); err != nil {
			s.log.Warn("cache write failed", sl.Err(err))
		}
	}
	return user, nil
}

// ListAll возвращает всех пользователей системы.
func (s *UserService) ListAll(ctx context.Context) ([]*models.User, error) {
	const op = "services.ListAll"

	const key = "users:all"
	var cached []*models.User
	if s.cache != nil {
		if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
			s.log.Warn("cache read failed", sl.Err(err))
		} else if ok {
			return cached, nil
		}
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err = s.cache.Set(ctx, key, users, usersCacheTTL); err != nil {
			s.log.Warn("cache write failed", sl.Err(err))
		}
	}
	return users, nil
}
