package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"staffhub/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheRepository handles Redis-backed caching and login-attempt counters.
type CacheRepository interface {
	CacheUser(ctx context.Context, user *models.User) error
	GetCachedUser(ctx context.Context, username string) (*models.User, error)
	InvalidateUser(ctx context.Context, username string) error

	IncrementLoginAttempts(ctx context.Context, username string) (int64, error)
	ResetLoginAttempts(ctx context.Context, username string) error
}

type cacheRepository struct {
	client     *redis.Client
	expiration time.Duration
}

func NewCacheRepository(client *redis.Client) CacheRepository {
	return &cacheRepository{
		client:     client,
		expiration: 5 * time.Minute,
	}
}

func (r *cacheRepository) CacheUser(ctx context.Context, user *models.User) error {
	if user.Username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	key := r.getUserKey(user.Username)
	if err := r.client.Set(ctx, key, data, r.expiration).Err(); err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}

	return nil
}

func (r *cacheRepository) GetCachedUser(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	key := r.getUserKey(username)
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("user not cached")
		}
		return nil, fmt.Errorf("failed to get cached user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user: %w", err)
	}

	return &user, nil
}

func (r *cacheRepository) InvalidateUser(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if err := r.client.Del(ctx, r.getUserKey(username)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached user: %w", err)
	}

	return nil
}

func (r *cacheRepository) IncrementLoginAttempts(ctx context.Context, username string) (int64, error) {
	if username == "" {
		return 0, fmt.Errorf("username cannot be empty")
	}

	key := r.getAttemptsKey(username)

	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 24*time.Hour)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment login attempts: %w", err)
	}

	return incr.Val(), nil
}

func (r *cacheRepository) ResetLoginAttempts(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if err := r.client.Del(ctx, r.getAttemptsKey(username)).Err(); err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}

	return nil
}

func (r *cacheRepository) getUserKey(username string) string {
	return fmt.Sprintf("user:%s", username)
}

func (r *cacheRepository) getAttemptsKey(username string) string {
	return fmt.Sprintf("login_attempts:%s", username)
}
