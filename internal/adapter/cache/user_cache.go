package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "social-network-service/internal/domain/user"
)

// UserCache defines the interface for user caching operations.
type UserCache interface {
	// Get returns nil without error on a miss.
	Get(ctx context.Context, id int64) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, ids ...int64) error
}

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	store *jsonStore
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisUserCache {
	return &RedisUserCache{
		store: &jsonStore{client: client, prefix: "user", ttl: ttl, log: log},
	}
}

func (c *RedisUserCache) cacheKey(id int64) string {
	return c.store.key(strconv.FormatInt(id, 10))
}

// Get retrieves a user from Redis cache.
func (c *RedisUserCache) Get(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	found, err := c.store.get(ctx, c.cacheKey(id), &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

// Set stores a user in Redis cache with TTL.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	return c.store.set(ctx, c.cacheKey(user.ID), user)
}

// Delete removes users from Redis cache.
func (c *RedisUserCache) Delete(ctx context.Context, ids ...int64) error {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.cacheKey(id)
	}
	return c.store.del(ctx, keys...)
}
