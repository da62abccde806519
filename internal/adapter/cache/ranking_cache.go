package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "social-network-service/internal/domain/user"
)

// RedisRankingCache keeps computed top-N rankings for a short TTL.
type RedisRankingCache struct {
	store *jsonStore
}

// NewRedisRankingCache creates a new Redis-backed ranking cache.
func NewRedisRankingCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisRankingCache {
	return &RedisRankingCache{
		store: &jsonStore{client: client, prefix: "ranking", ttl: ttl, log: log},
	}
}

func (c *RedisRankingCache) cacheKey(n int, excludeStaff bool) string {
	return c.store.key(fmt.Sprintf("top:%d:staff=%t", n, !excludeStaff))
}

// Get returns the cached ranking for (n, excludeStaff).
func (c *RedisRankingCache) Get(ctx context.Context, n int, excludeStaff bool) ([]domain.Summary, bool, error) {
	var summaries []domain.Summary
	found, err := c.store.get(ctx, c.cacheKey(n, excludeStaff), &summaries)
	if err != nil || !found {
		return nil, false, err
	}
	return summaries, true, nil
}

// Set stores the ranking for (n, excludeStaff).
func (c *RedisRankingCache) Set(ctx context.Context, n int, excludeStaff bool, summaries []domain.Summary) error {
	return c.store.set(ctx, c.cacheKey(n, excludeStaff), summaries)
}
