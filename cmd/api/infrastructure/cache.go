package infrastructure

import (
	"fmt"
	"time"

	"social-network-service/internal/adapter/cache"
	"social-network-service/internal/config"
	"social-network-service/internal/usecase/ranking"
	redisclient "social-network-service/pkg/redis"

	"go.uber.org/zap"
)

// NewRedisClient creates a new Redis client with configuration
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	rdb, err := redisclient.NewClient(redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

// NewCaches builds the Redis caches. A zero TTL disables that cache (nil result).
func NewCaches(rdb *redisclient.Client, cfg *config.Config, l *zap.Logger) (cache.UserCache, ranking.Cache) {
	var (
		users    cache.UserCache
		rankings ranking.Cache
	)

	if cfg.Redis.CacheTTL > 0 {
		users = cache.NewRedisUserCache(rdb.Client, time.Duration(cfg.Redis.CacheTTL)*time.Second, l)
	}
	if cfg.Redis.RankingCacheTTL > 0 {
		rankings = cache.NewRedisRankingCache(rdb.Client, time.Duration(cfg.Redis.RankingCacheTTL)*time.Second, l)
	}

	l.Info("caches configured",
		zap.Int("user_ttl_seconds", cfg.Redis.CacheTTL),
		zap.Int("ranking_ttl_seconds", cfg.Redis.RankingCacheTTL),
	)

	return users, rankings
}
