// Package cache holds the Redis-backed caches of users and rankings.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// jsonStore reads and writes JSON values under a key prefix.
type jsonStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

func (s *jsonStore) key(suffix string) string {
	return s.prefix + ":" + suffix
}

// get decodes the value at key into dst. found is false on a miss.
func (s *jsonStore) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.log.Debug("cache miss", zap.String("key", key))
		return false, nil
	}
	if err != nil {
		s.log.Error("failed to get from cache", zap.String("key", key), zap.Error(err))
		return false, err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Error("failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false, err
	}

	s.log.Debug("cache hit", zap.String("key", key))
	return true, nil
}

func (s *jsonStore) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.log.Error("failed to set cache", zap.String("key", key), zap.Error(err))
		return err
	}

	s.log.Debug("cached value", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *jsonStore) del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.log.Error("failed to delete from cache", zap.Strings("keys", keys), zap.Error(err))
		return err
	}
	return nil
}
