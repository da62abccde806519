package cached

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"social-network-service/internal/adapter/cache"
	domain "social-network-service/internal/domain/user"
)

// UserStore is the persistent user directory being cached.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error)
	ListNonStaff(ctx context.Context, excludeID int64) ([]domain.User, error)
	TopByPosts(ctx context.Context, n int, excludeStaff bool) ([]domain.Stats, error)
}

// UserRepository wraps a UserStore with a cache-aside layer on single-user lookups.
// Listings always hit the store.
type UserRepository struct {
	store UserStore
	cache cache.UserCache
	log   *zap.Logger
	group singleflight.Group
}

// NewUserRepository creates a new cached user repository. cache may be nil.
func NewUserRepository(store UserStore, cache cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{
		store: store,
		cache: cache,
		log:   log,
	}
}

// Create delegates to the store.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	id, err := r.store.Create(ctx, u)
	if err != nil {
		return 0, err
	}

	// Drop anything left under a reused id
	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate user cache", zap.Int64("user_id", id), zap.Error(err))
		}
	}
	return id, nil
}

// GetByID retrieves a user by id using the cache-aside pattern.
// Concurrent misses for the same id share one store query.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u := r.fromCache(ctx, id); u != nil {
		return u, nil
	}

	result, err, shared := r.group.Do(strconv.FormatInt(id, 10), func() (any, error) {
		// Another caller may have filled the cache while we waited
		if u := r.fromCache(ctx, id); u != nil {
			return u, nil
		}

		u, err := r.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
			}
		}

		return u, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		r.log.Debug("user lookup shared", zap.Int64("id", id))
	}

	// Callers get their own copy; the shared value must not be mutated
	u := *result.(*domain.User)
	return &u, nil
}

// GetByIDs serves cached users and loads the rest from the store in one query.
// Results are ordered by id.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	if r.cache == nil {
		return r.store.GetByIDs(ctx, ids)
	}

	hits := make(map[int64]domain.User, len(ids))
	missing := make([]int64, 0, len(ids))
	for _, id := range ids {
		if u := r.fromCache(ctx, id); u != nil {
			hits[id] = *u
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		loaded, err := r.store.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for i := range loaded {
			hits[loaded[i].ID] = loaded[i]
			if err := r.cache.Set(ctx, &loaded[i]); err != nil {
				r.log.Warn("failed to cache user", zap.Int64("id", loaded[i].ID), zap.Error(err))
			}
		}
	}

	users := make([]domain.User, 0, len(hits))
	for _, u := range hits {
		users = append(users, u)
	}
	sortByID(users)

	return users, nil
}

// ListNonStaff delegates to the store.
func (r *UserRepository) ListNonStaff(ctx context.Context, excludeID int64) ([]domain.User, error) {
	return r.store.ListNonStaff(ctx, excludeID)
}

// TopByPosts delegates to the store.
func (r *UserRepository) TopByPosts(ctx context.Context, n int, excludeStaff bool) ([]domain.Stats, error) {
	return r.store.TopByPosts(ctx, n, excludeStaff)
}

func (r *UserRepository) fromCache(ctx context.Context, id int64) *domain.User {
	if r.cache == nil {
		return nil
	}

	u, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		return nil
	}
	return u
}
