package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"social-network-service/internal/domain/subscription"
	"social-network-service/internal/domain/user"
)

// SubscriptionRepoPG persists follow edges.
type SubscriptionRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewSubscriptionRepoPG creates a new instance of SubscriptionRepoPG.
func NewSubscriptionRepoPG(db *gorm.DB, log *zap.Logger) *SubscriptionRepoPG {
	return &SubscriptionRepoPG{db: db, log: log}
}

// Create inserts the edge s unless the follower already holds quota edges or the pair exists.
// The check and the insert run in one transaction; on PostgreSQL the transaction holds an
// advisory lock on the follower id so concurrent subscribes by the same follower serialize.
// On success s.ID is set.
func (r *SubscriptionRepoPG) Create(ctx context.Context, s *subscription.Subscription, quota int) error {
	if s == nil {
		return errors.New("subscription cannot be nil")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", s.FollowerID).Error; err != nil {
				return fmt.Errorf("failed to lock follower: %w", err)
			}
		}

		var count int64
		if err := tx.Model(&SubscriptionSchema{}).Where("follower_id = ?", s.FollowerID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count subscriptions: %w", err)
		}
		if count >= int64(quota) {
			return subscription.ErrQuotaExceeded
		}

		var existing int64
		err := tx.Model(&SubscriptionSchema{}).
			Where("follower_id = ? AND followee_id = ?", s.FollowerID, s.FolloweeID).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to check subscription: %w", err)
		}
		if existing > 0 {
			return subscription.ErrAlreadySubscribed
		}

		model := SubscriptionSchema{
			FollowerID: s.FollowerID,
			FolloweeID: s.FolloweeID,
			CreatedAt:  s.CreatedAt.UTC(),
		}
		if err := tx.Create(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return subscription.ErrAlreadySubscribed
			}
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		s.ID = model.ID
		return nil
	})
	if err != nil {
		if !errors.Is(err, subscription.ErrQuotaExceeded) && !errors.Is(err, subscription.ErrAlreadySubscribed) {
			r.log.Error("failed to subscribe", zap.Error(err),
				zap.Int64("follower_id", s.FollowerID), zap.Int64("followee_id", s.FolloweeID))
		}
		return err
	}

	r.log.Info("subscription created in db", zap.Int64("id", s.ID))
	return nil
}

// Delete removes the edge between follower and followee.
// It returns subscription.ErrNotSubscribed when there is no such edge.
func (r *SubscriptionRepoPG) Delete(ctx context.Context, followerID, followeeID int64) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&SubscriptionSchema{})
	if res.Error != nil {
		r.log.Error("failed to delete subscription", zap.Error(res.Error),
			zap.Int64("follower_id", followerID), zap.Int64("followee_id", followeeID))
		return fmt.Errorf("failed to delete subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return subscription.ErrNotSubscribed
	}

	return nil
}

// ListFollowees returns the follower's outgoing edges joined with both users,
// newest first with ties broken by edge id ascending.
func (r *SubscriptionRepoPG) ListFollowees(ctx context.Context, followerID int64, filter subscription.FolloweeFilter) ([]subscription.Detailed, error) {
	q := r.db.WithContext(ctx).Model(&SubscriptionSchema{}).Where("subscriptions.follower_id = ?", followerID)

	if len(filter.Usernames) > 0 {
		q = q.Joins("JOIN users AS fu ON fu.id = subscriptions.followee_id").
			Where("fu.username IN ?", filter.Usernames)
	}

	if !filter.Posts.IsZero() {
		matching := applyCriteria(
			r.db.Model(&PostSchema{}).Select("1").Where("posts.user_id = subscriptions.followee_id"),
			filter.Posts,
		)
		q = q.Where("EXISTS (?)", matching)
	}

	var models []SubscriptionSchema
	if err := q.Order("subscriptions.created_at DESC, subscriptions.id ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list followees", zap.Error(err), zap.Int64("follower_id", followerID))
		return nil, fmt.Errorf("failed to list followees: %w", err)
	}

	return r.withUsers(ctx, models)
}

// ListFollowers returns the followee's incoming edges joined with both users,
// newest first with ties broken by edge id ascending.
func (r *SubscriptionRepoPG) ListFollowers(ctx context.Context, followeeID int64) ([]subscription.Detailed, error) {
	var models []SubscriptionSchema
	err := r.db.WithContext(ctx).
		Where("followee_id = ?", followeeID).
		Order("created_at DESC, id ASC").
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list followers", zap.Error(err), zap.Int64("followee_id", followeeID))
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}

	return r.withUsers(ctx, models)
}

// FolloweeIDs returns the ids the follower subscribes to, optionally only those with the given usernames.
func (r *SubscriptionRepoPG) FolloweeIDs(ctx context.Context, followerID int64, usernames []string) ([]int64, error) {
	q := r.db.WithContext(ctx).Model(&SubscriptionSchema{}).Where("subscriptions.follower_id = ?", followerID)
	if len(usernames) > 0 {
		q = q.Joins("JOIN users AS fu ON fu.id = subscriptions.followee_id").
			Where("fu.username IN ?", usernames)
	}

	ids := []int64{}
	if err := q.Order("subscriptions.followee_id ASC").Pluck("subscriptions.followee_id", &ids).Error; err != nil {
		r.log.Error("failed to get followee ids", zap.Error(err), zap.Int64("follower_id", followerID))
		return nil, fmt.Errorf("failed to get followee ids: %w", err)
	}

	return ids, nil
}

// CountFollowees returns how many users the given user follows.
func (r *SubscriptionRepoPG) CountFollowees(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, "follower_id", userID)
}

// CountFollowers returns how many users follow the given user.
func (r *SubscriptionRepoPG) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, "followee_id", userID)
}

func (r *SubscriptionRepoPG) count(ctx context.Context, column string, userID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&SubscriptionSchema{}).Where(column+" = ?", userID).Count(&count).Error; err != nil {
		r.log.Error("failed to count subscriptions", zap.Error(err), zap.String("column", column), zap.Int64("user_id", userID))
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}

// withUsers resolves both endpoints of every edge in a single query.
func (r *SubscriptionRepoPG) withUsers(ctx context.Context, models []SubscriptionSchema) ([]subscription.Detailed, error) {
	if len(models) == 0 {
		return []subscription.Detailed{}, nil
	}

	seen := make(map[int64]struct{}, len(models)*2)
	ids := make([]int64, 0, len(models)*2)
	for _, m := range models {
		for _, id := range []int64{m.FollowerID, m.FolloweeID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	var users []UserSchema
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		r.log.Error("failed to load subscription users", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("failed to load subscription users: %w", err)
	}

	byID := make(map[int64]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u.toDomain()
	}

	result := make([]subscription.Detailed, len(models))
	for i, m := range models {
		result[i] = subscription.Detailed{
			Subscription: m.toDomain(),
			Follower:     byID[m.FollowerID],
			Followee:     byID[m.FolloweeID],
		}
	}

	return result, nil
}
