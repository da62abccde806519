package subscription

import (
	"context"

	domain "social-network-service/internal/domain/subscription"
	"social-network-service/internal/domain/user"
)

// Repository defines the persistence operations of the subscription ledger.
type Repository interface {
	// Create persists s unless the follower holds quota edges already or the pair exists.
	// It returns domain.ErrQuotaExceeded or domain.ErrAlreadySubscribed in those cases.
	Create(ctx context.Context, s *domain.Subscription, quota int) error
	// Delete returns domain.ErrNotSubscribed when the edge is absent.
	Delete(ctx context.Context, followerID, followeeID int64) error
	ListFollowees(ctx context.Context, followerID int64, filter domain.FolloweeFilter) ([]domain.Detailed, error)
	ListFollowers(ctx context.Context, followeeID int64) ([]domain.Detailed, error)
	FolloweeIDs(ctx context.Context, followerID int64, usernames []string) ([]int64, error)
	CountFollowees(ctx context.Context, userID int64) (int64, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
}

// UserDirectory resolves users. GetByID returns an error wrapping user.ErrNotFound for unknown ids.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}
