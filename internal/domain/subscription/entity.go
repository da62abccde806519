package subscription

import (
	"errors"
	"time"

	"social-network-service/internal/domain/post"
	"social-network-service/internal/domain/user"
)

// Sentinel errors reported by the subscription store.
var (
	ErrQuotaExceeded     = errors.New("subscription quota exceeded")
	ErrAlreadySubscribed = errors.New("subscription already exists")
	ErrNotSubscribed     = errors.New("subscription does not exist")
)

// Subscription is a directed follow edge from Follower to Followee.
type Subscription struct {
	ID         int64
	FollowerID int64
	FolloweeID int64
	CreatedAt  time.Time
}

// Detailed is an edge joined with both endpoints.
type Detailed struct {
	Subscription
	Follower user.User
	Followee user.User
}

// FolloweeFilter restricts a followee listing.
// Usernames keeps only followees with those usernames; Posts keeps only followees
// having at least one post matching the criteria.
type FolloweeFilter struct {
	Usernames []string
	Posts     post.Criteria
}
