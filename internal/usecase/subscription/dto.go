package subscription

import domain "social-network-service/internal/domain/subscription"

// SubscribeRequest identifies the edge to create or remove.
type SubscribeRequest struct {
	FollowerID int64 `validate:"gt=0"`
	FolloweeID int64 `validate:"gt=0"`
}

// SubscribeResponse carries the created edge and a confirmation message.
type SubscribeResponse struct {
	Subscription domain.Subscription
	Message      string
}

// UnsubscribeResponse carries the confirmation message of a removed edge.
type UnsubscribeResponse struct {
	Message string
}

// Config holds the ledger limits.
type Config struct {
	// Quota is the maximum number of outgoing edges per follower.
	Quota int
	// MaxUsernames caps the usernames filter of followee listings.
	MaxUsernames int
}

// DefaultConfig returns the production limits.
func DefaultConfig() Config {
	return Config{Quota: 100, MaxUsernames: 10}
}
