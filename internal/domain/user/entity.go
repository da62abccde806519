package user

import (
	"errors"
	"time"

	"social-network-service/internal/domain/interest"
	"social-network-service/internal/domain/post"
)

// ErrNotFound is returned by the user directory when an id or username does not resolve.
var ErrNotFound = errors.New("user not found")

// User represents a member of the network as held by the user directory.
type User struct {
	ID         int64
	Username   string
	FirstName  string
	LastName   string
	Email      string
	Biography  string
	BirthDate  *time.Time
	CountryID  *int64
	CityID     *int64
	IsStaff    bool
	DateJoined time.Time
}

// Stats pairs a user with the activity counts used for ranking.
type Stats struct {
	User             User
	PostsCount       int64
	SubscribersCount int64
}

// Counts is the aggregate activity of one user.
type Counts struct {
	Posts         int64
	Subscriptions int64
	Subscribers   int64
}

// Summary is the detailed view of a user: profile, recent posts, interests and counts.
type Summary struct {
	User        User
	LatestPosts []post.Post
	Interests   []interest.Interest
	Counts      Counts
}
