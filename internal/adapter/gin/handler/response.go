package handler

import (
	"time"

	"social-network-service/internal/domain/interest"
	"social-network-service/internal/domain/post"
	"social-network-service/internal/domain/subscription"
	"social-network-service/internal/domain/user"
	"social-network-service/internal/usecase/feed"
)

// birthDateLayout renders birth dates without a time component
const birthDateLayout = "2006-01-02"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// UserRef is the short form of a user embedded in other resources
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Biography  string    `json:"biography"`
	BirthDate  *string   `json:"birth_date"`
	CountryID  *int64    `json:"country_id"`
	CityID     *int64    `json:"city_id"`
	DateJoined time.Time `json:"date_joined"`
}

// PostResponse represents the HTTP response for a post
type PostResponse struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Title      string     `json:"title"`
	Text       string     `json:"text"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt *time.Time `json:"modified_at"`
	ModifiedBy *int64     `json:"modified_by"`
}

// InterestResponse represents an interest tag
type InterestResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CountsResponse is the body of GET /my-profile-details
type CountsResponse struct {
	TotalPostsCount         int64 `json:"total_posts_count"`
	TotalSubscriptionsCount int64 `json:"total_subscriptions_count"`
	TotalSubscribersCount   int64 `json:"total_subscribers_count"`
}

// UserSummaryResponse is the detailed user view used by rankings and the user list
type UserSummaryResponse struct {
	UserResponse
	LatestPosts []PostResponse     `json:"latest_posts"`
	Interests   []InterestResponse `json:"interests"`
	CountsResponse
}

// SubscriptionResponse represents one follow edge
type SubscriptionResponse struct {
	ID        int64     `json:"id"`
	Follower  UserRef   `json:"follower"`
	Followee  UserRef   `json:"followee"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscribeResponse is the body of a successful subscribe
type SubscribeResponse struct {
	Message      string `json:"message"`
	Subscription struct {
		ID         int64     `json:"id"`
		FollowerID int64     `json:"follower_id"`
		FolloweeID int64     `json:"followee_id"`
		CreatedAt  time.Time `json:"created_at"`
	} `json:"subscription"`
}

// FeedItemResponse is a post tagged with its author
type FeedItemResponse struct {
	PostResponse
	Author UserRef `json:"author"`
}

// MySubscriptionsResponse is the body of GET /my-subscriptions
type MySubscriptionsResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
	Feed          []FeedItemResponse     `json:"feed"`
}

func toUserRef(u user.User) UserRef {
	return UserRef{ID: u.ID, Username: u.Username}
}

func toUserResponse(u user.User) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Biography:  u.Biography,
		CountryID:  u.CountryID,
		CityID:     u.CityID,
		DateJoined: u.DateJoined,
	}
	if u.BirthDate != nil {
		d := u.BirthDate.Format(birthDateLayout)
		resp.BirthDate = &d
	}
	return resp
}

func toPostResponse(p post.Post) PostResponse {
	return PostResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Title:      p.Title,
		Text:       p.Text,
		CreatedAt:  p.CreatedAt,
		ModifiedAt: p.ModifiedAt,
		ModifiedBy: p.ModifiedBy,
	}
}

func toPostResponses(posts []post.Post) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i, p := range posts {
		out[i] = toPostResponse(p)
	}
	return out
}

func toCountsResponse(c user.Counts) CountsResponse {
	return CountsResponse{
		TotalPostsCount:         c.Posts,
		TotalSubscriptionsCount: c.Subscriptions,
		TotalSubscribersCount:   c.Subscribers,
	}
}

func toInterestResponses(interests []interest.Interest) []InterestResponse {
	out := make([]InterestResponse, len(interests))
	for i, in := range interests {
		out[i] = InterestResponse{ID: in.ID, Name: in.Name}
	}
	return out
}

func toSummaryResponse(s user.Summary) UserSummaryResponse {
	return UserSummaryResponse{
		UserResponse:   toUserResponse(s.User),
		LatestPosts:    toPostResponses(s.LatestPosts),
		Interests:      toInterestResponses(s.Interests),
		CountsResponse: toCountsResponse(s.Counts),
	}
}

func toSummaryResponses(summaries []user.Summary) []UserSummaryResponse {
	out := make([]UserSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = toSummaryResponse(s)
	}
	return out
}

func toSubscriptionResponses(subs []subscription.Detailed) []SubscriptionResponse {
	out := make([]SubscriptionResponse, len(subs))
	for i, s := range subs {
		out[i] = SubscriptionResponse{
			ID:        s.ID,
			Follower:  toUserRef(s.Follower),
			Followee:  toUserRef(s.Followee),
			CreatedAt: s.CreatedAt,
		}
	}
	return out
}

func toFeedResponses(items []feed.Item) []FeedItemResponse {
	out := make([]FeedItemResponse, len(items))
	for i, item := range items {
		out[i] = FeedItemResponse{
			PostResponse: toPostResponse(item.Post),
			Author:       toUserRef(item.Author),
		}
	}
	return out
}
