package handler

import (
	"context"
	"net/http"

	domain "social-network-service/internal/domain/subscription"
	"social-network-service/internal/domain/user"
	"social-network-service/internal/usecase/feed"
	"social-network-service/internal/usecase/query"
	"social-network-service/internal/usecase/ranking"
	"social-network-service/internal/usecase/subscription"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubscriptionService is the subscription ledger as seen by the handler
type SubscriptionService interface {
	Subscribe(ctx context.Context, in subscription.SubscribeRequest) (*subscription.SubscribeResponse, error)
	Unsubscribe(ctx context.Context, in subscription.SubscribeRequest) (*subscription.UnsubscribeResponse, error)
	ListFollowees(ctx context.Context, followerID int64, params query.Params) ([]domain.Detailed, error)
	ListFollowers(ctx context.Context, followeeID int64) ([]domain.Detailed, error)
}

// FeedService builds a follower's feed
type FeedService interface {
	GetFeed(ctx context.Context, followerID int64, params query.Params) ([]feed.Item, error)
}

// ProfileService serves counts and user summaries
type ProfileService interface {
	ProfileDetails(ctx context.Context, userID int64) (*user.Counts, error)
	ListUsers(ctx context.Context, viewerID int64) ([]user.Summary, error)
	MyProfile(ctx context.Context, userID int64) (*user.Summary, error)
}

// RankingService ranks users by activity
type RankingService interface {
	TopNUsers(ctx context.Context, n int, excludeStaff bool) ([]user.Summary, error)
}

// SocialHandler handles HTTP requests for subscriptions, feeds, profiles and rankings
type SocialHandler struct {
	subscriptions SubscriptionService
	feed          FeedService
	profiles      ProfileService
	ranking       RankingService
	topN          int
	log           *zap.Logger
}

// NewSocialHandler creates a new SocialHandler. topN is the size of the top users page;
// zero or less means ranking.DefaultN.
func NewSocialHandler(
	subscriptions SubscriptionService,
	feed FeedService,
	profiles ProfileService,
	rankingSvc RankingService,
	topN int,
	log *zap.Logger,
) *SocialHandler {
	if topN <= 0 {
		topN = ranking.DefaultN
	}
	return &SocialHandler{
		subscriptions: subscriptions,
		feed:          feed,
		profiles:      profiles,
		ranking:       rankingSvc,
		topN:          topN,
		log:           log,
	}
}

// Subscribe handles POST /subscriptions/:followee_id
func (h *SocialHandler) Subscribe(c *gin.Context) {
	followerID, ok := callerID(c, h.log)
	if !ok {
		return
	}
	followeeID, ok := idParam(c, h.log, "followee_id")
	if !ok {
		return
	}

	resp, err := h.subscriptions.Subscribe(c.Request.Context(), subscription.SubscribeRequest{
		FollowerID: followerID,
		FolloweeID: followeeID,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	var body SubscribeResponse
	body.Message = resp.Message
	body.Subscription.ID = resp.Subscription.ID
	body.Subscription.FollowerID = resp.Subscription.FollowerID
	body.Subscription.FolloweeID = resp.Subscription.FolloweeID
	body.Subscription.CreatedAt = resp.Subscription.CreatedAt

	c.JSON(http.StatusCreated, body)
}

// Unsubscribe handles DELETE /subscriptions/:followee_id
func (h *SocialHandler) Unsubscribe(c *gin.Context) {
	followerID, ok := callerID(c, h.log)
	if !ok {
		return
	}
	followeeID, ok := idParam(c, h.log, "followee_id")
	if !ok {
		return
	}

	resp, err := h.subscriptions.Unsubscribe(c.Request.Context(), subscription.SubscribeRequest{
		FollowerID: followerID,
		FolloweeID: followeeID,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: resp.Message})
}

// MySubscriptions handles GET /my-subscriptions.
// The same filters narrow both the followee list and the feed.
func (h *SocialHandler) MySubscriptions(c *gin.Context) {
	followerID, ok := callerID(c, h.log)
	if !ok {
		return
	}
	params := queryParams(c)

	subs, err := h.subscriptions.ListFollowees(c.Request.Context(), followerID, params)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	items, err := h.feed.GetFeed(c.Request.Context(), followerID, params)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, MySubscriptionsResponse{
		Subscriptions: toSubscriptionResponses(subs),
		Feed:          toFeedResponses(items),
	})
}

// MySubscribers handles GET /my-subscribers
func (h *SocialHandler) MySubscribers(c *gin.Context) {
	userID, ok := callerID(c, h.log)
	if !ok {
		return
	}

	subs, err := h.subscriptions.ListFollowers(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toSubscriptionResponses(subs))
}

// MyProfile handles GET /my-profile
func (h *SocialHandler) MyProfile(c *gin.Context) {
	userID, ok := callerID(c, h.log)
	if !ok {
		return
	}

	summary, err := h.profiles.MyProfile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toSummaryResponse(*summary))
}

// MyProfileDetails handles GET /my-profile-details
func (h *SocialHandler) MyProfileDetails(c *gin.Context) {
	userID, ok := callerID(c, h.log)
	if !ok {
		return
	}

	counts, err := h.profiles.ProfileDetails(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toCountsResponse(*counts))
}

// TopUsers handles GET /top-twenty-users
func (h *SocialHandler) TopUsers(c *gin.Context) {
	summaries, err := h.ranking.TopNUsers(c.Request.Context(), h.topN, true)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toSummaryResponses(summaries))
}

// ListUsers handles GET /users
func (h *SocialHandler) ListUsers(c *gin.Context) {
	viewerID, ok := callerID(c, h.log)
	if !ok {
		return
	}

	summaries, err := h.profiles.ListUsers(c.Request.Context(), viewerID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toSummaryResponses(summaries))
}
