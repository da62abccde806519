// Package profile builds user summaries: activity counts, recent posts and interests.
package profile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"social-network-service/internal/domain/interest"
	"social-network-service/internal/domain/post"
	"social-network-service/internal/domain/user"
	pkgerrors "social-network-service/pkg/errors"
)

const (
	// LatestPostsLimit is how many recent posts a detailed summary carries.
	LatestPostsLimit = 5

	summaryConcurrency = 4
)

// UserDirectory looks up and lists users.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	ListNonStaff(ctx context.Context, excludeID int64) ([]user.User, error)
}

// PostStore exposes per-author post reads.
type PostStore interface {
	LatestByAuthor(ctx context.Context, authorID int64, limit int) ([]post.Post, error)
	CountByAuthor(ctx context.Context, authorID int64) (int64, error)
}

// SubscriptionCounter counts edges in both directions.
type SubscriptionCounter interface {
	CountFollowees(ctx context.Context, userID int64) (int64, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
}

// InterestStore lists a user's interests.
type InterestStore interface {
	ListByUser(ctx context.Context, userID int64) ([]interest.Interest, error)
}

// Usecase implements profile summaries.
type Usecase struct {
	users         UserDirectory
	posts         PostStore
	subscriptions SubscriptionCounter
	interests     InterestStore
	log           *zap.Logger
}

// New creates a new profile usecase.
func New(users UserDirectory, posts PostStore, subscriptions SubscriptionCounter, interests InterestStore, log *zap.Logger) *Usecase {
	return &Usecase{
		users:         users,
		posts:         posts,
		subscriptions: subscriptions,
		interests:     interests,
		log:           log,
	}
}

// ProfileDetails returns the post, subscription and subscriber totals of userID.
func (uc *Usecase) ProfileDetails(ctx context.Context, userID int64) (*user.Counts, error) {
	var counts user.Counts
	var err error

	if counts.Posts, err = uc.posts.CountByAuthor(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}
	if counts.Subscriptions, err = uc.subscriptions.CountFollowees(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	if counts.Subscribers, err = uc.subscriptions.CountFollowers(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}

	return &counts, nil
}

// Summarize builds the detailed summary of one user.
func (uc *Usecase) Summarize(ctx context.Context, u user.User) (*user.Summary, error) {
	counts, err := uc.ProfileDetails(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	latest, err := uc.posts.LatestByAuthor(ctx, u.ID, LatestPostsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest posts: %w", err)
	}

	interests, err := uc.interests.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}

	return &user.Summary{
		User:        u,
		LatestPosts: latest,
		Interests:   interests,
		Counts:      *counts,
	}, nil
}

// SummarizeAll summarizes users concurrently and keeps their order.
func (uc *Usecase) SummarizeAll(ctx context.Context, users []user.User) ([]user.Summary, error) {
	summaries := make([]user.Summary, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryConcurrency)

	for i, u := range users {
		g.Go(func() error {
			s, err := uc.Summarize(gctx, u)
			if err != nil {
				return fmt.Errorf("user %d: %w", u.ID, err)
			}
			summaries[i] = *s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uc.log.Error("failed to summarize users", zap.Int("count", len(users)), zap.Error(err))
		return nil, err
	}

	return summaries, nil
}

// ListUsers returns detailed summaries of every non-staff user other than the viewer.
func (uc *Usecase) ListUsers(ctx context.Context, viewerID int64) ([]user.Summary, error) {
	users, err := uc.users.ListNonStaff(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return uc.SummarizeAll(ctx, users)
}

// MyProfile returns the detailed summary of the caller.
func (uc *Usecase) MyProfile(ctx context.Context, userID int64) (*user.Summary, error) {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user %d not found", userID))
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return uc.Summarize(ctx, *u)
}
