// Package feed aggregates the posts of a follower's followees.
package feed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"social-network-service/internal/domain/post"
	"social-network-service/internal/domain/user"
	"social-network-service/internal/usecase/query"
	"social-network-service/pkg/logger"
)

// FolloweeResolver lists whom a follower subscribes to.
type FolloweeResolver interface {
	FolloweeIDs(ctx context.Context, followerID int64, usernames []string) ([]int64, error)
}

// PostStore lists posts by author set and criteria, newest first.
type PostStore interface {
	List(ctx context.Context, filter post.Filter) ([]post.Post, error)
}

// UserDirectory resolves post authors.
type UserDirectory interface {
	GetByIDs(ctx context.Context, ids []int64) ([]user.User, error)
}

// Item is one feed entry tagged with its author.
type Item struct {
	Post   post.Post
	Author user.User
}

// Usecase builds feeds.
type Usecase struct {
	followees    FolloweeResolver
	posts        PostStore
	users        UserDirectory
	maxUsernames int
	log          *zap.Logger
}

// New creates a feed usecase. maxUsernames caps the optional usernames filter.
func New(followees FolloweeResolver, posts PostStore, users UserDirectory, maxUsernames int, log *zap.Logger) *Usecase {
	return &Usecase{
		followees:    followees,
		posts:        posts,
		users:        users,
		maxUsernames: maxUsernames,
		log:          log,
	}
}

// GetFeed returns the posts of every followee of followerID matching params,
// newest first. A follower with no followees gets an empty feed.
func (uc *Usecase) GetFeed(ctx context.Context, followerID int64, params query.Params) ([]Item, error) {
	parsed, err := query.Parse(params, uc.maxUsernames)
	if err != nil {
		return nil, err
	}

	ids, err := uc.followees.FolloweeIDs(ctx, followerID, parsed.Usernames)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve followees: %w", err)
	}
	if len(ids) == 0 {
		return []Item{}, nil
	}

	posts, err := uc.posts.List(ctx, post.Filter{AuthorIDs: ids, Criteria: parsed.Criteria})
	if err != nil {
		return nil, fmt.Errorf("failed to list feed posts: %w", err)
	}
	if len(posts) == 0 {
		return []Item{}, nil
	}

	authors, err := uc.authors(ctx, posts)
	if err != nil {
		return nil, err
	}

	items := make([]Item, len(posts))
	for i, p := range posts {
		items[i] = Item{Post: p, Author: authors[p.UserID]}
	}

	logger.WithContext(ctx, uc.log).Debug("feed built",
		zap.Int64("follower_id", followerID),
		zap.Int("followees", len(ids)),
		zap.Int("posts", len(items)),
	)

	return items, nil
}

func (uc *Usecase) authors(ctx context.Context, posts []post.Post) (map[int64]user.User, error) {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, p := range posts {
		if _, ok := seen[p.UserID]; !ok {
			seen[p.UserID] = struct{}{}
			ids = append(ids, p.UserID)
		}
	}

	users, err := uc.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve post authors: %w", err)
	}

	byID := make(map[int64]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}
