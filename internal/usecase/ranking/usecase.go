// Package ranking produces the top-N most active users.
package ranking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"social-network-service/internal/domain/user"
	pkgerrors "social-network-service/pkg/errors"
	"social-network-service/pkg/logger"
)

// DefaultN is the size of the public top users listing.
const DefaultN = 20

// Ranker orders users by post count descending, then by id ascending.
type Ranker interface {
	TopByPosts(ctx context.Context, n int, excludeStaff bool) ([]user.Stats, error)
}

// Summarizer expands users into detailed summaries, preserving order.
type Summarizer interface {
	SummarizeAll(ctx context.Context, users []user.User) ([]user.Summary, error)
}

// Cache stores computed rankings for a short time.
// Get reports a miss with found == false.
type Cache interface {
	Get(ctx context.Context, n int, excludeStaff bool) (summaries []user.Summary, found bool, err error)
	Set(ctx context.Context, n int, excludeStaff bool, summaries []user.Summary) error
}

// Usecase implements the ranking.
type Usecase struct {
	ranker     Ranker
	summarizer Summarizer
	cache      Cache
	log        *zap.Logger
}

// New creates a ranking usecase. cache may be nil.
func New(ranker Ranker, summarizer Summarizer, cache Cache, log *zap.Logger) *Usecase {
	return &Usecase{ranker: ranker, summarizer: summarizer, cache: cache, log: log}
}

// TopNUsers returns at most n detailed summaries ordered by post count descending.
// Subscriber counts are reported but do not influence the order.
func (uc *Usecase) TopNUsers(ctx context.Context, n int, excludeStaff bool) ([]user.Summary, error) {
	if n < 1 {
		return nil, pkgerrors.NewInvalidFilterError("n", "must be at least 1")
	}

	log := logger.WithContext(ctx, uc.log)

	if uc.cache != nil {
		cached, found, err := uc.cache.Get(ctx, n, excludeStaff)
		if err != nil {
			log.Warn("ranking cache get failed, computing", zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	stats, err := uc.ranker.TopByPosts(ctx, n, excludeStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to rank users: %w", err)
	}

	users := make([]user.User, len(stats))
	for i, s := range stats {
		users[i] = s.User
	}

	summaries, err := uc.summarizer.SummarizeAll(ctx, users)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ranked users: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, n, excludeStaff, summaries); err != nil {
			log.Warn("ranking cache set failed", zap.Error(err))
		}
	}

	return summaries, nil
}
