package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "social-network-service/internal/domain/subscription"
	"social-network-service/internal/domain/user"
	"social-network-service/internal/usecase/query"
	pkgerrors "social-network-service/pkg/errors"
	"social-network-service/pkg/logger"
)

// Usecase implements the subscription ledger: follow edges and their invariants.
type Usecase struct {
	repo     Repository
	users    UserDirectory
	cfg      Config
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

// New creates a new ledger. Non-positive limits fall back to DefaultConfig.
func New(repo Repository, users UserDirectory, cfg Config, log *zap.Logger) *Usecase {
	def := DefaultConfig()
	if cfg.Quota <= 0 {
		cfg.Quota = def.Quota
	}
	if cfg.MaxUsernames <= 0 {
		cfg.MaxUsernames = def.MaxUsernames
	}

	return &Usecase{
		repo:     repo,
		users:    users,
		cfg:      cfg,
		log:      log,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Subscribe creates the edge follower -> followee.
// Checks run in order: self, quota, followee existence, duplicate.
func (uc *Usecase) Subscribe(ctx context.Context, in SubscribeRequest) (*SubscribeResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("subscribing", zap.Int64("follower_id", in.FollowerID), zap.Int64("followee_id", in.FolloweeID))

	if err := uc.validate.Struct(in); err != nil {
		return nil, pkgerrors.FromValidator(err)
	}

	if in.FollowerID == in.FolloweeID {
		log.Warn("self subscription rejected", zap.Int64("user_id", in.FollowerID))
		return nil, pkgerrors.NewSelfSubscriptionError(in.FollowerID)
	}

	count, err := uc.repo.CountFollowees(ctx, in.FollowerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	if count >= int64(uc.cfg.Quota) {
		log.Warn("subscription quota reached", zap.Int64("count", count), zap.Int("quota", uc.cfg.Quota))
		return nil, pkgerrors.NewQuotaExceededError(uc.cfg.Quota)
	}

	followee, err := uc.lookup(ctx, in.FolloweeID)
	if err != nil {
		return nil, err
	}
	follower, err := uc.lookup(ctx, in.FollowerID)
	if err != nil {
		return nil, err
	}

	s := domain.Subscription{
		FollowerID: in.FollowerID,
		FolloweeID: in.FolloweeID,
		CreatedAt:  uc.now().UTC(),
	}

	if err := uc.repo.Create(ctx, &s, uc.cfg.Quota); err != nil {
		switch {
		case errors.Is(err, domain.ErrQuotaExceeded):
			return nil, pkgerrors.NewQuotaExceededError(uc.cfg.Quota)
		case errors.Is(err, domain.ErrAlreadySubscribed):
			return nil, pkgerrors.NewDuplicateError("subscription",
				fmt.Sprintf("The User: %s is already Subscribed to the User: %s", follower.Username, followee.Username))
		default:
			log.Error("failed to create subscription", zap.Error(err))
			return nil, fmt.Errorf("failed to create subscription: %w", err)
		}
	}

	log.Info("subscribed", zap.Int64("subscription_id", s.ID))

	return &SubscribeResponse{
		Subscription: s,
		Message: fmt.Sprintf("The User: %s successfully Subscribed to the User: %s",
			follower.Username, followee.Username),
	}, nil
}

// Unsubscribe removes the edge follower -> followee.
func (uc *Usecase) Unsubscribe(ctx context.Context, in SubscribeRequest) (*UnsubscribeResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("unsubscribing", zap.Int64("follower_id", in.FollowerID), zap.Int64("followee_id", in.FolloweeID))

	if err := uc.validate.Struct(in); err != nil {
		return nil, pkgerrors.FromValidator(err)
	}

	followee, err := uc.lookup(ctx, in.FolloweeID)
	if err != nil {
		return nil, err
	}
	follower, err := uc.lookup(ctx, in.FollowerID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Delete(ctx, in.FollowerID, in.FolloweeID); err != nil {
		if errors.Is(err, domain.ErrNotSubscribed) {
			return nil, pkgerrors.NewNotFoundError("subscription",
				fmt.Sprintf("The User: %s is not Subscribed to the User: %s", follower.Username, followee.Username))
		}
		log.Error("failed to delete subscription", zap.Error(err))
		return nil, fmt.Errorf("failed to delete subscription: %w", err)
	}

	return &UnsubscribeResponse{
		Message: fmt.Sprintf("The User: %s successfully Unsubscribed from the User: %s",
			follower.Username, followee.Username),
	}, nil
}

// ListFollowees returns the follower's subscriptions filtered by params.
func (uc *Usecase) ListFollowees(ctx context.Context, followerID int64, params query.Params) ([]domain.Detailed, error) {
	parsed, err := query.Parse(params, uc.cfg.MaxUsernames)
	if err != nil {
		return nil, err
	}

	items, err := uc.repo.ListFollowees(ctx, followerID, domain.FolloweeFilter{
		Usernames: parsed.Usernames,
		Posts:     parsed.Criteria,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return items, nil
}

// ListFollowers returns the edges pointing at followeeID.
func (uc *Usecase) ListFollowers(ctx context.Context, followeeID int64) ([]domain.Detailed, error) {
	items, err := uc.repo.ListFollowers(ctx, followeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return items, nil
}

// FolloweeIDs returns the ids followerID subscribes to, restricted to usernames when given.
// The usernames cap is not applied here; callers validate their input.
func (uc *Usecase) FolloweeIDs(ctx context.Context, followerID int64, usernames []string) ([]int64, error) {
	ids, err := uc.repo.FolloweeIDs(ctx, followerID, usernames)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve followees: %w", err)
	}
	return ids, nil
}

// CountFollowees returns how many users userID follows.
func (uc *Usecase) CountFollowees(ctx context.Context, userID int64) (int64, error) {
	n, err := uc.repo.CountFollowees(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return n, nil
}

// CountFollowers returns how many users follow userID.
func (uc *Usecase) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	n, err := uc.repo.CountFollowers(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return n, nil
}

func (uc *Usecase) lookup(ctx context.Context, id int64) (*user.User, error) {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user %d not found", id))
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
