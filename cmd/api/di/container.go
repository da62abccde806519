package di

import (
	"context"
	"errors"
	"fmt"

	"social-network-service/cmd/api/infrastructure"
	"social-network-service/internal/adapter/db/postgres"
	ginhandler "social-network-service/internal/adapter/gin/handler"
	grpcadapter "social-network-service/internal/adapter/grpc"
	"social-network-service/internal/adapter/grpc/middleware"
	"social-network-service/internal/adapter/repository/cached"
	"social-network-service/internal/config"
	"social-network-service/internal/usecase/feed"
	"social-network-service/internal/usecase/post"
	"social-network-service/internal/usecase/profile"
	"social-network-service/internal/usecase/ranking"
	"social-network-service/internal/usecase/subscription"
	redisclient "social-network-service/pkg/redis"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client

	SubscriptionUC *subscription.Usecase
	FeedUC         *feed.Usecase
	ProfileUC      *profile.Usecase
	RankingUC      *ranking.Usecase
	PostUC         *post.Usecase

	RateLimiter   *middleware.RateLimiter
	Health        *grpcadapter.HealthService
	SocialHandler *ginhandler.SocialHandler
	PostHandler   *ginhandler.PostHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	return build(cfg, db, rdb, l), nil
}

// build wires repositories, usecases and adapters over open connections.
func build(cfg *config.Config, db *gorm.DB, rdb *redisclient.Client, l *zap.Logger) *Container {
	userCache, rankingCache := infrastructure.NewCaches(rdb, cfg, l)

	// Repositories
	users := cached.NewUserRepository(postgres.NewUserRepoPG(db, l), userCache, l)
	posts := postgres.NewPostRepoPG(db, l)
	subscriptions := postgres.NewSubscriptionRepoPG(db, l)
	interests := postgres.NewInterestRepoPG(db, l)

	// Use cases
	subscriptionUC := subscription.New(subscriptions, users, subscription.Config{
		Quota:        cfg.Social.SubscriptionQuota,
		MaxUsernames: cfg.Social.MaxFolloweeUsernames,
	}, l)
	feedUC := feed.New(subscriptions, posts, users, cfg.Social.MaxFolloweeUsernames, l)
	profileUC := profile.New(users, posts, subscriptions, interests, l)
	rankingUC := ranking.New(users, profileUC, rankingCache, l)
	postUC := post.New(posts, l)

	rateLimiter := middleware.NewRateLimiter(
		rdb.Client,
		middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		},
		l,
	)

	health := grpcadapter.NewHealthService(map[string]grpcadapter.Pinger{
		"postgres": grpcadapter.PingFunc(func(ctx context.Context) error {
			return infrastructure.PingDatabase(ctx, db)
		}),
		"redis": rdb,
	}, l)

	return &Container{
		Config:         cfg,
		Logger:         l,
		DB:             db,
		RedisClient:    rdb,
		SubscriptionUC: subscriptionUC,
		FeedUC:         feedUC,
		ProfileUC:      profileUC,
		RankingUC:      rankingUC,
		PostUC:         postUC,
		RateLimiter:    rateLimiter,
		Health:         health,
		SocialHandler:  ginhandler.NewSocialHandler(subscriptionUC, feedUC, profileUC, rankingUC, cfg.Social.TopUsersLimit, l),
		PostHandler:    ginhandler.NewPostHandler(postUC, l),
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
