package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// bucketTTLSeconds is how long an idle bucket survives in Redis.
const bucketTTLSeconds = 60

// tokenBucket refills at ARGV[1] tokens/s up to ARGV[2], then takes one token.
// Bucket state is a hash {last_refill, tokens}. Returns 1 when allowed.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'last_refill', now, 'tokens', tokens)
redis.call('EXPIRE', key, ttl)
return allowed
`)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstCapacity     int
	Enabled           bool
}

// RateLimiter is a Redis-backed token bucket shared by the gRPC and Gin servers.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

// Enabled reports whether requests are limited at all.
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.config.Enabled && rl.client != nil
}

// Config returns the limiter settings.
func (rl *RateLimiter) Config() RateLimiterConfig {
	return rl.config
}

// Allow takes one token from the bucket identified by key.
// A Redis failure is returned to the caller, which decides whether to fail open.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !rl.Enabled() {
		return true, nil
	}

	now := float64(rl.now().UnixNano()) / float64(time.Second)
	allowed, err := tokenBucket.Run(ctx, rl.client, []string{key},
		rl.config.RequestsPerSecond,
		rl.config.BurstCapacity,
		now,
		bucketTTLSeconds,
	).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limiter: %w", err)
	}

	return allowed == 1, nil
}

// UnaryInterceptor returns a gRPC unary interceptor for rate limiting.
func (rl *RateLimiter) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !rl.Enabled() {
			return handler(ctx, req)
		}

		clientIP := getClientIP(ctx)
		key := fmt.Sprintf("ratelimit:tb:%s:%s", info.FullMethod, clientIP)

		allowed, err := rl.Allow(ctx, key)
		if err != nil {
			// Fail open
			rl.log.Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.String("method", info.FullMethod),
				zap.Error(err),
			)
			return handler(ctx, req)
		}

		if !allowed {
			rl.log.Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("method", info.FullMethod),
				zap.Float64("limit", rl.config.RequestsPerSecond),
			)
			return nil, status.Errorf(codes.ResourceExhausted,
				"rate limit exceeded: %.2f requests/second (burst capacity: %d)",
				rl.config.RequestsPerSecond, rl.config.BurstCapacity)
		}

		return handler(ctx, req)
	}
}

// getClientIP extracts the client IP address from the gRPC context.
func getClientIP(ctx context.Context) string {
	// Requests through the gateway carry the client address
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if xff := md.Get("x-forwarded-for"); len(xff) > 0 {
			return xff[0]
		}
		if xri := md.Get("x-real-ip"); len(xri) > 0 {
			return xri[0]
		}
	}

	if p, ok := peer.FromContext(ctx); ok {
		return p.Addr.String()
	}

	return "unknown"
}
