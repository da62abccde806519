package middleware

import (
	"fmt"
	"net/http"

	grpcmiddleware "social-network-service/internal/adapter/grpc/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter returns a Gin middleware sharing the gRPC token bucket limiter.
// Buckets are keyed per method, path and client IP. Redis failures let the request through.
func RateLimiter(limiter *grpcmiddleware.RateLimiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		key := fmt.Sprintf("ratelimit:tb:%s:%s:%s", c.Request.Method, c.FullPath(), clientIP)

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !allowed {
			cfg := limiter.Config()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": fmt.Sprintf("Rate limit exceeded: %.2f requests/second (burst capacity: %d)", cfg.RequestsPerSecond, cfg.BurstCapacity),
			})
			return
		}

		c.Next()
	}
}
