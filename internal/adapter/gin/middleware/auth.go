package middleware

import (
	"net/http"
	"strings"

	"social-network-service/pkg/auth"
	"social-network-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

// Auth requires a valid "Authorization: Bearer <jwt>" header.
// The token subject becomes the caller's user id.
func Auth(secret []byte, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		userID, err := auth.ParseUserID(strings.TrimSpace(token), secret)
		if err != nil {
			logger.WithContext(c.Request.Context(), log).Warn("rejected token", zap.Error(err))
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

// UserID returns the id stored by Auth.
func UserID(c *gin.Context) (int64, bool) {
	id, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	userID, ok := id.(int64)
	return userID, ok && userID > 0
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
	})
}
