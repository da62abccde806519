package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	grpcmiddleware "social-network-service/internal/adapter/grpc/middleware"
	"social-network-service/pkg/auth"
	"social-network-service/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.Use(Auth(secret, zaptest.NewLogger(t)))
	r.GET("/me", func(c *gin.Context) {
		id, ok := UserID(c)
		require.True(t, ok)
		ctxID, ok := logger.GetUserID(c.Request.Context())
		require.True(t, ok)
		assert.Equal(t, id, ctxID)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	token, err := auth.GenerateToken(7, secret, time.Minute)
	require.NoError(t, err)

	t.Run("Valid", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":7}`, w.Body.String())
	})

	t.Run("Missing", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "unauthorized")
	})

	t.Run("WrongScheme", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Token " + token})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("BadSignature", func(t *testing.T) {
		other, err := auth.GenerateToken(7, []byte("other"), time.Minute)
		require.NoError(t, err)
		w := perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + other})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, logger.GetRequestID(c.Request.Context()))
	})

	w := perform(r, http.MethodGet, "/", nil)
	generated := w.Header().Get(logger.RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = perform(r, http.MethodGet, "/", map[string]string{logger.RequestIDHeader: "abc"})
	assert.Equal(t, "abc", w.Header().Get(logger.RequestIDHeader))
	assert.Equal(t, "abc", w.Body.String())
}

func TestRecovery(t *testing.T) {
	log := zaptest.NewLogger(t)
	r := gin.New()
	r.Use(Recovery(log), Logger(log))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := perform(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zaptest.NewLogger(t)
	limiter := grpcmiddleware.NewRateLimiter(client, grpcmiddleware.RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstCapacity:     2,
		Enabled:           true,
	}, log)

	r := gin.New()
	r.Use(RateLimiter(limiter, log))
	r.GET("/a", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/b", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/a", nil).Code)
	}
	w := perform(r, http.MethodGet, "/a", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// Separate bucket per route
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/b", nil).Code)

	// Redis down fails open
	mr.Close()
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/a", nil).Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	log := zaptest.NewLogger(t)
	limiter := grpcmiddleware.NewRateLimiter(nil, grpcmiddleware.RateLimiterConfig{Enabled: true}, log)

	r := gin.New()
	r.Use(RateLimiter(limiter, log))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)

	r = gin.New()
	r.Use(RateLimiter(nil, log))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/", map[string]string{"Origin": "https://app.example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/", map[string]string{"Origin": "https://evil.example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	r = gin.New()
	r.Use(CORS(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = perform(r, http.MethodGet, "/", map[string]string{"Origin": "https://any.example.com"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
