package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"social-network-service/internal/usecase/ranking"
)

func TestHandleError_InternalHidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/users", nil)

	handleError(c, zap.New(core), errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.Contains(t, w.Body.String(), "An internal error occurred")

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap()["error"], "connection refused")
}

func TestNewSocialHandler_TopNDefault(t *testing.T) {
	log := zap.NewNop()

	assert.Equal(t, ranking.DefaultN, NewSocialHandler(nil, nil, nil, nil, 0, log).topN)
	assert.Equal(t, 5, NewSocialHandler(nil, nil, nil, nil, 5, log).topN)
}
