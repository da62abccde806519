// Package handler exposes the social network usecases over Gin.
package handler

import (
	"net/http"
	"strconv"

	"social-network-service/internal/adapter/gin/middleware"
	"social-network-service/internal/usecase/query"
	pkgerrors "social-network-service/pkg/errors"
	"social-network-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// callerID returns the authenticated user or writes a 401.
func callerID(c *gin.Context, log *zap.Logger) (int64, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		handleError(c, log, pkgerrors.NewUnauthorizedError("authentication required"))
		return 0, false
	}
	return id, true
}

// idParam parses a numeric path parameter or writes a 400.
func idParam(c *gin.Context, log *zap.Logger, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Warn("Invalid id parameter", zap.String(name, raw), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: name + " must be a valid number",
		})
		return 0, false
	}
	return id, true
}

// queryParams collects the listing filters from the query string.
// username may be repeated or comma separated.
func queryParams(c *gin.Context) query.Params {
	var usernames []string
	if values := c.QueryArray("username"); len(values) > 0 {
		usernames = values
	}

	return query.Params{
		Usernames: usernames,
		Title:     c.Query("title"),
		Text:      c.Query("text"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
}

// handleError converts usecase errors to HTTP responses.
// Internal failures are logged and answered with a generic message.
func handleError(c *gin.Context, log *zap.Logger, err error) {
	status, code := pkgerrors.HTTPStatus(err)
	l := logger.WithContext(c.Request.Context(), log)

	if status >= http.StatusInternalServerError {
		internal := pkgerrors.NewInternalError("An internal error occurred", err)
		l.Error("request failed", zap.String("path", c.FullPath()), zap.Error(internal))
		c.JSON(status, ErrorResponse{
			Error:   code,
			Message: internal.Message,
		})
		return
	}

	l.Info("request rejected", zap.Int("status", status), zap.Error(err))
	c.JSON(status, ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}
