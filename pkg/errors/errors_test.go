package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", NewNotFoundError("user", "user not found"), http.StatusNotFound, "not_found"},
		{"self subscription", NewSelfSubscriptionError(1), http.StatusForbidden, "forbidden"},
		{"quota exceeded", NewQuotaExceededError(100), http.StatusForbidden, "forbidden"},
		{"duplicate", NewDuplicateError("subscription", ""), http.StatusBadRequest, "already_exists"},
		{"invalid filter", NewInvalidFilterError("start_date", "bad date"), http.StatusBadRequest, "invalid_filter"},
		{"validation", NewValidationError("title", "is required"), http.StatusBadRequest, "validation_error"},
		{"unauthorized", NewUnauthorizedError("missing token"), http.StatusUnauthorized, "unauthorized"},
		{"wrapped not found", fmt.Errorf("lookup: %w", NewNotFoundError("user", "")), http.StatusNotFound, "not_found"},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
		{"internal", NewInternalError("db down", nil), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := HTTPStatus(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestGRPCStatus(t *testing.T) {
	assert.Equal(t, codes.NotFound, NewNotFoundError("user", "").GRPCStatus().Code())
	assert.Equal(t, codes.PermissionDenied, NewSelfSubscriptionError(3).GRPCStatus().Code())
	assert.Equal(t, codes.ResourceExhausted, NewQuotaExceededError(100).GRPCStatus().Code())
	assert.Equal(t, codes.AlreadyExists, NewDuplicateError("subscription", "").GRPCStatus().Code())
	assert.Equal(t, codes.InvalidArgument, NewInvalidFilterError("username", "too many").GRPCStatus().Code())
	assert.Equal(t, codes.Unauthenticated, NewUnauthorizedError("no").GRPCStatus().Code())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "It is forbidden to have more than 100 Subscriptions", NewQuotaExceededError(100).Error())
	assert.Equal(t, "It is forbidden to Subscribe to yourself", NewSelfSubscriptionError(1).Error())
	assert.Equal(t, "user not found", NewNotFoundError("user", "").Error())
	assert.Equal(t, "subscription already exists", NewDuplicateError("subscription", "").Error())
	assert.Equal(t, "invalid filter start_date: bad", NewInvalidFilterError("start_date", "bad").Error())

	wrapped := NewInternalError("failed", fmt.Errorf("cause"))
	assert.Equal(t, "failed: cause", wrapped.Error())
	assert.EqualError(t, wrapped.Unwrap(), "cause")
}
