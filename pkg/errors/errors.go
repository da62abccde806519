package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// GRPCStatus returns the gRPC status for this error
func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// InvalidFilterError represents malformed query parameters (dates, filter sizes).
type InvalidFilterError struct {
	Param   string
	Message string
}

// NewInvalidFilterError creates a new invalid filter error
func NewInvalidFilterError(param, message string) *InvalidFilterError {
	return &InvalidFilterError{
		Param:   param,
		Message: message,
	}
}

// Error implements the error interface
func (e *InvalidFilterError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("invalid filter %s: %s", e.Param, e.Message)
	}
	return fmt.Sprintf("invalid filter: %s", e.Message)
}

// GRPCStatus returns the gRPC status for this error
func (e *InvalidFilterError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// GRPCStatus returns the gRPC status for this error
func (e *NotFoundError) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// DuplicateError represents an attempt to create something that already exists.
type DuplicateError struct {
	Resource string
	Message  string
}

// NewDuplicateError creates a new duplicate error
func NewDuplicateError(resource, message string) *DuplicateError {
	return &DuplicateError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *DuplicateError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// GRPCStatus returns the gRPC status for this error
func (e *DuplicateError) GRPCStatus() *status.Status {
	return status.New(codes.AlreadyExists, e.Error())
}

// SelfSubscriptionError is returned when a user tries to subscribe to themselves.
type SelfSubscriptionError struct {
	UserID int64
}

// NewSelfSubscriptionError creates a new self subscription error
func NewSelfSubscriptionError(userID int64) *SelfSubscriptionError {
	return &SelfSubscriptionError{UserID: userID}
}

// Error implements the error interface
func (e *SelfSubscriptionError) Error() string {
	return "It is forbidden to Subscribe to yourself"
}

// GRPCStatus returns the gRPC status for this error
func (e *SelfSubscriptionError) GRPCStatus() *status.Status {
	return status.New(codes.PermissionDenied, e.Error())
}

// QuotaExceededError is returned when a follower already holds the maximum number of subscriptions.
type QuotaExceededError struct {
	Limit int
}

// NewQuotaExceededError creates a new quota exceeded error
func NewQuotaExceededError(limit int) *QuotaExceededError {
	return &QuotaExceededError{Limit: limit}
}

// Error implements the error interface
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("It is forbidden to have more than %d Subscriptions", e.Limit)
}

// GRPCStatus returns the gRPC status for this error
func (e *QuotaExceededError) GRPCStatus() *status.Status {
	return status.New(codes.ResourceExhausted, e.Error())
}

// UnauthorizedError represents a missing or invalid caller identity
type UnauthorizedError struct {
	Message string
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	return e.Message
}

// GRPCStatus returns the gRPC status for this error
func (e *UnauthorizedError) GRPCStatus() *status.Status {
	return status.New(codes.Unauthenticated, e.Message)
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// GRPCStatus returns the gRPC status for this error
func (e *InternalError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Message)
}

// HTTPStatus maps an application error to its HTTP status code and a short error code.
// Unknown errors map to 500.
func HTTPStatus(err error) (int, string) {
	var (
		notFound   *NotFoundError
		self       *SelfSubscriptionError
		quota      *QuotaExceededError
		duplicate  *DuplicateError
		filter     *InvalidFilterError
		validation *ValidationError
		unauth     *UnauthorizedError
	)

	switch {
	case stderrors.As(err, &notFound):
		return http.StatusNotFound, "not_found"
	case stderrors.As(err, &self), stderrors.As(err, &quota):
		return http.StatusForbidden, "forbidden"
	case stderrors.As(err, &duplicate):
		return http.StatusBadRequest, "already_exists"
	case stderrors.As(err, &filter):
		return http.StatusBadRequest, "invalid_filter"
	case stderrors.As(err, &validation):
		return http.StatusBadRequest, "validation_error"
	case stderrors.As(err, &unauth):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
