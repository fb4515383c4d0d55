package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error codes for categorization
const (
	// Client errors (4xx)
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeConflict    = "CONFLICT"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeRateLimited = "RATE_LIMITED"

	// Server errors (5xx)
	ErrCodeInternal = "INTERNAL_ERROR"
	ErrCodeDatabase = "DATABASE_ERROR"
	ErrCodeStorage  = "STORAGE_ERROR"

	// Business logic errors
	ErrCodeParseFailed       = "PARSE_FAILED"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeEmptyBot          = "EMPTY_BOT"
	ErrCodeAnalysisFailed    = "ANALYSIS_FAILED"
	ErrCodeInvalidState      = "INVALID_STATE"
)

// AppError is the base error type for all application errors
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    string         `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Cause      error          `json:"-"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value any) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// NewError creates a new AppError
func NewError(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now().UTC(),
	}
}

// Error constructors

func ErrValidation(message string) *AppError {
	return NewError(ErrCodeValidation, message, http.StatusBadRequest)
}

func ErrNotFound(resource, id string) *AppError {
	return NewError(ErrCodeNotFound, fmt.Sprintf("%s not found: %s", resource, id), http.StatusNotFound).
		WithMetadata("resource", resource).
		WithMetadata("id", id)
}

func ErrAnalysisRunNotFound(id string) *AppError {
	return ErrNotFound("analysis_run", id)
}

func ErrRateLimited(retryAfter time.Duration) *AppError {
	return NewError(ErrCodeRateLimited, "Rate limit exceeded", http.StatusTooManyRequests).
		WithMetadata("retry_after", retryAfter.String())
}

func ErrInternal(message string) *AppError {
	if message == "" {
		message = "Internal server error"
	}
	return NewError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func ErrDatabase(err error) *AppError {
	return NewError(ErrCodeDatabase, "Database error", http.StatusInternalServerError).
		WithCause(err)
}

func ErrStorage(err error) *AppError {
	return NewError(ErrCodeStorage, "Artifact storage error", http.StatusInternalServerError).
		WithCause(err)
}

// ErrParseFailed marks a bot export that could not be parsed. The format name
// carries whatever the detector decided before the parser gave up.
func ErrParseFailed(format, reason string, err error) *AppError {
	return NewError(ErrCodeParseFailed, fmt.Sprintf("Parsing %s export failed: %s", format, reason), http.StatusUnprocessableEntity).
		WithCause(err).
		WithMetadata("format", format)
}

// ErrUnsupportedFormat marks a recognized container format the normalizer
// refuses outright, such as ZIP archives.
func ErrUnsupportedFormat(format string) *AppError {
	return NewError(ErrCodeUnsupportedFormat, fmt.Sprintf("Unsupported export format: %s", format), http.StatusUnprocessableEntity).
		WithMetadata("format", format)
}

func ErrAnalysisFailed(reason string, err error) *AppError {
	return NewError(ErrCodeAnalysisFailed, fmt.Sprintf("Analysis failed: %s", reason), http.StatusUnprocessableEntity).
		WithCause(err)
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns the HTTP status code for an error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code for an error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// DomainError is a structured error for domain operations
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for error comparison
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel domain errors (used with errors.Is)
var (
	ErrNotFoundVal     = &DomainError{Code: ErrCodeNotFound, Message: "not found"}
	ErrInvalidInputVal = &DomainError{Code: ErrCodeValidation, Message: "invalid input"}
	ErrConflictVal     = &DomainError{Code: ErrCodeConflict, Message: "conflict"}
	ErrInvalidStateVal = &DomainError{Code: ErrCodeInvalidState, Message: "invalid state"}
)

// NotFoundError creates a not found domain error
func NotFoundError(resource string, id any) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Details: map[string]any{"resource": resource, "id": id},
		Err:     ErrNotFoundVal,
	}
}

// ValidationError creates a validation domain error
func ValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
		Details: map[string]any{"field": field},
		Err:     ErrInvalidInputVal,
	}
}

// IsNotFoundError reports whether err is a not-found domain error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFoundVal)
}

// IsInvalidStateError reports whether err is an invalid-state domain error
func IsInvalidStateError(err error) bool {
	return errors.Is(err, ErrInvalidStateVal)
}

// ConflictError creates a conflict domain error
func ConflictError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeConflict,
		Message: message,
		Err:     ErrConflictVal,
	}
}

// InvalidStateError creates an invalid state domain error, used when a
// terminal analysis run is asked to change
func InvalidStateError(resource string, state string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("%s is in state %s", resource, state),
		Details: map[string]any{"resource": resource, "state": state},
		Err:     ErrInvalidStateVal,
	}
}
