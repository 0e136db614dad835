// Package errors provides standardized error handling for the webhook
// synchronization service.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeRateLimited      ErrorCode = "RATE_LIMITED"

	ErrCodeATSAPIError           ErrorCode = "ATS_API_ERROR"
	ErrCodeCandidateCreateFailed ErrorCode = "CANDIDATE_CREATE_FAILED"
	ErrCodeFieldNotFound         ErrorCode = "FIELD_NOT_FOUND"
	ErrCodeQuestionNotFound      ErrorCode = "QUESTION_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewValidationFailedError creates a non-retryable validation error. The
// details string names the offending field so callers can surface it as-is.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingFieldError creates a non-retryable parse error whose message
// names the missing field.
func NewMissingFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   fmt.Sprintf("Missing required field: %s", field),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError creates a non-retryable rate limit error.
func NewRateLimitedError(key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many requests",
		Details:   fmt.Sprintf("key: %s", key),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewATSAPIError creates a retryable error for a failed ATS call.
func NewATSAPIError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeATSAPIError,
		Message:   "ATS API request failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCandidateCreateFailedError creates a retryable error for the fatal
// first step of a sync pass.
func NewCandidateCreateFailedError(email string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCandidateCreateFailed,
		Message:   "Candidate creation failed",
		Details:   fmt.Sprintf("email: %s, error: %s", email, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewFieldNotFoundError creates a non-retryable error for a custom field
// whose api-name does not resolve in the ATS.
func NewFieldNotFoundError(apiName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFieldNotFound,
		Message:   "Custom field not found",
		Details:   fmt.Sprintf("apiName: %s", apiName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
