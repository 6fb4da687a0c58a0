// Package errors provides the standardized error type returned at the HTTP boundary.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequestBody          ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeApplicationValidationFailed ErrorCode = "APPLICATION_VALIDATION_FAILED"
	ErrCodeRateLimited                 ErrorCode = "RATE_LIMITED"
	ErrCodeDatabaseInsertFailed        ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeNotificationSendFailed      ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternal                    ErrorCode = "INTERNAL_ERROR"
)

// StandardError carries a user-facing Message and an internal Details string
// that is logged but never written to the client.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the code onto the response status.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeApplicationValidationFailed:
		return http.StatusBadRequest
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Generic client message for every server-side failure.
const SubmissionFailedMessage = "Error submitting application"

func NewInvalidRequestBodyError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequestBody,
		Message:   "Invalid request body",
		Details:   errString(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewApplicationValidationFailedError keeps message as the client-visible text,
// e.g. "Legal business name is required".
func NewApplicationValidationFailedError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationValidationFailed,
		Message:   message,
		Details:   errString(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewRateLimitedError(clientKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many submissions, please try again later",
		Details:   fmt.Sprintf("client: %s", clientKey),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   SubmissionFailedMessage,
		Details:   errString(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewNotificationSendFailedError(applicationID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   SubmissionFailedMessage,
		Details:   fmt.Sprintf("applicationId: %s, error: %s", applicationID, errString(err)),
		Retryable: false,
		Metadata:  map[string]interface{}{"applicationId": applicationID},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   SubmissionFailedMessage,
		Details:   errString(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// GetErrorCategory groups codes for log aggregation.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeApplicationValidationFailed:
		return "CLIENT"
	case ErrCodeRateLimited:
		return "THROTTLING"
	case ErrCodeDatabaseInsertFailed:
		return "STORAGE"
	case ErrCodeNotificationSendFailed:
		return "NOTIFICATION"
	default:
		return "UNKNOWN"
	}
}
