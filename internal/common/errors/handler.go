package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"
)

// ErrorResponse is the failure body of the submit contract.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleHTTPError normalizes err, logs it and writes {success:false,message}.
// Client errors log at warn, everything else at error.
func (h *ErrorHandler) HandleHTTPError(w http.ResponseWriter, r *http.Request, requestID string, err error) {
	stdErr := Normalize(err)
	status := stdErr.HTTPStatus()

	h.logError(r, requestID, stdErr, status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Success: false, Message: stdErr.Message})
}

// Normalize returns err as a *StandardError, wrapping unknown errors as INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   SubmissionFailedMessage,
		Details:   errString(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func (h *ErrorHandler) logError(r *http.Request, requestID string, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"requestId":     requestID,
		"method":        r.Method,
		"path":          r.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}

	if status < http.StatusInternalServerError {
		h.logger.Warn("request rejected", fields)
		return
	}
	h.logger.Error("request failed", fields)
}
