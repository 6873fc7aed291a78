package models

import (
	"encoding/json"
	"net/http"
)

// ErrorCode is the stable value of the "error" field in failure bodies.
type ErrorCode string

const (
	ErrServerNotConfigured ErrorCode = "server_not_configured"
	ErrInvalidRoll         ErrorCode = "invalid_roll"
	ErrInvalidScore        ErrorCode = "invalid_score"
	ErrMethodNotAllowed    ErrorCode = "method_not_allowed"
	ErrSheetError          ErrorCode = "sheet_error"
	ErrServerError         ErrorCode = "server_error"
	ErrRateLimitExceeded   ErrorCode = "rate_limit_exceeded"
	ErrInternal            ErrorCode = "internal_error"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   ErrorCode       `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}

// SubmitResponse wraps a successful upstream JSON answer to a submission.
type SubmitResponse struct {
	Success bool            `json:"success"`
	Sheet   json.RawMessage `json:"sheet"`
}

// RelayResult is the status and payload handed back to the caller.
// Code is empty unless the result is a failure with a stable error code.
type RelayResult struct {
	StatusCode int
	Payload    Body
	Code       ErrorCode
}

// Outcome labels the result for logs and metrics.
func (r RelayResult) Outcome() string {
	if r.Code != "" {
		return string(r.Code)
	}
	if r.StatusCode >= http.StatusBadRequest {
		return "upstream_text_error"
	}
	return "ok"
}

// NewErrorResult builds a JSON error result.
func NewErrorResult(status int, code ErrorCode) RelayResult {
	return RelayResult{
		StatusCode: status,
		Payload:    MustJSONBody(ErrorResponse{Error: code}),
		Code:       code,
	}
}
