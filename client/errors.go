package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned by the API.
const (
	CodeBadRequest       = "bad_request"
	CodeDataUnavailable  = "data_unavailable"
	CodeUserNotFound     = "user_not_found"
	CodeNoPath           = "no_path"
	CodeStoreUnavailable = "store_unavailable"
	CodeRateLimited      = "rate_limited"
	CodeInternal         = "internal_error"
)

// APIError represents a structured error response from the netgraph API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("netgraph: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("netgraph: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func asAPIError(err error) (*APIError, bool) {
	var e *APIError
	ok := errors.As(err, &e)
	return e, ok
}

// IsNotFound returns true if the error is a 404: an unknown user, no path or
// no data to analyze.
func IsNotFound(err error) bool {
	e, ok := asAPIError(err)
	return ok && e.StatusCode == http.StatusNotFound
}

// IsNoPath returns true if the two users are not connected.
func IsNoPath(err error) bool {
	e, ok := asAPIError(err)
	return ok && e.Code == CodeNoPath
}

// IsUnavailable returns true if the server could not reach its store.
func IsUnavailable(err error) bool {
	e, ok := asAPIError(err)
	return ok && e.StatusCode == http.StatusServiceUnavailable
}

// IsRateLimited returns true if the error is a 429 rate limit.
func IsRateLimited(err error) bool {
	e, ok := asAPIError(err)
	return ok && e.StatusCode == http.StatusTooManyRequests
}

// errorEnvelope is the {"error": {...}} wrapper the API puts around errors.
type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	env := errorEnvelope{Error: apiErr}
	if err := json.Unmarshal(body, &env); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}
	return apiErr
}
