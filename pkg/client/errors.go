package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// NetworkError indicates that no response reached the client (DNS
// failure, connection refused, broken transport). Never retried by the
// session.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError indicates the request exceeded its deadline. Retry is
// the caller's responsibility, not this layer's.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// AuthError indicates an unrecoverable 401: the refresh token was
// absent, rejected, or the retried request was rejected again.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "session expired"
	}
	return e.Reason
}

// HTTPError is any other non-2xx response, normalized with a fixed
// per-status-family message and the raw backend payload for callers
// that want detail.
type HTTPError struct {
	Status  int
	Message string
	Payload json.RawMessage
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// statusMessage returns the fixed user-facing message for a status
// family. A backend-supplied message field overrides it in newHTTPError.
func statusMessage(status int) string {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return "request validation failed"
	case status == http.StatusForbidden:
		return "you do not have permission to perform this action"
	case status == http.StatusNotFound:
		return "resource not found"
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return "service temporarily unavailable"
	case status >= 500:
		return "server error"
	default:
		if text := http.StatusText(status); text != "" {
			return text
		}
		return "request failed"
	}
}

// newHTTPError builds the normalized error for a non-2xx response,
// preferring a backend-provided "detail" or "message" field over the
// fixed default.
func newHTTPError(status int, body []byte) *HTTPError {
	httpErr := &HTTPError{
		Status:  status,
		Message: statusMessage(status),
	}
	if len(body) == 0 {
		return httpErr
	}
	httpErr.Payload = json.RawMessage(body)

	var detail struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &detail); err == nil {
		switch {
		case detail.Detail != "":
			httpErr.Message = detail.Detail
		case detail.Message != "":
			httpErr.Message = detail.Message
		case detail.Error != "":
			httpErr.Message = detail.Error
		}
	}
	return httpErr
}
