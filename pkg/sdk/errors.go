package sdk

import "fmt"

// Error types returned in the error_type field of failure responses.
const (
	ErrorTypeInvalidInput        = "invalid_input"
	ErrorTypeIndexNotReady       = "index_not_ready"
	ErrorTypeUpstreamUnavailable = "upstream_unavailable"
	ErrorTypeTimeout             = "timeout"
	ErrorTypeUnauthorized        = "unauthorized"
	ErrorTypeInternal            = "internal_error"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	ErrorType  string `json:"error_type"`
}

func (e *APIError) Error() string {
	if e.ErrorType != "" {
		return fmt.Sprintf("stylesearch: %s (%d): %s", e.ErrorType, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("stylesearch: http %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether the request may succeed on retry.
func (e *APIError) IsRetryable() bool {
	switch e.ErrorType {
	case ErrorTypeIndexNotReady, ErrorTypeUpstreamUnavailable, ErrorTypeTimeout:
		return true
	}
	return e.StatusCode >= 500
}
