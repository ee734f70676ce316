// Package apperrors defines the error taxonomy shared across honeycomb-mcp:
// caller input errors, which fail before any upstream call, and upstream
// errors, which carry the Honeycomb API's status code and message.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEnvironmentUnknown = errors.New("environment is not configured")
	ErrQueryTimeout       = errors.New("query result polling exceeded budget")
)

// ValidationError indicates the caller supplied a missing or invalid
// parameter. It is always raised before any external call is made.
type ValidationError struct {
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Message)
	}
	return fmt.Sprintf("parameter %q is required and cannot be empty", e.Param)
}

// NewValidationError creates a ValidationError for a missing/empty parameter.
func NewValidationError(param, message string) *ValidationError {
	return &ValidationError{Param: param, Message: message}
}

// UpstreamError wraps a failure from the Honeycomb API, preserving the
// HTTP status code and upstream message rather than swallowing them.
type UpstreamError struct {
	StatusCode  int
	Message     string
	Suggestions []string
	Err         error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("honeycomb API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("honeycomb API error: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the upstream failure is transient.
// Rate limiting and server-side errors are worth retrying; client
// errors (bad request, auth, not found) are permanent.
func (e *UpstreamError) IsRetryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// NewUpstreamError builds an UpstreamError with remediation suggestions
// derived from the status code.
func NewUpstreamError(statusCode int, message string, err error) *UpstreamError {
	return &UpstreamError{
		StatusCode:  statusCode,
		Message:     message,
		Suggestions: suggestionsForStatus(statusCode),
		Err:         err,
	}
}

// suggestionsForStatus maps an HTTP status code to remediation hints that
// are surfaced alongside the error in tool results.
func suggestionsForStatus(statusCode int) []string {
	switch statusCode {
	case 401, 403:
		return []string{
			"verify the API key for this environment is valid",
			"check that the key has the required API permissions",
		}
	case 404:
		return []string{
			"verify the dataset exists in this environment",
			"check the resource identifier for typos",
		}
	case 422:
		return []string{"check the query specification for unsupported combinations"}
	case 429:
		return []string{"the API rate limit was hit; retry after a short delay"}
	default:
		if statusCode >= 500 {
			return []string{"the Honeycomb API reported a server error; retry later"}
		}
		return nil
	}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsUpstream extracts an UpstreamError from err's chain, if present.
func AsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
