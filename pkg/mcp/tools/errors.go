package tools

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// This is used to return actionable error information to the MCP client
// as a tool result, ensuring error details are visible rather than being
// swallowed by the protocol layer.
type ErrorResponse struct {
	Error       bool     `json:"error"`
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Details     any      `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable/actionable errors the caller can fix
// (invalid parameters, unknown dataset, bad query specification).
//
// Do NOT use this for system failures (network breakage, internal
// errors) - those should still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// NewErrorResultWithDetails creates an error result with additional context.
// The details field can contain any additional information that might help
// the caller understand and respond to the error.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// NewUpstreamErrorResult creates an error result from a failed API call if
// the failure is actionable by the caller. Returns nil for errors that
// should surface as Go errors instead.
//
// Example usage:
//
//	datasets, err := deps.API.ListDatasets(ctx, environment)
//	if err != nil {
//	    if errResult := NewUpstreamErrorResult(err); errResult != nil {
//	        return errResult, nil
//	    }
//	    return nil, fmt.Errorf("failed to list datasets: %w", err)
//	}
func NewUpstreamErrorResult(err error) *mcp.CallToolResult {
	if err == nil {
		return nil
	}

	if errors.Is(err, apperrors.ErrEnvironmentUnknown) {
		return NewErrorResult("unknown_environment", err.Error())
	}

	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return NewErrorResult("invalid_parameters", ve.Error())
	}

	if ue, ok := apperrors.AsUpstream(err); ok {
		resp := ErrorResponse{
			Error:       true,
			Code:        upstreamErrorCode(ue.StatusCode),
			Message:     ue.Message,
			Suggestions: ue.Suggestions,
			Details:     map[string]any{"status_code": ue.StatusCode},
		}
		jsonBytes, _ := json.Marshal(resp)
		result := mcp.NewToolResultText(string(jsonBytes))
		result.IsError = true
		return result
	}

	return nil
}

// upstreamErrorCode maps an upstream HTTP status to a stable error code.
func upstreamErrorCode(statusCode int) string {
	switch statusCode {
	case 401, 403:
		return "unauthorized"
	case 404:
		return "not_found"
	case 422:
		return "invalid_query"
	case 429:
		return "rate_limited"
	default:
		if statusCode >= 500 {
			return "upstream_unavailable"
		}
		return "upstream_error"
	}
}

// inputErrorPatterns are substrings that indicate an error is due to user
// input rather than a server failure. These errors should be logged at
// DEBUG/INFO level, not ERROR level, because they are expected when users
// provide invalid input.
var inputErrorPatterns = []string{
	"not found",
	"cannot be empty",
	"is required",
	"invalid parameter",
	"invalid input",
	"missing required",
}

// IsInputError returns true if the error appears to be caused by user input
// rather than a server failure.
func IsInputError(err error) bool {
	if err == nil {
		return false
	}

	if apperrors.IsValidation(err) {
		return true
	}
	if ue, ok := apperrors.AsUpstream(err); ok {
		return ue.StatusCode >= 400 && ue.StatusCode < 500 && ue.StatusCode != 429
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range inputErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
