package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("dataset", "")
	assert.Equal(t, `parameter "dataset" is required and cannot be empty`, err.Error())

	err = NewValidationError("query", "must include the target column")
	assert.Equal(t, `invalid parameter "query": must include the target column`, err.Error())
}

func TestIsValidation_Wrapped(t *testing.T) {
	base := NewValidationError("column", "")
	wrapped := fmt.Errorf("analyze failed: %w", base)

	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsValidation(errors.New("something else")))
	assert.False(t, IsValidation(nil))
}

func TestUpstreamError_PreservesStatusAndMessage(t *testing.T) {
	err := NewUpstreamError(404, "dataset not found", nil)

	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "dataset not found")
	assert.Contains(t, err.Suggestions[0], "verify the dataset exists")
}

func TestUpstreamError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewUpstreamError(502, "bad gateway", cause)

	wrapped := fmt.Errorf("query execution failed: %w", err)
	ue, ok := AsUpstream(wrapped)
	require.True(t, ok)
	assert.Equal(t, 502, ue.StatusCode)
	assert.ErrorIs(t, wrapped, cause)
}

func TestUpstreamError_IsRetryable(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{400, false},
		{401, false},
		{404, false},
		{422, false},
		{429, true},
		{500, true},
		{503, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := NewUpstreamError(tt.status, "msg", nil)
			assert.Equal(t, tt.retryable, err.IsRetryable())
		})
	}
}

func TestSuggestionsForStatus_AuthErrors(t *testing.T) {
	for _, status := range []int{401, 403} {
		err := NewUpstreamError(status, "unauthorized", nil)
		require.NotEmpty(t, err.Suggestions)
		assert.Contains(t, err.Suggestions[0], "API key")
	}
}
