package tools

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/apperrors"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/query"
)

func TestRunQuery(t *testing.T) {
	api := &mockAPI{
		queryResult: &query.Result{
			Rows: []query.ResultRow{
				{"status_code": float64(200), "COUNT": float64(95)},
				{"status_code": float64(500), "COUNT": float64(5)},
			},
			CountColumn: "COUNT",
		},
	}
	s := newTestServer(api)

	text, isError := callTool(t, s, "run_query", map[string]any{
		"dataset": "api-gateway",
		"query": map[string]any{
			"calculations": []any{map[string]any{"op": "COUNT"}},
			"breakdowns":   []any{"status_code"},
			"time_range":   3600,
		},
	})
	require.False(t, isError)

	var resp runQueryResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, 2, resp.RowCount)
	assert.False(t, resp.Truncated)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, float64(200), resp.Rows[0]["status_code"])
}

func TestRunQuery_TruncatesLargeResults(t *testing.T) {
	rows := make([]query.ResultRow, maxResponseRows+50)
	for i := range rows {
		rows[i] = query.ResultRow{"user_id": fmt.Sprintf("u%d", i), "COUNT": float64(1)}
	}
	api := &mockAPI{
		queryResult: &query.Result{Rows: rows, CountColumn: "COUNT"},
	}
	s := newTestServer(api)

	text, isError := callTool(t, s, "run_query", map[string]any{
		"dataset": "api-gateway",
		"query": map[string]any{
			"calculations": []any{map[string]any{"op": "COUNT"}},
			"breakdowns":   []any{"user_id"},
		},
	})
	require.False(t, isError)

	var resp runQueryResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.True(t, resp.Truncated)
	assert.Equal(t, maxResponseRows+50, resp.RowCount)
	assert.Len(t, resp.Rows, maxResponseRows)
}

func TestRunQuery_MissingQuery(t *testing.T) {
	s := newTestServer(&mockAPI{})

	// "query" is declared required, so the protocol layer may reject the
	// call outright; when arguments pass through, the handler reports the
	// missing parameter itself.
	text, isError := callTool(t, s, "run_query", map[string]any{
		"dataset": "api-gateway",
		"query":   nil,
	})
	require.True(t, isError)

	resp := decodeErrorResponse(t, text)
	assert.Equal(t, "invalid_parameters", resp.Code)
}

func TestRunQuery_NoCalculations(t *testing.T) {
	s := newTestServer(&mockAPI{})

	text, isError := callTool(t, s, "run_query", map[string]any{
		"dataset": "api-gateway",
		"query":   map[string]any{"breakdowns": []any{"status_code"}},
	})
	require.True(t, isError)

	resp := decodeErrorResponse(t, text)
	assert.Equal(t, "invalid_parameters", resp.Code)
	assert.Contains(t, resp.Message, "calculation")
}

func TestRunQuery_InvalidQueryShape(t *testing.T) {
	s := newTestServer(&mockAPI{})

	text, isError := callTool(t, s, "run_query", map[string]any{
		"dataset": "api-gateway",
		"query":   map[string]any{"calculations": "COUNT"},
	})
	require.True(t, isError)

	resp := decodeErrorResponse(t, text)
	assert.Equal(t, "invalid_parameters", resp.Code)
}

func TestRunQuery_UpstreamInvalidQuery(t *testing.T) {
	api := &mockAPI{
		err: apperrors.NewUpstreamError(422, "unknown column: nope", nil),
	}
	s := newTestServer(api)

	text, isError := callTool(t, s, "run_query", map[string]any{
		"dataset": "api-gateway",
		"query": map[string]any{
			"calculations": []any{map[string]any{"op": "COUNT"}},
			"breakdowns":   []any{"nope"},
		},
	})
	require.True(t, isError)

	resp := decodeErrorResponse(t, text)
	assert.Equal(t, "invalid_query", resp.Code)
}
