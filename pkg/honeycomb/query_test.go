package honeycomb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/apperrors"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/query"
)

// queryServer simulates the create-query, create-result, poll-result flow.
// pendingPolls controls how many polls return complete=false before the
// result is served.
func queryServer(t *testing.T, pendingPolls int, rows []map[string]any) *httptest.Server {
	polls := 0
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/1/queries/api-requests":
			var spec query.Spec
			require.NoError(t, json.NewDecoder(r.Body).Decode(&spec))
			json.NewEncoder(w).Encode(map[string]string{"id": "q-123"})

		case r.Method == http.MethodPost && r.URL.Path == "/1/query_results/api-requests":
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "q-123", req["query_id"])
			assert.Equal(t, true, req["disable_series"])
			json.NewEncoder(w).Encode(map[string]string{"id": "qr-456"})

		case r.Method == http.MethodGet && r.URL.Path == "/1/query_results/api-requests/qr-456":
			polls++
			resp := map[string]any{"id": "qr-456", "complete": polls > pendingPolls}
			if polls > pendingPolls {
				results := make([]map[string]any, 0, len(rows))
				for _, row := range rows {
					results = append(results, map[string]any{"data": row})
				}
				resp["data"] = map[string]any{"results": results}
			}
			json.NewEncoder(w).Encode(resp)

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRunQuery_PollsUntilComplete(t *testing.T) {
	srv := queryServer(t, 2, []map[string]any{
		{"status": "ok", "COUNT": float64(900)},
		{"status": "error", "COUNT": float64(100)},
	})
	defer srv.Close()

	spec := &query.Spec{
		Calculations: []query.Calculation{{Op: "COUNT"}},
		Breakdowns:   []string{"status"},
		TimeRange:    3600,
	}

	result, err := testClient(srv.URL).RunQuery(context.Background(), "production", "api-requests", spec)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, "ok", result.Rows[0]["status"])
	assert.Equal(t, "COUNT", result.CountColumn)
}

func TestRunQuery_NoCountCalculation(t *testing.T) {
	srv := queryServer(t, 0, []map[string]any{{"AVG(duration_ms)": 42.5}})
	defer srv.Close()

	spec := &query.Spec{
		Calculations: []query.Calculation{{Op: "AVG", Column: "duration_ms"}},
	}

	result, err := testClient(srv.URL).RunQuery(context.Background(), "production", "api-requests", spec)
	require.NoError(t, err)
	assert.Equal(t, "", result.CountColumn)
}

func TestRunQuery_NilSpec(t *testing.T) {
	srv := queryServer(t, 0, nil)
	defer srv.Close()

	_, err := testClient(srv.URL).RunQuery(context.Background(), "production", "api-requests", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRunQuery_TimesOutWhenNeverComplete(t *testing.T) {
	srv := queryServer(t, int(^uint(0)>>1), nil) // never completes
	defer srv.Close()

	c := testClient(srv.URL)
	c.queryTimeout = 0 // first incomplete poll exceeds the budget

	spec := &query.Spec{Calculations: []query.Calculation{{Op: "COUNT"}}}
	_, err := c.RunQuery(context.Background(), "production", "api-requests", spec)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrQueryTimeout)
}

func TestRunQuery_ContextCancellation(t *testing.T) {
	srv := queryServer(t, int(^uint(0)>>1), nil)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spec := &query.Spec{Calculations: []query.Calculation{{Op: "COUNT"}}}
	_, err := testClient(srv.URL).RunQuery(ctx, "production", "api-requests", spec)
	require.Error(t, err)
}

func TestRunQuery_UpstreamFailureOnCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "unknown column in query"})
	}))
	defer srv.Close()

	spec := &query.Spec{Calculations: []query.Calculation{{Op: "COUNT"}}}
	_, err := testClient(srv.URL).RunQuery(context.Background(), "production", "api-requests", spec)
	require.Error(t, err)

	ue, ok := apperrors.AsUpstream(err)
	require.True(t, ok)
	assert.Equal(t, 422, ue.StatusCode)
	assert.Contains(t, ue.Message, "unknown column")
}
