package tools

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/analysis"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/honeycomb"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/query"
)

// mockAPI implements HoneycombAPI for testing. Each method returns the
// configured fixture or error and records that it was called.
type mockAPI struct {
	mu    sync.Mutex
	calls []string

	environments []string
	uiURL        string

	datasets   []honeycomb.Dataset
	dataset    *honeycomb.Dataset
	columns    []honeycomb.Column
	boards     []honeycomb.Board
	board      *honeycomb.Board
	markers    []honeycomb.Marker
	recipients []honeycomb.Recipient
	slos       []honeycomb.SLO
	slo        *honeycomb.SLO
	triggers   []honeycomb.Trigger
	trigger    *honeycomb.Trigger

	queryResult *query.Result
	// queryResultsByColumn routes RunQuery by the spec's first breakdown,
	// so analyze_columns tests can give each column its own rows.
	queryResultsByColumn map[string]*query.Result
	queryErrsByColumn    map[string]error

	err error
}

func (m *mockAPI) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockAPI) callCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *mockAPI) Environments() []string {
	if m.environments == nil {
		return []string{"production"}
	}
	return m.environments
}

func (m *mockAPI) UIURL() string { return m.uiURL }

func (m *mockAPI) ListDatasets(ctx context.Context, environment string) ([]honeycomb.Dataset, error) {
	m.record("ListDatasets")
	return m.datasets, m.err
}

func (m *mockAPI) GetDataset(ctx context.Context, environment, slug string) (*honeycomb.Dataset, error) {
	m.record("GetDataset")
	return m.dataset, m.err
}

func (m *mockAPI) ListColumns(ctx context.Context, environment, dataset string) ([]honeycomb.Column, error) {
	m.record("ListColumns")
	return m.columns, m.err
}

func (m *mockAPI) ListBoards(ctx context.Context, environment string) ([]honeycomb.Board, error) {
	m.record("ListBoards")
	return m.boards, m.err
}

func (m *mockAPI) GetBoard(ctx context.Context, environment, boardID string) (*honeycomb.Board, error) {
	m.record("GetBoard")
	return m.board, m.err
}

func (m *mockAPI) ListMarkers(ctx context.Context, environment, dataset string) ([]honeycomb.Marker, error) {
	m.record("ListMarkers")
	return m.markers, m.err
}

func (m *mockAPI) ListRecipients(ctx context.Context, environment string) ([]honeycomb.Recipient, error) {
	m.record("ListRecipients")
	return m.recipients, m.err
}

func (m *mockAPI) ListSLOs(ctx context.Context, environment, dataset string) ([]honeycomb.SLO, error) {
	m.record("ListSLOs")
	return m.slos, m.err
}

func (m *mockAPI) GetSLO(ctx context.Context, environment, dataset, sloID string) (*honeycomb.SLO, error) {
	m.record("GetSLO")
	return m.slo, m.err
}

func (m *mockAPI) ListTriggers(ctx context.Context, environment, dataset string) ([]honeycomb.Trigger, error) {
	m.record("ListTriggers")
	return m.triggers, m.err
}

func (m *mockAPI) GetTrigger(ctx context.Context, environment, dataset, triggerID string) (*honeycomb.Trigger, error) {
	m.record("GetTrigger")
	return m.trigger, m.err
}

func (m *mockAPI) RunQuery(ctx context.Context, environment, dataset string, spec *query.Spec) (*query.Result, error) {
	m.record("RunQuery")
	if len(spec.Breakdowns) > 0 {
		column := spec.Breakdowns[0]
		if err, ok := m.queryErrsByColumn[column]; ok {
			return nil, err
		}
		if result, ok := m.queryResultsByColumn[column]; ok {
			return result, nil
		}
	}
	return m.queryResult, m.err
}

// newTestServer builds an MCP server with every tool registered against
// the given mock.
func newTestServer(api *mockAPI) *server.MCPServer {
	s := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(true))
	deps := &Deps{
		API:      api,
		Analyzer: analysis.NewAnalyzer(api, nil),
	}
	RegisterAll(s, deps)
	return s
}

// callTool invokes a tool through the JSON-RPC surface and returns the
// text payload plus the result's isError flag.
func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) (string, bool) {
	t.Helper()

	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      name,
			"arguments": args,
		},
	}
	data, err := json.Marshal(request)
	require.NoError(t, err)

	raw := s.HandleMessage(context.Background(), data)
	resultBytes, err := json.Marshal(raw)
	require.NoError(t, err)

	var response struct {
		Result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resultBytes, &response))
	require.Nil(t, response.Error, "unexpected JSON-RPC error")
	require.NotEmpty(t, response.Result.Content, "expected content in tool result")
	require.Equal(t, "text", response.Result.Content[0].Type)

	return response.Result.Content[0].Text, response.Result.IsError
}

// decodeErrorResponse parses a structured error payload from a tool result.
func decodeErrorResponse(t *testing.T, text string) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	return resp
}
