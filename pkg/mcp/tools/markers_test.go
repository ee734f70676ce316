package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/honeycomb"
)

func TestListMarkers(t *testing.T) {
	api := &mockAPI{
		markers: []honeycomb.Marker{
			{ID: "m1", Message: "deploy 2025-08-29", Type: "deploy", StartTime: 1756425600},
			{ID: "m2", Message: "incident start", Type: "incident"},
		},
	}
	s := newTestServer(api)

	text, isError := callTool(t, s, "list_markers", map[string]any{"dataset": "api-gateway"})
	require.False(t, isError)

	var resp listMarkersResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "deploy", resp.Markers[0].Type)
	assert.Equal(t, "2025-08-29T00:00:00Z", resp.Markers[0].StartTime)
	assert.Empty(t, resp.Markers[1].StartTime, "zero timestamp stays empty")
}

func TestListMarkers_EmptyDataset(t *testing.T) {
	s := newTestServer(&mockAPI{})

	text, isError := callTool(t, s, "list_markers", map[string]any{"dataset": " "})
	require.True(t, isError)

	resp := decodeErrorResponse(t, text)
	assert.Equal(t, "invalid_parameters", resp.Code)
}
