package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// markerSummary is the listing projection of a marker.
type markerSummary struct {
	ID        string `json:"id"`
	Message   string `json:"message,omitempty"`
	Type      string `json:"type,omitempty"`
	URL       string `json:"url,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// listMarkersResponse is the response format for the list_markers tool.
type listMarkersResponse struct {
	Environment string          `json:"environment"`
	Dataset     string          `json:"dataset"`
	Markers     []markerSummary `json:"markers"`
	Count       int             `json:"count"`
}

// unixToRFC3339 renders a unix timestamp; zero means the field was absent.
func unixToRFC3339(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

// RegisterMarkerTools registers marker MCP tools.
func RegisterMarkerTools(s *server.MCPServer, deps *Deps) {
	registerListMarkersTool(s, deps)
}

// registerListMarkersTool adds the list_markers tool.
func registerListMarkersTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"list_markers",
		mcp.WithDescription(
			"List markers (deploy/incident annotations) on a dataset. "+
				"Markers explain sudden changes in query results. "+
				"Example: list_markers(dataset='api-gateway')",
		),
		mcp.WithString(
			"dataset",
			mcp.Required(),
			mcp.Description("Dataset slug (from list_datasets)"),
		),
		mcp.WithString(
			"environment",
			mcp.Description("Honeycomb environment name. Defaults to the only configured environment."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dataset, err := req.RequireString("dataset")
		if err != nil {
			return nil, err
		}
		dataset = trimString(dataset)
		if dataset == "" {
			return NewErrorResult("invalid_parameters", "parameter 'dataset' cannot be empty"), nil
		}
		environment := resolveEnvironment(req, deps)

		markers, err := deps.API.ListMarkers(ctx, environment, dataset)
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to list markers: %w", err)
		}

		summaries := make([]markerSummary, 0, len(markers))
		for _, m := range markers {
			summaries = append(summaries, markerSummary{
				ID:        m.ID,
				Message:   m.Message,
				Type:      m.Type,
				URL:       m.URL,
				StartTime: unixToRFC3339(m.StartTime),
				EndTime:   unixToRFC3339(m.EndTime),
			})
		}

		return marshalResult(listMarkersResponse{
			Environment: environment,
			Dataset:     dataset,
			Markers:     summaries,
			Count:       len(summaries),
		})
	})
}
