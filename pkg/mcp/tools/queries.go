package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/query"
)

// maxResponseRows caps the rows returned in a run_query tool result. The
// full result set still drives aggregation upstream; the cap only bounds
// what lands in the MCP client's context window.
const maxResponseRows = 100

// runQueryResponse is the response format for the run_query tool.
type runQueryResponse struct {
	Environment string            `json:"environment"`
	Dataset     string            `json:"dataset"`
	Rows        []query.ResultRow `json:"rows"`
	RowCount    int               `json:"row_count"`
	Truncated   bool              `json:"truncated,omitempty"`
}

// RegisterQueryTools registers query execution MCP tools.
func RegisterQueryTools(s *server.MCPServer, deps *Deps) {
	registerRunQueryTool(s, deps)
}

// registerRunQueryTool adds the run_query tool.
func registerRunQueryTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"run_query",
		mcp.WithDescription(
			"Run an analytics query against a dataset and return the result rows. "+
				"The query object uses the Honeycomb query specification: "+
				"calculations (e.g. [{\"op\":\"COUNT\"}]), breakdowns (group-by columns), "+
				"filters, orders, time_range (seconds back from now) or "+
				"start_time/end_time, granularity, and limit. "+
				"Example: run_query(dataset='api-gateway', "+
				"query={\"calculations\":[{\"op\":\"COUNT\"}],\"breakdowns\":[\"status_code\"],\"time_range\":3600})",
		),
		mcp.WithString(
			"dataset",
			mcp.Required(),
			mcp.Description("Dataset slug (from list_datasets)"),
		),
		mcp.WithObject(
			"query",
			mcp.Required(),
			mcp.Description("Query specification (calculations, breakdowns, filters, time_range, ...)"),
		),
		mcp.WithString(
			"environment",
			mcp.Description("Honeycomb environment name. Defaults to the only configured environment."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
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

		spec, err := parseQuerySpec(req)
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		if spec == nil {
			return NewErrorResult("invalid_parameters", "parameter 'query' is required"), nil
		}
		if len(spec.Calculations) == 0 {
			return NewErrorResult("invalid_parameters", "query must include at least one calculation (e.g. {\"op\":\"COUNT\"})"), nil
		}

		environment := resolveEnvironment(req, deps)

		result, err := deps.API.RunQuery(ctx, environment, dataset, spec)
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to run query: %w", err)
		}

		rows := result.Rows
		truncated := false
		if len(rows) > maxResponseRows {
			deps.logger().Debug("truncating query result rows",
				zap.Int("total", len(rows)),
				zap.Int("returned", maxResponseRows))
			rows = rows[:maxResponseRows]
			truncated = true
		}

		return marshalResult(runQueryResponse{
			Environment: environment,
			Dataset:     dataset,
			Rows:        rows,
			RowCount:    len(result.Rows),
			Truncated:   truncated,
		})
	})
}
