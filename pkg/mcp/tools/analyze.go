package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/analysis"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/apperrors"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/query"
)

const (
	// defaultAnalysisTimeRange is the lookback window (seconds) when the
	// caller gives no query specification.
	defaultAnalysisTimeRange = 7200

	// defaultAnalysisRowLimit bounds the groups examined per column.
	defaultAnalysisRowLimit = 1000

	// maxAnalyzeColumns bounds a single analyze_columns call.
	maxAnalyzeColumns = 10

	// analyzeConcurrency is the fan-out width for analyze_columns.
	analyzeConcurrency = 5
)

// analyzeColumnResponse is the response format for the analyze_column tool.
type analyzeColumnResponse struct {
	Environment string                   `json:"environment"`
	Dataset     string                   `json:"dataset"`
	Analysis    *analysis.ColumnAnalysis `json:"analysis"`
}

// columnAnalysisEntry is one column's outcome in an analyze_columns
// response. A failed column carries an error message instead of a report.
type columnAnalysisEntry struct {
	Column   string                   `json:"column"`
	Analysis *analysis.ColumnAnalysis `json:"analysis,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// analyzeColumnsResponse is the response format for the analyze_columns tool.
type analyzeColumnsResponse struct {
	Environment string                `json:"environment"`
	Dataset     string                `json:"dataset"`
	Results     []columnAnalysisEntry `json:"results"`
	Count       int                   `json:"count"`
}

// defaultAnalysisSpec builds the grouped COUNT query used when the caller
// does not supply a query specification for a column.
func defaultAnalysisSpec(column string, timeRange int) *query.Spec {
	if timeRange <= 0 {
		timeRange = defaultAnalysisTimeRange
	}
	return &query.Spec{
		Calculations: []query.Calculation{{Op: "COUNT"}},
		Breakdowns:   []string{column},
		TimeRange:    timeRange,
		Limit:        defaultAnalysisRowLimit,
	}
}

// RegisterAnalyzeTools registers the column analysis MCP tools.
func RegisterAnalyzeTools(s *server.MCPServer, deps *Deps) {
	registerAnalyzeColumnTool(s, deps)
	registerAnalyzeColumnsTool(s, deps)
}

// registerAnalyzeColumnTool adds the analyze_column tool.
func registerAnalyzeColumnTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"analyze_column",
		mcp.WithDescription(
			"Analyze the distribution of one column in a dataset. "+
				"Runs a grouped COUNT query over the column and returns top values "+
				"with percentages, cardinality classification, and for numeric "+
				"columns min/max/avg/p95/median/sum/range/stdDev with a plain-text "+
				"interpretation. "+
				"Example: analyze_column(dataset='api-gateway', column='status_code')",
		),
		mcp.WithString(
			"dataset",
			mcp.Required(),
			mcp.Description("Dataset slug (from list_datasets)"),
		),
		mcp.WithString(
			"column",
			mcp.Required(),
			mcp.Description("Column to analyze (from list_columns)"),
		),
		mcp.WithString(
			"environment",
			mcp.Description("Honeycomb environment name. Defaults to the only configured environment."),
		),
		mcp.WithNumber(
			"time_range",
			mcp.Description("Lookback window in seconds (default 7200)"),
		),
		mcp.WithNumber(
			"top_values",
			mcp.Description("How many most-frequent values to return (default 5)"),
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
		column, err := req.RequireString("column")
		if err != nil {
			return nil, err
		}
		column = trimString(column)
		if column == "" {
			return NewErrorResult("invalid_parameters", "parameter 'column' cannot be empty"), nil
		}

		environment := resolveEnvironment(req, deps)
		timeRange := getOptionalInt(req, "time_range", defaultAnalysisTimeRange)
		topLimit := getOptionalInt(req, "top_values", analysis.DefaultTopValueLimit)

		report, err := deps.Analyzer.AnalyzeColumn(ctx, analysis.AnalyzeRequest{
			Environment:   environment,
			Dataset:       dataset,
			Column:        column,
			Spec:          defaultAnalysisSpec(column, timeRange),
			TopValueLimit: topLimit,
		})
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to analyze column: %w", err)
		}

		return marshalResult(analyzeColumnResponse{
			Environment: environment,
			Dataset:     dataset,
			Analysis:    report,
		})
	})
}

// registerAnalyzeColumnsTool adds the analyze_columns tool.
func registerAnalyzeColumnsTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"analyze_columns",
		mcp.WithDescription(
			"Analyze several columns of a dataset in one call. Each column is "+
				"analyzed independently with its own grouped COUNT query; one "+
				"column failing does not abort the others. Results come back in "+
				"the order the columns were given. "+
				fmt.Sprintf("At most %d columns per call. ", maxAnalyzeColumns)+
				"Example: analyze_columns(dataset='api-gateway', columns=['status_code', 'duration_ms'])",
		),
		mcp.WithString(
			"dataset",
			mcp.Required(),
			mcp.Description("Dataset slug (from list_datasets)"),
		),
		mcp.WithArray(
			"columns",
			mcp.Required(),
			mcp.Description("Columns to analyze (from list_columns)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString(
			"environment",
			mcp.Description("Honeycomb environment name. Defaults to the only configured environment."),
		),
		mcp.WithNumber(
			"time_range",
			mcp.Description("Lookback window in seconds (default 7200)"),
		),
		mcp.WithNumber(
			"top_values",
			mcp.Description("How many most-frequent values to return per column (default 5)"),
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

		columns, err := getOptionalStringSlice(req, "columns")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		columns = dedupeColumns(columns)
		if len(columns) == 0 {
			return NewErrorResult("invalid_parameters", "parameter 'columns' must name at least one column"), nil
		}
		if len(columns) > maxAnalyzeColumns {
			return NewErrorResult("invalid_parameters",
				fmt.Sprintf("parameter 'columns' names %d columns; the maximum per call is %d", len(columns), maxAnalyzeColumns)), nil
		}

		environment := resolveEnvironment(req, deps)
		timeRange := getOptionalInt(req, "time_range", defaultAnalysisTimeRange)
		topLimit := getOptionalInt(req, "top_values", analysis.DefaultTopValueLimit)

		entries := make([]columnAnalysisEntry, len(columns))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(analyzeConcurrency)

		for i, column := range columns {
			g.Go(func() error {
				report, err := deps.Analyzer.AnalyzeColumn(gctx, analysis.AnalyzeRequest{
					Environment:   environment,
					Dataset:       dataset,
					Column:        column,
					Spec:          defaultAnalysisSpec(column, timeRange),
					TopValueLimit: topLimit,
				})
				if err != nil {
					deps.logger().Debug("column analysis failed",
						zap.String("dataset", dataset),
						zap.String("column", column),
						zap.Error(err))
					entries[i] = columnAnalysisEntry{Column: column, Error: columnErrorMessage(err)}
					return nil
				}
				entries[i] = columnAnalysisEntry{Column: column, Analysis: report}
				return nil
			})
		}
		// Per-column failures are captured in the entries, so Wait only
		// propagates context cancellation.
		if err := g.Wait(); err != nil {
			return nil, err
		}

		return marshalResult(analyzeColumnsResponse{
			Environment: environment,
			Dataset:     dataset,
			Results:     entries,
			Count:       len(entries),
		})
	})
}

// dedupeColumns drops empty and repeated column names, keeping first-seen
// order.
func dedupeColumns(columns []string) []string {
	seen := make(map[string]struct{}, len(columns))
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		c = trimString(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// columnErrorMessage renders a per-column analysis failure for the
// response entry, preferring the upstream message over wrapper noise.
func columnErrorMessage(err error) string {
	if ue, ok := apperrors.AsUpstream(err); ok {
		return ue.Message
	}
	return err.Error()
}
