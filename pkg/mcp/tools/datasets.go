package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/honeycomb"
)

// datasetSummary is the listing projection of a dataset.
type datasetSummary struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Description   string `json:"description,omitempty"`
	LastWrittenAt string `json:"last_written_at,omitempty"`
}

// listDatasetsResponse is the response format for the list_datasets tool.
type listDatasetsResponse struct {
	Environment string           `json:"environment"`
	Datasets    []datasetSummary `json:"datasets"`
	Count       int              `json:"count"`
}

// getDatasetResponse is the response format for the get_dataset tool.
type getDatasetResponse struct {
	Environment string            `json:"environment"`
	Dataset     honeycomb.Dataset `json:"dataset"`
}

// columnSummary is the listing projection of a dataset column.
type columnSummary struct {
	KeyName     string `json:"key_name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
	LastWritten string `json:"last_written,omitempty"`
}

// listColumnsResponse is the response format for the list_columns tool.
type listColumnsResponse struct {
	Environment string          `json:"environment"`
	Dataset     string          `json:"dataset"`
	Columns     []columnSummary `json:"columns"`
	Count       int             `json:"count"`
}

// RegisterDatasetTools registers dataset and column metadata MCP tools.
func RegisterDatasetTools(s *server.MCPServer, deps *Deps) {
	registerListDatasetsTool(s, deps)
	registerGetDatasetTool(s, deps)
	registerListColumnsTool(s, deps)
}

// registerListDatasetsTool adds the list_datasets tool.
func registerListDatasetsTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"list_datasets",
		mcp.WithDescription(
			"List all datasets in a Honeycomb environment. "+
				"Returns dataset names, slugs and descriptions. "+
				"Use the slug as the dataset parameter for other tools. "+
				"Example: list_datasets(environment='production')",
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
		environment := resolveEnvironment(req, deps)

		datasets, err := cachedFetch(ctx, deps, "datasets:"+environment, func(ctx context.Context) ([]honeycomb.Dataset, error) {
			return deps.API.ListDatasets(ctx, environment)
		})
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to list datasets: %w", err)
		}

		summaries := make([]datasetSummary, 0, len(datasets))
		for _, d := range datasets {
			summaries = append(summaries, datasetSummary{
				Name:          d.Name,
				Slug:          d.Slug,
				Description:   d.Description,
				LastWrittenAt: d.LastWrittenAt,
			})
		}

		return marshalResult(listDatasetsResponse{
			Environment: environment,
			Datasets:    summaries,
			Count:       len(summaries),
		})
	})
}

// registerGetDatasetTool adds the get_dataset tool.
func registerGetDatasetTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"get_dataset",
		mcp.WithDescription(
			"Get full details for a single dataset by slug. "+
				"Example: get_dataset(dataset='api-gateway')",
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

		ds, err := deps.API.GetDataset(ctx, environment, dataset)
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to get dataset: %w", err)
		}

		return marshalResult(getDatasetResponse{
			Environment: environment,
			Dataset:     *ds,
		})
	})
}

// registerListColumnsTool adds the list_columns tool.
func registerListColumnsTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"list_columns",
		mcp.WithDescription(
			"List the columns of a dataset with their types. "+
				"Use this to discover which columns exist before running queries or analyzing columns. "+
				"Example: list_columns(dataset='api-gateway')",
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

		columns, err := cachedFetch(ctx, deps, "columns:"+environment+":"+dataset, func(ctx context.Context) ([]honeycomb.Column, error) {
			return deps.API.ListColumns(ctx, environment, dataset)
		})
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to list columns: %w", err)
		}

		summaries := make([]columnSummary, 0, len(columns))
		for _, c := range columns {
			summaries = append(summaries, columnSummary{
				KeyName:     c.KeyName,
				Type:        c.Type,
				Description: c.Description,
				Hidden:      c.Hidden,
				LastWritten: c.LastWritten,
			})
		}

		return marshalResult(listColumnsResponse{
			Environment: environment,
			Dataset:     dataset,
			Columns:     summaries,
			Count:       len(summaries),
		})
	})
}
