package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// sloSummary is the listing projection of an SLO.
type sloSummary struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	TimePeriodDays int     `json:"time_period_days"`
	TargetPercent  float64 `json:"target_percent"`
	URL            string  `json:"url,omitempty"`
}

// listSLOsResponse is the response format for the list_slos tool.
type listSLOsResponse struct {
	Environment string       `json:"environment"`
	Dataset     string       `json:"dataset"`
	SLOs        []sloSummary `json:"slos"`
	Count       int          `json:"count"`
}

// getSLOResponse is the response format for the get_slo tool.
type getSLOResponse struct {
	Environment    string  `json:"environment"`
	Dataset        string  `json:"dataset"`
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	TimePeriodDays int     `json:"time_period_days"`
	TargetPercent  float64 `json:"target_percent"`
	SLIAlias       string  `json:"sli_alias,omitempty"`
	ResetAt        string  `json:"reset_at,omitempty"`
	URL            string  `json:"url,omitempty"`
}

// targetPercent converts the API's per-million target to a percentage.
func targetPercent(perMillion int) float64 {
	return float64(perMillion) / 10000.0
}

// sloURL builds the UI deep link for an SLO.
func sloURL(uiURL, dataset, sloID string) string {
	if uiURL == "" || sloID == "" {
		return ""
	}
	return fmt.Sprintf("%s/datasets/%s/slos/%s", uiURL, dataset, sloID)
}

// RegisterSLOTools registers SLO MCP tools.
func RegisterSLOTools(s *server.MCPServer, deps *Deps) {
	registerListSLOsTool(s, deps)
	registerGetSLOTool(s, deps)
}

// registerListSLOsTool adds the list_slos tool.
func registerListSLOsTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"list_slos",
		mcp.WithDescription(
			"List service level objectives defined over a dataset. "+
				"Example: list_slos(dataset='api-gateway')",
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

		slos, err := deps.API.ListSLOs(ctx, environment, dataset)
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to list SLOs: %w", err)
		}

		summaries := make([]sloSummary, 0, len(slos))
		for _, s := range slos {
			summaries = append(summaries, sloSummary{
				ID:             s.ID,
				Name:           s.Name,
				Description:    s.Description,
				TimePeriodDays: s.TimePeriodDays,
				TargetPercent:  targetPercent(s.TargetPerMillion),
				URL:            sloURL(deps.API.UIURL(), dataset, s.ID),
			})
		}

		return marshalResult(listSLOsResponse{
			Environment: environment,
			Dataset:     dataset,
			SLOs:        summaries,
			Count:       len(summaries),
		})
	})
}

// registerGetSLOTool adds the get_slo tool.
func registerGetSLOTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"get_slo",
		mcp.WithDescription(
			"Get a single SLO with its SLI reference and reset time. "+
				"Example: get_slo(dataset='api-gateway', slo_id='abc123')",
		),
		mcp.WithString(
			"dataset",
			mcp.Required(),
			mcp.Description("Dataset slug (from list_datasets)"),
		),
		mcp.WithString(
			"slo_id",
			mcp.Required(),
			mcp.Description("SLO ID (from list_slos)"),
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
		sloID, err := req.RequireString("slo_id")
		if err != nil {
			return nil, err
		}
		sloID = trimString(sloID)
		if sloID == "" {
			return NewErrorResult("invalid_parameters", "parameter 'slo_id' cannot be empty"), nil
		}
		environment := resolveEnvironment(req, deps)

		slo, err := deps.API.GetSLO(ctx, environment, dataset, sloID)
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to get SLO: %w", err)
		}

		resp := getSLOResponse{
			Environment:    environment,
			Dataset:        dataset,
			ID:             slo.ID,
			Name:           slo.Name,
			Description:    slo.Description,
			TimePeriodDays: slo.TimePeriodDays,
			TargetPercent:  targetPercent(slo.TargetPerMillion),
			ResetAt:        slo.ResetAt,
			URL:            sloURL(deps.API.UIURL(), dataset, slo.ID),
		}
		if slo.SLI != nil {
			resp.SLIAlias = slo.SLI.Alias
		}

		return marshalResult(resp)
	})
}
