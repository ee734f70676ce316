package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/honeycomb"
)

// triggerSummary is the listing projection of a trigger.
type triggerSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Disabled  bool   `json:"disabled"`
	Triggered bool   `json:"triggered"`
	URL       string `json:"url,omitempty"`
}

// listTriggersResponse is the response format for the list_triggers tool.
type listTriggersResponse struct {
	Environment string           `json:"environment"`
	Dataset     string           `json:"dataset"`
	Triggers    []triggerSummary `json:"triggers"`
	Count       int              `json:"count"`
}

// triggerThresholdDetail renders a trigger's alert condition.
type triggerThresholdDetail struct {
	Op    string  `json:"op"`
	Value float64 `json:"value"`
}

// getTriggerResponse is the response format for the get_trigger tool.
type getTriggerResponse struct {
	Environment      string                  `json:"environment"`
	Dataset          string                  `json:"dataset"`
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Description      string                  `json:"description,omitempty"`
	Threshold        *triggerThresholdDetail `json:"threshold,omitempty"`
	FrequencySeconds int                     `json:"frequency_seconds"`
	Disabled         bool                    `json:"disabled"`
	Triggered        bool                    `json:"triggered"`
	Recipients       []recipientSummary      `json:"recipients,omitempty"`
	URL              string                  `json:"url,omitempty"`
}

// triggerURL builds the UI deep link for a trigger.
func triggerURL(uiURL, dataset, triggerID string) string {
	if uiURL == "" || triggerID == "" {
		return ""
	}
	return fmt.Sprintf("%s/datasets/%s/triggers/%s", uiURL, dataset, triggerID)
}

// RegisterTriggerTools registers trigger MCP tools.
func RegisterTriggerTools(s *server.MCPServer, deps *Deps) {
	registerListTriggersTool(s, deps)
	registerGetTriggerTool(s, deps)
}

// registerListTriggersTool adds the list_triggers tool.
func registerListTriggersTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"list_triggers",
		mcp.WithDescription(
			"List threshold alert triggers on a dataset, including whether "+
				"each one is currently firing. "+
				"Example: list_triggers(dataset='api-gateway')",
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

		triggers, err := deps.API.ListTriggers(ctx, environment, dataset)
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to list triggers: %w", err)
		}

		summaries := make([]triggerSummary, 0, len(triggers))
		for _, t := range triggers {
			summaries = append(summaries, triggerSummary{
				ID:        t.ID,
				Name:      t.Name,
				Disabled:  t.Disabled,
				Triggered: t.Triggered,
				URL:       triggerURL(deps.API.UIURL(), dataset, t.ID),
			})
		}

		return marshalResult(listTriggersResponse{
			Environment: environment,
			Dataset:     dataset,
			Triggers:    summaries,
			Count:       len(summaries),
		})
	})
}

// registerGetTriggerTool adds the get_trigger tool.
func registerGetTriggerTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"get_trigger",
		mcp.WithDescription(
			"Get a single trigger with its threshold, check frequency and "+
				"notification recipients. "+
				"Example: get_trigger(dataset='api-gateway', trigger_id='abc123')",
		),
		mcp.WithString(
			"dataset",
			mcp.Required(),
			mcp.Description("Dataset slug (from list_datasets)"),
		),
		mcp.WithString(
			"trigger_id",
			mcp.Required(),
			mcp.Description("Trigger ID (from list_triggers)"),
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
		triggerID, err := req.RequireString("trigger_id")
		if err != nil {
			return nil, err
		}
		triggerID = trimString(triggerID)
		if triggerID == "" {
			return NewErrorResult("invalid_parameters", "parameter 'trigger_id' cannot be empty"), nil
		}
		environment := resolveEnvironment(req, deps)

		trigger, err := deps.API.GetTrigger(ctx, environment, dataset, triggerID)
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to get trigger: %w", err)
		}

		return marshalResult(buildGetTriggerResponse(environment, dataset, trigger, deps.API.UIURL()))
	})
}

// buildGetTriggerResponse projects a trigger into the tool response.
func buildGetTriggerResponse(environment, dataset string, trigger *honeycomb.Trigger, uiURL string) getTriggerResponse {
	resp := getTriggerResponse{
		Environment:      environment,
		Dataset:          dataset,
		ID:               trigger.ID,
		Name:             trigger.Name,
		Description:      trigger.Description,
		FrequencySeconds: trigger.Frequency,
		Disabled:         trigger.Disabled,
		Triggered:        trigger.Triggered,
		URL:              triggerURL(uiURL, dataset, trigger.ID),
	}
	if trigger.Threshold != nil {
		resp.Threshold = &triggerThresholdDetail{
			Op:    trigger.Threshold.Op,
			Value: trigger.Threshold.Value,
		}
	}
	for _, r := range trigger.Recipients {
		resp.Recipients = append(resp.Recipients, recipientSummary{
			ID:     r.ID,
			Name:   r.Name,
			Type:   r.Type,
			Target: r.Target,
		})
	}
	return resp
}
