package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// recipientSummary is the listing projection of a notification recipient.
type recipientSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type"`
	Target string `json:"target,omitempty"`
}

// listRecipientsResponse is the response format for the list_recipients tool.
type listRecipientsResponse struct {
	Environment string             `json:"environment"`
	Recipients  []recipientSummary `json:"recipients"`
	Count       int                `json:"count"`
}

// RegisterRecipientTools registers recipient MCP tools.
func RegisterRecipientTools(s *server.MCPServer, deps *Deps) {
	registerListRecipientsTool(s, deps)
}

// registerListRecipientsTool adds the list_recipients tool.
func registerListRecipientsTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"list_recipients",
		mcp.WithDescription(
			"List notification recipients (email, Slack, PagerDuty, webhooks) "+
				"available for triggers and SLO burn alerts in an environment. "+
				"Example: list_recipients(environment='production')",
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

		recipients, err := deps.API.ListRecipients(ctx, environment)
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to list recipients: %w", err)
		}

		summaries := make([]recipientSummary, 0, len(recipients))
		for _, r := range recipients {
			summaries = append(summaries, recipientSummary{
				ID:     r.ID,
				Name:   r.Name,
				Type:   r.Type,
				Target: r.Target,
			})
		}

		return marshalResult(listRecipientsResponse{
			Environment: environment,
			Recipients:  summaries,
			Count:       len(summaries),
		})
	})
}
