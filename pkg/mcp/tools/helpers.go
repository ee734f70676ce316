// Package tools provides the MCP tool implementations for honeycomb-mcp.
// Each tool follows the same shape: validate parameters, invoke one
// Honeycomb API method, project the result down to the fields a context
// window needs, and return a JSON envelope.
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/config"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/query"
)

// resolveEnvironment picks the environment for a tool call. An explicit
// parameter wins; with a single configured environment the parameter is
// unnecessary.
func resolveEnvironment(req mcp.CallToolRequest, deps *Deps) string {
	if env := getOptionalString(req, "environment"); env != "" {
		return env
	}
	envs := deps.API.Environments()
	if len(envs) == 1 {
		return envs[0]
	}
	return config.DefaultEnvironment
}

// trimString removes leading and trailing whitespace from a string.
// This is a common helper used across MCP tool parameter validation.
func trimString(s string) string {
	return strings.TrimSpace(s)
}

// getOptionalString returns a string argument, or "" when absent.
func getOptionalString(req mcp.CallToolRequest, key string) string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := args[key].(string)
	return trimString(s)
}

// getOptionalInt returns an integer argument, or fallback when absent.
// JSON numbers arrive as float64.
func getOptionalInt(req mcp.CallToolRequest, key string, fallback int) int {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return fallback
	}
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

// getOptionalStringSlice returns a string-array argument, or nil when
// absent. A non-string element yields an error naming its index.
func getOptionalStringSlice(req mcp.CallToolRequest, key string) ([]string, error) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil, nil
	}
	raw, ok := args[key].([]any)
	if !ok {
		return nil, nil
	}

	out := make([]string, 0, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %q must be an array of strings. Element at index %d is %T, not string", key, i, v)
		}
		out = append(out, s)
	}
	return out, nil
}

// parseQuerySpec decodes the "query" argument into a query.Spec via a JSON
// round trip, so the tool accepts the same shape the Honeycomb API does.
func parseQuerySpec(req mcp.CallToolRequest) (*query.Spec, error) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil, nil
	}
	raw, ok := args["query"]
	if !ok || raw == nil {
		return nil, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("parameter %q is not valid JSON: %w", "query", err)
	}
	var spec query.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parameter %q does not match the query specification shape: %w", "query", err)
	}
	return &spec, nil
}

// marshalResult encodes a response struct as the tool's JSON text result.
func marshalResult(response any) (*mcp.CallToolResult, error) {
	jsonResult, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonResult)), nil
}
