package mcp

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/logging"
)

// CallLogger records every tool invocation with a correlation ID and
// duration. The stdio transport has no HTTP middleware to hang logging on,
// so this uses mcp-go's hook points instead.
type CallLogger struct {
	logger *zap.Logger

	// startTimes tracks when tool calls begin, keyed by request ID.
	startTimes sync.Map
}

type callState struct {
	callID  string
	started time.Time
}

// NewCallLogger creates a CallLogger writing to logger.
func NewCallLogger(logger *zap.Logger) *CallLogger {
	return &CallLogger{
		logger: logger.Named("mcp-calls"),
	}
}

// Hooks returns mcp-go Hooks configured to capture tool call events.
func (c *CallLogger) Hooks() *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(c.beforeCallTool)
	hooks.AddAfterCallTool(c.afterCallTool)
	hooks.AddOnError(c.onError)
	return hooks
}

func (c *CallLogger) beforeCallTool(ctx context.Context, id any, message *mcplib.CallToolRequest) {
	state := callState{
		callID:  uuid.NewString(),
		started: time.Now(),
	}
	c.startTimes.Store(id, state)

	c.logger.Debug("tool call started",
		zap.String("call_id", state.callID),
		zap.String("tool", message.Params.Name))
}

func (c *CallLogger) afterCallTool(ctx context.Context, id any, message *mcplib.CallToolRequest, result *mcplib.CallToolResult) {
	state, ok := c.takeState(id)
	if !ok {
		return
	}

	fields := []zap.Field{
		zap.String("call_id", state.callID),
		zap.String("tool", message.Params.Name),
		zap.Duration("duration", time.Since(state.started)),
	}
	if result != nil && result.IsError {
		c.logger.Info("tool call returned error result", fields...)
		return
	}
	c.logger.Debug("tool call completed", fields...)
}

func (c *CallLogger) onError(ctx context.Context, id any, method mcplib.MCPMethod, message any, err error) {
	state, ok := c.takeState(id)

	fields := []zap.Field{
		zap.String("method", string(method)),
		zap.String("error", logging.SanitizeError(err)),
	}
	if ok {
		fields = append(fields,
			zap.String("call_id", state.callID),
			zap.Duration("duration", time.Since(state.started)))
	}
	c.logger.Warn("MCP request failed", fields...)
}

// takeState removes and returns the call state recorded by beforeCallTool.
func (c *CallLogger) takeState(id any) (callState, bool) {
	v, ok := c.startTimes.LoadAndDelete(id)
	if !ok {
		return callState{}, false
	}
	state, ok := v.(callState)
	return state, ok
}
