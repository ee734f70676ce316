package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

func TestNewServer(t *testing.T) {
	logger := zap.NewNop()
	s := NewServer("honeycomb-mcp", "1.0.0", logger)

	if s == nil {
		t.Fatal("expected non-nil server")
	}
	if s.mcp == nil {
		t.Fatal("expected non-nil mcp server")
	}
	if s.logger != logger {
		t.Error("expected logger to be set")
	}
}

func TestNewServer_NilLogger(t *testing.T) {
	s := NewServer("honeycomb-mcp", "1.0.0", nil)
	if s.logger == nil {
		t.Fatal("expected nop logger substitution")
	}
}

func TestServer_MCP(t *testing.T) {
	s := NewServer("honeycomb-mcp", "1.0.0", zap.NewNop())

	mcpServer := s.MCP()
	if mcpServer == nil {
		t.Fatal("expected non-nil mcp server from MCP()")
	}
	if mcpServer != s.mcp {
		t.Error("expected MCP() to return the internal mcp server")
	}
}

func TestServer_RegisterTool(t *testing.T) {
	s := NewServer("honeycomb-mcp", "1.0.0", zap.NewNop())

	tool := mcp.NewTool("test-tool", mcp.WithDescription("A test tool"))
	s.RegisterTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("success"), nil
	})
}

func TestServer_NewStreamableHTTPServer(t *testing.T) {
	s := NewServer("honeycomb-mcp", "1.0.0", zap.NewNop())

	httpServer := s.NewStreamableHTTPServer()
	if httpServer == nil {
		t.Fatal("expected non-nil HTTP server")
	}
}

func TestCallLogger_StateLifecycle(t *testing.T) {
	cl := NewCallLogger(zap.NewNop())

	req := &mcp.CallToolRequest{}
	req.Params.Name = "list_datasets"

	cl.beforeCallTool(context.Background(), "req-1", req)
	if _, ok := cl.startTimes.Load("req-1"); !ok {
		t.Fatal("expected start state to be recorded")
	}

	cl.afterCallTool(context.Background(), "req-1", req, mcp.NewToolResultText("{}"))
	if _, ok := cl.startTimes.Load("req-1"); ok {
		t.Error("expected start state to be cleared after completion")
	}
}

func TestCallLogger_OnErrorWithoutState(t *testing.T) {
	cl := NewCallLogger(zap.NewNop())
	// Must not panic for request IDs it never saw.
	cl.onError(context.Background(), "unknown", "tools/call", nil, context.DeadlineExceeded)
}
