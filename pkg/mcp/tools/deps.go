package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/analysis"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/cache"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/honeycomb"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/query"
)

// HoneycombAPI is the subset of the Honeycomb client the tools depend on.
// *honeycomb.Client implements it; tests substitute a mock.
type HoneycombAPI interface {
	Environments() []string
	UIURL() string

	ListDatasets(ctx context.Context, environment string) ([]honeycomb.Dataset, error)
	GetDataset(ctx context.Context, environment, slug string) (*honeycomb.Dataset, error)
	ListColumns(ctx context.Context, environment, dataset string) ([]honeycomb.Column, error)
	ListBoards(ctx context.Context, environment string) ([]honeycomb.Board, error)
	GetBoard(ctx context.Context, environment, boardID string) (*honeycomb.Board, error)
	ListMarkers(ctx context.Context, environment, dataset string) ([]honeycomb.Marker, error)
	ListRecipients(ctx context.Context, environment string) ([]honeycomb.Recipient, error)
	ListSLOs(ctx context.Context, environment, dataset string) ([]honeycomb.SLO, error)
	GetSLO(ctx context.Context, environment, dataset, sloID string) (*honeycomb.SLO, error)
	ListTriggers(ctx context.Context, environment, dataset string) ([]honeycomb.Trigger, error)
	GetTrigger(ctx context.Context, environment, dataset, triggerID string) (*honeycomb.Trigger, error)
	RunQuery(ctx context.Context, environment, dataset string, spec *query.Spec) (*query.Result, error)
}

var _ HoneycombAPI = (*honeycomb.Client)(nil)

// Deps contains the shared dependencies for the honeycomb-mcp tools.
type Deps struct {
	API      HoneycombAPI
	Analyzer *analysis.Analyzer
	Cache    *cache.Cache
	Logger   *zap.Logger
}

// logger returns the configured logger, or a nop logger when unset.
func (d *Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// cachedFetch runs fetch through the metadata cache when one is configured.
// A cached value of a type other than T is evicted and fetched fresh.
func cachedFetch[T any](ctx context.Context, d *Deps, key string, fetch func(context.Context) (T, error)) (T, error) {
	if d.Cache == nil {
		return fetch(ctx)
	}

	v, err := d.Cache.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		d.Cache.Delete(key)
		return fetch(ctx)
	}
	return typed, nil
}

// RegisterAll registers every honeycomb-mcp tool on the MCP server.
func RegisterAll(s *server.MCPServer, deps *Deps) {
	RegisterDatasetTools(s, deps)
	RegisterBoardTools(s, deps)
	RegisterMarkerTools(s, deps)
	RegisterRecipientTools(s, deps)
	RegisterSLOTools(s, deps)
	RegisterTriggerTools(s, deps)
	RegisterQueryTools(s, deps)
	RegisterAnalyzeTools(s, deps)
}
