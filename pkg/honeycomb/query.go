package honeycomb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/analysis"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/apperrors"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/query"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/retry"
)

// defaultResultLimit caps the number of rows requested per execution.
// The query API rejects limits above 10k.
const defaultResultLimit = 10000

// pollBackoffMultiplier grows the poll interval while a query is running.
const pollBackoffMultiplier = 1.5

// maxPollInterval caps the grown poll interval.
const maxPollInterval = 2 * time.Second

// Client implements the analysis engine's query boundary.
var _ analysis.QueryRunner = (*Client)(nil)

// RunQuery executes a query specification against a dataset: it creates the
// query definition, starts an execution, and polls for the result until the
// execution completes, the context is cancelled, or the configured query
// timeout elapses.
func (c *Client) RunQuery(ctx context.Context, environment, dataset string, spec *query.Spec) (*query.Result, error) {
	if spec == nil {
		return nil, apperrors.NewValidationError("query", "a query specification is required")
	}

	queryID, err := c.createQuery(ctx, environment, dataset, spec)
	if err != nil {
		return nil, err
	}

	resultID, err := c.createQueryResult(ctx, environment, dataset, queryID)
	if err != nil {
		return nil, err
	}

	resp, err := c.pollQueryResult(ctx, environment, dataset, resultID)
	if err != nil {
		return nil, err
	}

	rows := make([]query.ResultRow, 0, len(resp.Data.Results))
	for _, r := range resp.Data.Results {
		rows = append(rows, query.ResultRow(r.Data))
	}

	c.logger.Debug("query execution complete",
		zap.String("dataset", dataset),
		zap.String("query_id", queryID),
		zap.Int("rows", len(rows)))

	return &query.Result{
		Rows:        rows,
		CountColumn: spec.CountColumn(),
	}, nil
}

// createQuery stores the query definition and returns its ID.
func (c *Client) createQuery(ctx context.Context, environment, dataset string, spec *query.Spec) (string, error) {
	var created queryCreateResponse
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		return c.do(ctx, environment, http.MethodPost, "/1/queries/"+url.PathEscape(dataset), spec, &created)
	})
	if err != nil {
		return "", fmt.Errorf("failed to create query: %w", err)
	}
	return created.ID, nil
}

// createQueryResult starts an execution of a stored query.
func (c *Client) createQueryResult(ctx context.Context, environment, dataset, queryID string) (string, error) {
	req := queryResultCreateRequest{
		QueryID:       queryID,
		DisableSeries: true,
		Limit:         defaultResultLimit,
	}

	var created queryCreateResponse
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		return c.do(ctx, environment, http.MethodPost, "/1/query_results/"+url.PathEscape(dataset), req, &created)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start query execution: %w", err)
	}
	return created.ID, nil
}

// pollQueryResult fetches the execution state until it completes, backing
// off between polls. The overall budget is the configured query timeout.
func (c *Client) pollQueryResult(ctx context.Context, environment, dataset, resultID string) (*queryResultResponse, error) {
	deadline := time.Now().Add(c.queryTimeout)
	interval := c.pollInterval
	path := "/1/query_results/" + url.PathEscape(dataset) + "/" + url.PathEscape(resultID)

	for {
		var resp queryResultResponse
		if err := c.do(ctx, environment, http.MethodGet, path, nil, &resp); err != nil {
			return nil, fmt.Errorf("failed to fetch query result: %w", err)
		}
		if resp.Complete {
			return &resp, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w after %s", apperrors.ErrQueryTimeout, c.queryTimeout)
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		interval = time.Duration(float64(interval) * pollBackoffMultiplier)
		if interval > maxPollInterval {
			interval = maxPollInterval
		}
	}
}
