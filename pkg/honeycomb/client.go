// Package honeycomb implements the HTTP client for the Honeycomb API:
// metadata listings (datasets, columns, boards, markers, recipients, SLOs,
// triggers) and the create/poll query execution flow. It is the single
// upstream boundary every tool and the analysis engine go through.
package honeycomb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/apperrors"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/config"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/logging"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/retry"
)

// maxErrorBodySize caps how much of an upstream error body is read.
const maxErrorBodySize = 16 * 1024

// Client talks to the Honeycomb API. Safe for concurrent use.
type Client struct {
	apiURL       string
	uiURL        string
	keys         map[string]string
	httpClient   *http.Client
	logger       *zap.Logger
	retryCfg     *retry.Config
	pollInterval time.Duration
	queryTimeout time.Duration
}

// NewClient builds a client from the Honeycomb section of the configuration.
// A nil logger disables logging.
func NewClient(cfg config.HoneycombConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiURL:       cfg.APIEndpoint,
		uiURL:        cfg.UIEndpoint,
		keys:         cfg.EnvKeys,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
		retryCfg:     retry.DefaultConfig(),
		pollInterval: time.Duration(cfg.QueryPollIntervalMS) * time.Millisecond,
		queryTimeout: time.Duration(cfg.QueryTimeoutSeconds) * time.Second,
	}
}

// Environments returns the environment names this client holds keys for.
func (c *Client) Environments() []string {
	envs := make([]string, 0, len(c.keys))
	for env := range c.keys {
		envs = append(envs, env)
	}
	return envs
}

// UIURL returns the base URL used for deep links in tool responses.
func (c *Client) UIURL() string {
	return c.uiURL
}

// do executes one API request against an environment and decodes the JSON
// response into out (when out is non-nil). Failures carry the upstream
// status and message as an apperrors.UpstreamError.
func (c *Client) do(ctx context.Context, environment, method, path string, body, out any) error {
	key, ok := c.keys[environment]
	if !ok {
		return fmt.Errorf("%w: %q", apperrors.ErrEnvironmentUnknown, environment)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Honeycomb-Team", key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", logging.SanitizeURL(path), err)
	}
	defer resp.Body.Close()

	c.logger.Debug("honeycomb API call",
		zap.String("method", method),
		zap.String("path", logging.SanitizeURL(path)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.upstreamError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// upstreamError translates a non-2xx response into an UpstreamError,
// preserving the upstream message rather than swallowing it.
func (c *Client) upstreamError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	message := resp.Status
	var ae apiError
	if err := json.Unmarshal(data, &ae); err == nil {
		switch {
		case ae.Error != "":
			message = ae.Error
		case ae.Detail != "":
			message = ae.Detail
		case ae.Title != "":
			message = ae.Title
		}
	}

	return apperrors.NewUpstreamError(resp.StatusCode, message, nil)
}

// ListDatasets returns all datasets in an environment.
func (c *Client) ListDatasets(ctx context.Context, environment string) ([]Dataset, error) {
	var datasets []Dataset
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		datasets = nil
		return c.do(ctx, environment, http.MethodGet, "/1/datasets", nil, &datasets)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	return datasets, nil
}

// GetDataset returns one dataset by slug.
func (c *Client) GetDataset(ctx context.Context, environment, slug string) (*Dataset, error) {
	var dataset Dataset
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		return c.do(ctx, environment, http.MethodGet, "/1/datasets/"+url.PathEscape(slug), nil, &dataset)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset %q: %w", slug, err)
	}
	return &dataset, nil
}

// ListColumns returns the schema columns of a dataset.
func (c *Client) ListColumns(ctx context.Context, environment, dataset string) ([]Column, error) {
	var columns []Column
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		columns = nil
		return c.do(ctx, environment, http.MethodGet, "/1/columns/"+url.PathEscape(dataset), nil, &columns)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list columns for dataset %q: %w", dataset, err)
	}
	return columns, nil
}

// ListBoards returns all boards in an environment.
func (c *Client) ListBoards(ctx context.Context, environment string) ([]Board, error) {
	var boards []Board
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		boards = nil
		return c.do(ctx, environment, http.MethodGet, "/1/boards", nil, &boards)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// GetBoard returns one board by ID.
func (c *Client) GetBoard(ctx context.Context, environment, boardID string) (*Board, error) {
	var board Board
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		return c.do(ctx, environment, http.MethodGet, "/1/boards/"+url.PathEscape(boardID), nil, &board)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get board %q: %w", boardID, err)
	}
	return &board, nil
}

// ListMarkers returns the markers of a dataset.
func (c *Client) ListMarkers(ctx context.Context, environment, dataset string) ([]Marker, error) {
	var markers []Marker
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		markers = nil
		return c.do(ctx, environment, http.MethodGet, "/1/markers/"+url.PathEscape(dataset), nil, &markers)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list markers for dataset %q: %w", dataset, err)
	}
	return markers, nil
}

// ListRecipients returns the notification recipients of an environment.
func (c *Client) ListRecipients(ctx context.Context, environment string) ([]Recipient, error) {
	var recipients []Recipient
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		recipients = nil
		return c.do(ctx, environment, http.MethodGet, "/1/recipients", nil, &recipients)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	return recipients, nil
}

// ListSLOs returns the SLOs of a dataset.
func (c *Client) ListSLOs(ctx context.Context, environment, dataset string) ([]SLO, error) {
	var slos []SLO
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		slos = nil
		return c.do(ctx, environment, http.MethodGet, "/1/slos/"+url.PathEscape(dataset), nil, &slos)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list SLOs for dataset %q: %w", dataset, err)
	}
	return slos, nil
}

// GetSLO returns one SLO by ID.
func (c *Client) GetSLO(ctx context.Context, environment, dataset, sloID string) (*SLO, error) {
	var slo SLO
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		return c.do(ctx, environment, http.MethodGet,
			"/1/slos/"+url.PathEscape(dataset)+"/"+url.PathEscape(sloID), nil, &slo)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get SLO %q: %w", sloID, err)
	}
	return &slo, nil
}

// ListTriggers returns the triggers of a dataset.
func (c *Client) ListTriggers(ctx context.Context, environment, dataset string) ([]Trigger, error) {
	var triggers []Trigger
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		triggers = nil
		return c.do(ctx, environment, http.MethodGet, "/1/triggers/"+url.PathEscape(dataset), nil, &triggers)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list triggers for dataset %q: %w", dataset, err)
	}
	return triggers, nil
}

// GetTrigger returns one trigger by ID.
func (c *Client) GetTrigger(ctx context.Context, environment, dataset, triggerID string) (*Trigger, error) {
	var trigger Trigger
	err := retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		return c.do(ctx, environment, http.MethodGet,
			"/1/triggers/"+url.PathEscape(dataset)+"/"+url.PathEscape(triggerID), nil, &trigger)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get trigger %q: %w", triggerID, err)
	}
	return &trigger, nil
}
