// Package upstream fetches the two external sources the pipeline consumes:
// the garment record analysis endpoint and the storage folder mapping.
//
// Both sources are read-only JSON over HTTP. Retry policy is deliberately
// left to the operator's gateway; the client only bounds each request with
// a timeout and a polite rate limit.
package upstream

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/runwaylens/runwaylens-server/internal/config"
	"github.com/runwaylens/runwaylens-server/internal/validation"
)

// maxPages caps next_token pagination so a misbehaving source cannot hold
// a refresh open forever.
const maxPages = 50

// Client provides access to the analysis and folder-map endpoints.
type Client struct {
	httpClient   *http.Client
	rateLimiter  *rate.Limiter
	validator    *validation.Validator
	logger       *slog.Logger
	analysisURL  string
	folderMapURL string
}

// NewClient creates an upstream client from the configured endpoints.
func NewClient(cfg config.UpstreamConfig, logger *slog.Logger) *Client {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		// 2 requests per second, burst of 4: pagination bursts are fine,
		// sustained hammering of the lambda is not.
		rateLimiter:  rate.NewLimiter(rate.Every(500*time.Millisecond), 4),
		validator:    validation.New(),
		logger:       logger,
		analysisURL:  cfg.AnalysisEndpoint,
		folderMapURL: cfg.FolderMapEndpoint,
	}
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}
