// Package api is the HTTP client for the energy project analysis service.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/agbru/epanalyzer/internal/analysis"
	apperrors "github.com/agbru/epanalyzer/internal/errors"
	"github.com/agbru/epanalyzer/internal/logging"
)

// DefaultBaseURL is the service address used when none is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Service endpoints.
const (
	ProjectsPath = "/api/projects"
	HealthPath   = "/api/health"
)

// JobIDHeader carries the job token on every request.
const JobIDHeader = "X-Job-ID"

// maxErrorBody bounds how much of a failed response is kept for diagnosis.
const maxErrorBody = 64 << 10

// Fetcher issues the primary analysis request for a job.
type Fetcher interface {
	FetchProjects(ctx context.Context, jobID string, sel analysis.Selection) (analysis.Response, error)
}

// Client talks to the analysis service.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  logging.Logger
}

var _ Fetcher = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is used
// as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for baseURL, or DefaultBaseURL when empty.
// The default transport is instrumented with OpenTelemetry.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperrors.NewConfigError("invalid API URL %q", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// HTTPClient returns the underlying HTTP client, for sharing its transport.
func (c *Client) HTTPClient() *http.Client { return c.http }

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// FetchProjects runs the analysis for sel and returns the decoded response.
// A non-2xx status is a TransportError even when its body is valid JSON.
func (c *Client) FetchProjects(ctx context.Context, jobID string, sel analysis.Selection) (analysis.Response, error) {
	q := url.Values{}
	q.Set("region", string(sel.Region))
	q.Set("technology", string(sel.Technology))
	if jobID != "" {
		q.Set("job_id", jobID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(ProjectsPath, q), nil)
	if err != nil {
		return analysis.Response{}, apperrors.TransportError{Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if jobID != "" {
		req.Header.Set(JobIDHeader, jobID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return analysis.Response{}, apperrors.TransportError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("analysis request rejected",
			logging.String("job_id", jobID), logging.Int("status", resp.StatusCode))
		return analysis.Response{}, apperrors.TransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return analysis.Response{}, apperrors.TransportError{Cause: err}
	}
	c.logger.Debug("analysis response received",
		logging.String("job_id", jobID),
		logging.Int("bytes", len(body)),
		logging.Duration("elapsed", time.Since(start)))

	return analysis.Decode(body)
}

// Health probes the service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(HealthPath, nil), nil)
	if err != nil {
		return apperrors.TransportError{Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.TransportError{Cause: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode != http.StatusOK {
		return apperrors.TransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	var status struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return apperrors.PayloadError{Body: string(body), Cause: err}
	}
	if status.Status != "ok" {
		return apperrors.PayloadError{Body: string(body), Cause: fmt.Errorf("unexpected status %q", status.Status)}
	}
	return nil
}
