package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/hicanvas/canvasctl/internal/config"
	"github.com/hicanvas/canvasctl/internal/instrumentation"
	"github.com/hicanvas/canvasctl/internal/logging"
)

// DefaultPerPage is the page size requested from paginated endpoints.
// 100 is the maximum Canvas allows.
const DefaultPerPage = "100"

// MetricsRecorder receives timing and outcome information for API calls.
// The instrumentation package provides the production implementation; the
// zero value of the client simply skips recording.
type MetricsRecorder interface {
	RecordAPIOperation(ctx context.Context, service, operation string, err error, duration time.Duration)
	RecordPageFetch(ctx context.Context, service string)
}

// Client is the base HTTP client for the Canvas REST API. It attaches the
// bearer token to every request, maps non-2xx responses to *APIError and
// decodes JSON bodies. Domain packages (calendar, students, groups, ...)
// wrap it with typed operations.
//
// All calls are synchronous blocking round trips; context cancellation is
// the only timeout mechanism.
type Client struct {
	baseURL    string
	courseID   string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    MetricsRecorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Mainly used by tests
// against httptest servers; the replacement must inject its own credentials.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the structured logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder for API operations.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a Canvas client from the loaded configuration. The bearer
// token is wired in through an oauth2 static token source so that every
// request carries the Authorization header.
func New(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		baseURL:  cfg.BaseURL(),
		courseID: cfg.CourseID,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken})
		c.httpClient = oauth2.NewClient(context.Background(), src)
	}

	// Every log line emitted through this client carries the course ID.
	c.logger = logging.WithCourse(c.logger, cfg.CourseID)

	c.logger.Debug("canvas client created",
		slog.String("base_url", c.baseURL),
		slog.String("token", logging.SanitizeToken(cfg.APIToken)),
	)

	return c
}

// CourseID returns the configured course ID.
func (c *Client) CourseID() string {
	return c.courseID
}

// ContextCode returns the Canvas context code for the configured course,
// e.g. "course_1234".
func (c *Client) ContextCode() string {
	return "course_" + c.courseID
}

// Logger returns the structured logger the client was built with.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// URL resolves a path like "calendar_events/42" against the API root. An
// absolute URL (as returned in pagination Link headers) is passed through
// unchanged.
func (c *Client) URL(path string, query url.Values) string {
	raw := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		raw = c.baseURL + "/" + strings.TrimPrefix(path, "/")
	}
	if len(query) > 0 {
		raw += "?" + query.Encode()
	}
	return raw
}

// Do issues a request and decodes the JSON response into out (which may be
// nil to discard the body). It returns the HTTP status code alongside any
// error so that callers can distinguish 200 from 204 responses. Non-2xx
// responses become a *APIError carrying the status and body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (int, error) {
	rawURL := c.URL(path, query)

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode %s %s request body: %w", method, path, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	status, _, err := c.roundTrip(req, out)
	return status, err
}

// roundTrip executes the request, maps errors and decodes the body into out.
// It returns the status code and the Link header for pagination. Every call
// runs inside a client span named after the Canvas service and HTTP method.
func (c *Client) roundTrip(req *http.Request, out interface{}) (int, string, error) {
	service := serviceFromPath(req.URL.Path)
	operation := strings.ToLower(req.Method)

	ctx, span := instrumentation.StartCanvasAPISpan(req.Context(), service, operation)
	defer span.End()
	req = req.WithContext(ctx)

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, service, operation, err, time.Since(start))
		instrumentation.SetSpanError(span, err)
		return 0, "", fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(payload)),
			Method:     req.Method,
			URL:        req.URL.String(),
		}
		c.record(ctx, service, operation, apiErr, time.Since(start))
		instrumentation.SetSpanError(span, apiErr)
		c.logger.Debug("canvas request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode),
		)
		return resp.StatusCode, "", apiErr
	}

	c.record(ctx, service, operation, nil, time.Since(start))

	link := resp.Header.Get("Link")

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			err = fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.URL.Path, err)
			instrumentation.SetSpanError(span, err)
			return resp.StatusCode, link, err
		}
	}

	instrumentation.SetSpanSuccess(span)
	return resp.StatusCode, link, nil
}

func (c *Client) record(ctx context.Context, service, operation string, err error, d time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordAPIOperation(ctx, service, operation, err, d)
}

// serviceFromPath maps an API path to a low-cardinality service label,
// e.g. "/api/v1/calendar_events/42" -> "calendar_events" and
// "/api/v1/courses/1234/assignments" -> "assignments".
func serviceFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Skip the "api/<version>" prefix when present.
	if len(parts) >= 3 && parts[0] == "api" {
		parts = parts[2:]
	}
	// Course-scoped endpoints nest the resource under "courses/<id>".
	if len(parts) >= 3 && parts[0] == "courses" {
		return parts[2]
	}
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}
