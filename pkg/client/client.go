package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the default catalog endpoint. Point it at a real archive
// via WithBaseURL or the CARDSTABLE_ENDPOINT environment variable.
const DefaultBaseURL = "https://mares.hayloft.example"

// Resource paths under the endpoint base.
const (
	CatalogPath     = "/mares.json"
	FilterIndexPath = "/assets/filters.json"
	CardsPrefix     = "/cards/"
)

// Client fetches the static catalog resources from the archive endpoint.
type Client struct {
	baseURL    string
	mirrors    []string
	httpClient *http.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom endpoint base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithMirrors sets fallback endpoints tried in order when the primary fails
// with a network error or a 5xx status. A 4xx is authoritative and is never
// retried on a mirror.
func WithMirrors(mirrors []string) Option {
	return func(c *Client) {
		c.mirrors = c.mirrors[:0]
		for _, m := range mirrors {
			if m = strings.TrimSuffix(strings.TrimSpace(m), "/"); m != "" {
				c.mirrors = append(c.mirrors, m)
			}
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a new catalog client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured primary endpoint base.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// fetch performs a GET against the primary endpoint, falling back to mirrors
// on network errors and 5xx responses. Returns the body and content type.
func (c *Client) fetch(ctx context.Context, path string) ([]byte, string, error) {
	bases := make([]string, 0, 1+len(c.mirrors))
	bases = append(bases, c.baseURL)
	bases = append(bases, c.mirrors...)

	var lastErr error
	for i, base := range bases {
		data, contentType, err := c.fetchFrom(ctx, base, path)
		if err == nil {
			return data, contentType, nil
		}
		lastErr = err
		if ctx.Err() != nil || !failover(err) {
			break
		}
		if i < len(bases)-1 {
			slog.Debug("endpoint failed, trying mirror",
				slog.String("base", base),
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil, "", lastErr
}

// failover reports whether err justifies trying a mirror.
func failover(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return true
}

// fetchFrom performs a single GET against one endpoint base.
func (c *Client) fetchFrom(ctx context.Context, base, path string) ([]byte, string, error) {
	start := time.Now()

	u, err := url.Parse(base + path)
	if err != nil {
		return nil, "", fmt.Errorf("parsing URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("HTTP request failed",
			slog.String("method", "GET"),
			slog.String("path", path),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseError(resp)
		slog.Debug("HTTP request returned error",
			slog.String("method", "GET"),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, "", apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response: %w", err)
	}

	slog.Debug("HTTP request completed",
		slog.String("method", "GET"),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return body, resp.Header.Get("Content-Type"), nil
}

// getJSON performs a GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, result any) ([]byte, error) {
	data, _, err := c.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return data, nil
}

// parseError extracts an APIError from an error response.
func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// APIError represents a non-success response from the catalog endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog endpoint error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
