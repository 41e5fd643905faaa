// Package sdk provides a Go client for the stylesearch product search API.
//
//	client := sdk.New("http://localhost:5005", sdk.WithAPIKey("secret"))
//	res, err := client.Search(ctx, "red summer dress", 42)
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client calls the stylesearch HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs a plain product search.
func (c *Client) Search(ctx context.Context, query string, userID int64) (SearchResult, error) {
	req := map[string]any{"query": query, "user_id": userID}

	var resp SearchResult
	if err := c.post(ctx, "/search", req, &resp); err != nil {
		return SearchResult{}, err
	}
	return resp, nil
}

// SearchWithPreferences runs a preference-aware search with match scores.
func (c *Client) SearchWithPreferences(
	ctx context.Context, query string, userID int64, prefs Preferences, sctx SearchContext,
) (PreferenceSearchResult, error) {
	req := map[string]any{
		"query":       query,
		"user_id":     userID,
		"preferences": prefs,
		"context":     sctx,
	}

	var resp PreferenceSearchResult
	if err := c.post(ctx, "/search_with_preferences", req, &resp); err != nil {
		return PreferenceSearchResult{}, err
	}
	return resp, nil
}

// Stats returns the current vector store stats.
func (c *Client) Stats(ctx context.Context) (IndexStats, error) {
	var resp IndexStats
	if err := c.get(ctx, "/vector-store/stats", &resp); err != nil {
		return IndexStats{}, err
	}
	return resp, nil
}

// RebuildIndex triggers a synchronous catalog re-index.
func (c *Client) RebuildIndex(ctx context.Context) (IndexStats, error) {
	var resp IndexStats
	if err := c.post(ctx, "/index/rebuild", nil, &resp); err != nil {
		return IndexStats{}, err
	}
	return resp, nil
}

// Health returns the aggregated service health report. A degraded service
// answers 503 with a valid body; both the report and the error are returned.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	var resp HealthReport
	err := c.get(ctx, "/health", &resp)
	if err != nil && resp.Status == "" {
		return HealthReport{}, err
	}
	return resp, err
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("sdk: marshal request: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	return c.do(ctx, http.MethodPost, path, rd, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("sdk: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sdk: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("sdk: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		if out != nil {
			_ = json.Unmarshal(data, out)
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("sdk: decode response: %w", err)
		}
	}
	return nil
}
