package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	tavilyEndpoint   = "https://api.tavily.com/search"
	tavilyMaxResults = 5
	tavilyTimeout    = 60 * time.Second
)

// TavilyClient is the default search provider. It requests raw page content
// with every result so sources can be validated and distilled without a
// second fetch.
type TavilyClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	maxResults int
}

// TavilyOption customizes a TavilyClient.
type TavilyOption func(*TavilyClient)

// WithTavilyEndpoint overrides the API endpoint. Used by tests.
func WithTavilyEndpoint(endpoint string) TavilyOption {
	return func(c *TavilyClient) { c.endpoint = endpoint }
}

// WithTavilyHTTPClient overrides the HTTP client.
func WithTavilyHTTPClient(client *http.Client) TavilyOption {
	return func(c *TavilyClient) { c.httpClient = client }
}

// WithTavilyMaxResults overrides how many results are requested per query.
func WithTavilyMaxResults(n int) TavilyOption {
	return func(c *TavilyClient) { c.maxResults = n }
}

// NewTavilyClient creates a Tavily search provider.
func NewTavilyClient(apiKey string, opts ...TavilyOption) (*TavilyClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tavily API key is required")
	}
	c := &TavilyClient{
		apiKey:     apiKey,
		endpoint:   tavilyEndpoint,
		httpClient: &http.Client{Timeout: tavilyTimeout},
		maxResults: tavilyMaxResults,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the provider identifier.
func (c *TavilyClient) Name() string { return "tavily" }

// Search runs one query with raw-content retrieval enabled.
func (c *TavilyClient) Search(ctx context.Context, query string) (*Response, error) {
	payload, err := json.Marshal(map[string]any{
		"query":               query,
		"max_results":         c.maxResults,
		"include_raw_content": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create tavily request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{Message: "tavily request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{Message: "failed to read tavily response", Cause: err}
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &TransientError{Message: fmt.Sprintf("tavily returned HTTP %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	return ParsePayload(query, body)
}
