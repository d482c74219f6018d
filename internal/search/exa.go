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
	exaEndpoint      = "https://api.exa.ai/search"
	exaNumResults    = 10
	exaMaxCharacters = 400000
	exaTimeout       = 60 * time.Second
)

// ExaClient is an alternate search provider. It returns page text inline, so
// hits always carry raw content when the crawl succeeded.
type ExaClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// ExaOption customizes an ExaClient.
type ExaOption func(*ExaClient)

// WithExaEndpoint overrides the API endpoint. Used by tests.
func WithExaEndpoint(endpoint string) ExaOption {
	return func(c *ExaClient) { c.endpoint = endpoint }
}

// NewExaClient creates an Exa search provider.
func NewExaClient(apiKey string, opts ...ExaOption) (*ExaClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("exa API key is required")
	}
	c := &ExaClient{
		apiKey:     apiKey,
		endpoint:   exaEndpoint,
		httpClient: &http.Client{Timeout: exaTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the provider identifier.
func (c *ExaClient) Name() string { return "exa" }

type exaResult struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type exaResponse struct {
	Results []exaResult `json:"results"`
}

// Search runs one keyword query with inline text contents.
func (c *ExaClient) Search(ctx context.Context, query string) (*Response, error) {
	payload, err := json.Marshal(map[string]any{
		"query":      query,
		"type":       "keyword",
		"numResults": exaNumResults,
		"contents": map[string]any{
			"text": map[string]any{
				"maxCharacters":   exaMaxCharacters,
				"includeHtmlTags": false,
			},
			"livecrawl": "never",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode exa request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create exa request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{Message: "exa request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{Message: "failed to read exa response", Cause: err}
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &TransientError{Message: fmt.Sprintf("exa returned HTTP %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exa returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var decoded exaResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &PayloadError{Query: query, Message: "failed to decode exa response", Cause: err}
	}

	hits := make([]Hit, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		hit := Hit{URL: r.URL, Title: r.Title}
		if r.Text != "" {
			text := r.Text
			hit.RawContent = &text
		}
		hits = append(hits, hit)
	}
	return &Response{Query: query, Results: hits}, nil
}
