package search

import (
	"context"
	"encoding/json"
)

// Hit is a single result from a search provider. RawContent is nil when the
// provider could not retrieve page content.
type Hit struct {
	URL        string  `json:"url"`
	Title      string  `json:"title"`
	RawContent *string `json:"raw_content"`
}

// Response is the payload for one executed query.
type Response struct {
	Query   string `json:"query"`
	Results []Hit  `json:"results"`
}

// Provider is the boundary contract for an external web-search service.
// Implementations must tolerate one concurrent call per planned query.
type Provider interface {
	// Name returns the provider identifier (e.g., "tavily", "exa", "google").
	Name() string
	// Search runs one query and returns its results with raw content where
	// available. Retryable failures are reported as *TransientError.
	Search(ctx context.Context, query string) (*Response, error)
}

// ParsePayload normalizes the three provider response shapes into a single
// Response: an object with a "results" key, a bare array of hits, or a single
// hit object. Branching on shape happens only here, never downstream.
func ParsePayload(query string, payload []byte) (*Response, error) {
	// Object shapes: {"results": [...]} or a single hit.
	var object struct {
		Results []Hit   `json:"results"`
		URL     string  `json:"url"`
		Title   string  `json:"title"`
		Raw     *string `json:"raw_content"`
	}
	if err := json.Unmarshal(payload, &object); err == nil {
		if object.Results != nil {
			return &Response{Query: query, Results: object.Results}, nil
		}
		if object.URL != "" {
			return &Response{Query: query, Results: []Hit{{URL: object.URL, Title: object.Title, RawContent: object.Raw}}}, nil
		}
	}

	// Bare array of hits.
	var list []Hit
	if err := json.Unmarshal(payload, &list); err == nil {
		return &Response{Query: query, Results: list}, nil
	}

	return nil, &PayloadError{Query: query, Message: "unrecognized response shape"}
}
