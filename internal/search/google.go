package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jonathan/candidate-research/internal/fetch"
)

const googleMaxResults = 5

// GoogleCSEClient is a fallback search provider backed by Google Custom
// Search. CSE returns links and snippets only, so raw content is fetched
// per result; results whose pages cannot be fetched carry nil raw content
// and are discarded later by the validation gate.
type GoogleCSEClient struct {
	svc    *customsearch.Service
	cx     string
	logger *zap.Logger
}

// NewGoogleCSEClient creates a Google Custom Search provider.
func NewGoogleCSEClient(ctx context.Context, apiKey, cx string, logger *zap.Logger) (*GoogleCSEClient, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("google custom search requires an API key and engine ID")
	}
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleCSEClient{svc: svc, cx: cx, logger: logger}, nil
}

// Name returns the provider identifier.
func (c *GoogleCSEClient) Name() string { return "google" }

// Search runs one query and fetches each result page for raw content.
func (c *GoogleCSEClient) Search(ctx context.Context, query string) (*Response, error) {
	resp, err := c.svc.Cse.List().Cx(c.cx).Q(query).Num(googleMaxResults).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == 429 || apiErr.Code >= 500) {
			return nil, &TransientError{Message: "google custom search unavailable", Cause: err}
		}
		return nil, fmt.Errorf("google custom search failed: %w", err)
	}

	hits := make([]Hit, 0, len(resp.Items))
	for _, item := range resp.Items {
		hit := Hit{URL: item.Link, Title: item.Title}
		if result, fetchErr := fetch.URL(ctx, item.Link, nil); fetchErr == nil && result.Text != "" {
			text := result.Text
			hit.RawContent = &text
		} else if fetchErr != nil {
			c.logger.Debug("failed to fetch result content",
				zap.String("url", item.Link), zap.Error(fetchErr))
		}
		hits = append(hits, hit)
	}

	return &Response{Query: query, Results: hits}, nil
}
