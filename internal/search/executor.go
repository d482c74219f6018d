package search

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-research/internal/types"
)

// Executor runs planned queries concurrently against one provider.
type Executor struct {
	provider Provider
	policy   RetryPolicy
	logger   *zap.Logger
}

// NewExecutor creates an Executor. A nil logger falls back to a no-op logger.
func NewExecutor(provider Provider, policy RetryPolicy, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{provider: provider, policy: policy, logger: logger}
}

// ExecuteAll issues one search per query, all started concurrently. Each call
// retries transient failures up to the policy budget. The join is
// all-or-nothing: if any query exhausts its retries, the whole batch fails
// and the remaining calls are cancelled. Results are returned in query order.
func (e *Executor) ExecuteAll(ctx context.Context, queries []types.SearchQuery) ([]*Response, error) {
	g, gCtx := errgroup.WithContext(ctx)
	responses := make([]*Response, len(queries))

	for i, query := range queries {
		g.Go(func() error {
			resp, err := withRetry(gCtx, e.policy, e.logger, query.Text, func() (*Response, error) {
				return e.provider.Search(gCtx, query.Text)
			})
			if err != nil {
				return &QueryError{Query: query.Text, Cause: err}
			}
			responses[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Debug("search batch complete",
		zap.String("provider", e.provider.Name()),
		zap.Int("queries", len(queries)))

	return responses, nil
}
