package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// collectConcurrent runs fn once per item, each in its own goroutine, and
// returns the non-nil results in item order. A nil result with a nil error
// means the item was dropped. The first error cancels the remaining work and
// is returned.
func collectConcurrent[T any, R any](ctx context.Context, items []T, fn func(context.Context, T) (*R, error)) ([]R, error) {
	g, gctx := errgroup.WithContext(ctx)
	results := make([]*R, len(items))

	for i, item := range items {
		g.Go(func() error {
			result, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	collected := make([]R, 0, len(items))
	for _, result := range results {
		if result != nil {
			collected = append(collected, *result)
		}
	}
	return collected, nil
}
