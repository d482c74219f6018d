package search

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy configures exponential backoff for individual search calls.
type RetryPolicy struct {
	MaxRetries int           // retries after the first attempt
	BaseDelay  time.Duration // first backoff delay
	MaxDelay   time.Duration // backoff cap
	Jitter     time.Duration // upper bound of the random jitter added per delay
}

// DefaultRetryPolicy matches the executor contract: 3 retries, 1s base,
// 10s cap, up to 100ms jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
		Jitter:     100 * time.Millisecond,
	}
}

// delay computes the backoff for a zero-based attempt number:
// min(base * 2^attempt + jitter, cap).
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if p.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(p.Jitter)))
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// withRetry executes op with exponential backoff. Only *TransientError values
// are retried; malformed-query and other permanent failures propagate at once.
func withRetry(ctx context.Context, policy RetryPolicy, logger *zap.Logger, query string, op func() (*Response, error)) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		resp, err := op()
		if err == nil {
			return resp, nil
		}

		var transient *TransientError
		if !errors.As(err, &transient) {
			return nil, err
		}
		lastErr = err

		if attempt == policy.MaxRetries {
			break
		}

		wait := policy.delay(attempt)
		logger.Warn("search attempt failed, retrying",
			zap.String("query", query),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}
