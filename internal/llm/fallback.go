package llm

import (
	"context"
	"errors"
)

// FallbackClient wraps a primary Client and a list of fallbacks. Each call is
// attempted against the primary first; on failure the fallbacks are tried in
// order. The primary's error is returned when every client fails, with the
// fallback errors joined in.
type FallbackClient struct {
	primary   Client
	fallbacks []Client
}

// NewFallbackClient builds a FallbackClient. At least a primary is required.
func NewFallbackClient(primary Client, fallbacks ...Client) *FallbackClient {
	return &FallbackClient{primary: primary, fallbacks: fallbacks}
}

// GenerateContent tries the primary client, then each fallback in order.
func (c *FallbackClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.attempt(ctx, func(client Client) (string, error) {
		return client.GenerateContent(ctx, prompt, tier)
	})
}

// GenerateJSON tries the primary client, then each fallback in order.
func (c *FallbackClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.attempt(ctx, func(client Client) (string, error) {
		return client.GenerateJSON(ctx, prompt, tier)
	})
}

// GetModel reports the primary client's model for a tier.
func (c *FallbackClient) GetModel(tier ModelTier) string {
	return c.primary.GetModel(tier)
}

// Close closes the primary and all fallbacks, returning the first error.
func (c *FallbackClient) Close() error {
	err := c.primary.Close()
	for _, fb := range c.fallbacks {
		if closeErr := fb.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}

func (c *FallbackClient) attempt(ctx context.Context, call func(Client) (string, error)) (string, error) {
	result, primaryErr := call(c.primary)
	if primaryErr == nil {
		return result, nil
	}

	errs := []error{primaryErr}
	for _, fb := range c.fallbacks {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		result, err := call(fb)
		if err == nil {
			return result, nil
		}
		errs = append(errs, err)
	}
	return "", errors.Join(errs...)
}
