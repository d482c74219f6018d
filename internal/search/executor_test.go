package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-research/internal/types"
)

// fakeProvider answers queries from a fixed map; unknown queries fail.
type fakeProvider struct {
	mu        sync.Mutex
	responses map[string]*Response
	failures  map[string]error
	calls     []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(_ context.Context, query string) (*Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.mu.Unlock()

	if err, ok := f.failures[query]; ok {
		return nil, err
	}
	if resp, ok := f.responses[query]; ok {
		return resp, nil
	}
	return &Response{Query: query}, nil
}

func queries(texts ...string) []types.SearchQuery {
	out := make([]types.SearchQuery, len(texts))
	for i, text := range texts {
		out[i] = types.SearchQuery{Text: text}
	}
	return out
}

func TestExecuteAll_ResultsInQueryOrder(t *testing.T) {
	provider := &fakeProvider{
		responses: map[string]*Response{
			"a": {Query: "a", Results: []Hit{{URL: "https://x.com/a"}}},
			"b": {Query: "b", Results: []Hit{{URL: "https://x.com/b"}}},
			"c": {Query: "c"},
		},
	}
	executor := NewExecutor(provider, fastPolicy(), nil)

	responses, err := executor.ExecuteAll(context.Background(), queries("a", "b", "c"))
	require.NoError(t, err)

	require.Len(t, responses, 3)
	assert.Equal(t, "a", responses[0].Query)
	assert.Equal(t, "b", responses[1].Query)
	assert.Equal(t, "c", responses[2].Query)
}

func TestExecuteAll_SingleFailureFailsBatch(t *testing.T) {
	provider := &fakeProvider{
		responses: map[string]*Response{"a": {Query: "a"}},
		failures:  map[string]error{"b": errors.New("malformed query")},
	}
	executor := NewExecutor(provider, fastPolicy(), nil)

	_, err := executor.ExecuteAll(context.Background(), queries("a", "b"))

	require.Error(t, err)
	var queryErr *QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, "b", queryErr.Query)
}

func TestExecuteAll_TransientFailureRetriedPerCall(t *testing.T) {
	provider := &fakeProvider{
		failures: map[string]error{"a": &TransientError{Message: "down"}},
	}
	executor := NewExecutor(provider, fastPolicy(), nil)

	_, err := executor.ExecuteAll(context.Background(), queries("a"))
	require.Error(t, err)

	// initial attempt + 3 retries before the batch fails
	assert.Len(t, provider.calls, 4)
}

func TestExecuteAll_EmptyQueryList(t *testing.T) {
	executor := NewExecutor(&fakeProvider{}, fastPolicy(), nil)

	responses, err := executor.ExecuteAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, responses)
}

func TestExecuteAll_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	provider := &fakeProvider{
		failures: map[string]error{"a": &TransientError{Message: "down"}},
	}
	policy := RetryPolicy{MaxRetries: 10, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second}
	executor := NewExecutor(provider, policy, nil)

	_, err := executor.ExecuteAll(ctx, queries("a"))
	require.Error(t, err)
}
