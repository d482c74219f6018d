// Package search executes planned queries against an external web-search
// provider and normalizes the results into deduplicated sources.
package search

import "fmt"

// TransientError marks a provider failure that may succeed on retry
// (network blips, rate limiting, provider 5xx). Only transient errors are
// retried; everything else fails the call immediately.
type TransientError struct {
	Message string
	Cause   error
}

func (e *TransientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transient search error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transient search error: %s", e.Message)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// QueryError reports the failure of a single query after its retry budget is
// exhausted. One QueryError fails the whole batch.
type QueryError struct {
	Query string
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("search failed for query %q: %v", e.Query, e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// PayloadError reports an unrecognized provider response shape.
type PayloadError struct {
	Query   string
	Message string
	Cause   error
}

func (e *PayloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bad search payload for query %q: %s: %v", e.Query, e.Message, e.Cause)
	}
	return fmt.Sprintf("bad search payload for query %q: %s", e.Query, e.Message)
}

func (e *PayloadError) Unwrap() error {
	return e.Cause
}
