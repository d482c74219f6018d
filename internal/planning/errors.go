// Package planning derives the bounded set of web-search queries for a
// candidate research run.
package planning

import "fmt"

// ExtractionUnavailableError indicates the query-generation backend could not
// produce a query set. The run is aborted; no partial query set is used.
type ExtractionUnavailableError struct {
	Message string
	Cause   error
}

func (e *ExtractionUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("query generation unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("query generation unavailable: %s", e.Message)
}

func (e *ExtractionUnavailableError) Unwrap() error {
	return e.Cause
}
