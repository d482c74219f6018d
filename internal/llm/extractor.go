// Package llm - extractor.go provides schema-validated structured extraction.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/candidate-research/internal/schemas"
)

// ExtractionError represents a failure of the structured-extraction backend:
// the generation call failed, the response was not valid JSON, or the JSON
// did not conform to the expected schema.
type ExtractionError struct {
	Schema  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error (%s): %s: %v", e.Schema, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error (%s): %s", e.Schema, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// ExtractInto runs a structured extraction: it generates JSON for the prompt,
// validates the response against the named embedded schema, and unmarshals it
// into out. All failures are reported as *ExtractionError.
func ExtractInto(ctx context.Context, client Client, prompt string, tier ModelTier, schemaName string, out any) error {
	raw, err := client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return &ExtractionError{Schema: schemaName, Message: "generation failed", Cause: err}
	}

	cleaned := CleanJSONBlock(raw)

	if err := schemas.Validate(schemaName, []byte(cleaned)); err != nil {
		return &ExtractionError{Schema: schemaName, Message: "response did not match schema", Cause: err}
	}

	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &ExtractionError{Schema: schemaName, Message: "failed to parse response", Cause: err}
	}

	return nil
}
