// Package evaluation sends compiled evidence bundles to a remote candidate
// evaluation service and returns its verdict.
package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/candidate-research/internal/types"
)

const defaultTimeout = 120 * time.Second

// Input is the request payload sent to the evaluation service.
type Input struct {
	SourceText         string                  `json:"source_str"`
	Citations          []types.Citation        `json:"citations"`
	CandidateProfile   *types.CandidateProfile `json:"candidate_profile"`
	JobDescription     string                  `json:"job_description"`
	CustomInstructions string                  `json:"custom_instructions,omitempty"`
}

// Section is one scored dimension of the evaluation.
type Section struct {
	Name    string `json:"section"`
	Content string `json:"content"`
	Score   int    `json:"score"`
}

// Result is the verdict returned by the evaluation service.
type Result struct {
	Summary     string    `json:"summary"`
	Sections    []Section `json:"sections"`
	RequiredMet int       `json:"required_met"`
	OptionalMet int       `json:"optional_met"`
	Fit         int       `json:"fit"`
}

// Error wraps a failed evaluation request.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("evaluation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("evaluation error: %s", e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Client calls a remote evaluation endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// NewClient creates an evaluation client for the given endpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("evaluation endpoint is required")
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Evaluate submits an evidence bundle for scoring.
func (c *Client) Evaluate(ctx context.Context, input *Input) (*Result, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, &Error{Message: "failed to encode evaluation input", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Message: "failed to create evaluation request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Message: "evaluation request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: "failed to read evaluation response", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Message: fmt.Sprintf("evaluation service returned HTTP %d: %s", resp.StatusCode, string(body))}
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &Error{Message: "failed to decode evaluation response", Cause: err}
	}
	return &result, nil
}
