package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-research/internal/config"
	"github.com/jonathan/candidate-research/internal/pipeline"
	"github.com/jonathan/candidate-research/internal/types"
	"github.com/jonathan/candidate-research/internal/validation"
)

type stubRunner struct {
	request pipeline.Request
	result  *pipeline.Result
	err     error
}

func (s *stubRunner) Run(_ context.Context, req pipeline.Request) (*pipeline.Result, error) {
	s.request = req
	return s.result, s.err
}

func researchBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"candidate_profile": map[string]any{
			"full_name": "Jane Doe",
		},
		"job_description":      "Staff Engineer at Acme",
		"confidence_threshold": 0.8,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestHandleResearch(t *testing.T) {
	runner := &stubRunner{result: &pipeline.Result{
		Bundle: &types.EvidenceBundle{
			SourceText: "Sources:\n\n",
			Citations: []types.Citation{
				{Index: 1, URL: "https://a.com", Confidence: 0.9, DistilledContent: "bio"},
			},
			Profile: &types.CandidateProfile{FullName: "Jane Doe"},
		},
	}}
	srv := New(runner, Config{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/research", researchBody(t)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ResearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Bundle)
	assert.Len(t, resp.Bundle.Citations, 1)
	assert.Empty(t, resp.RunID)

	assert.Equal(t, "Jane Doe", runner.request.Profile.FullName)
	require.NotNil(t, runner.request.ConfidenceThreshold)
	assert.InDelta(t, 0.8, *runner.request.ConfidenceThreshold, 1e-9)
}

func TestHandleResearch_ExplicitZeroThreshold(t *testing.T) {
	runner := &stubRunner{result: &pipeline.Result{
		Bundle: &types.EvidenceBundle{SourceText: "Sources:\n\n"},
	}}
	srv := New(runner, Config{}, nil)

	body, err := json.Marshal(map[string]any{
		"candidate_profile":    map[string]any{"full_name": "Jane Doe"},
		"confidence_threshold": 0,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/research", bytes.NewBuffer(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, runner.request.ConfidenceThreshold)
	assert.Zero(t, *runner.request.ConfidenceThreshold)
}

func TestHandleResearch_OmittedThresholdStaysUnset(t *testing.T) {
	runner := &stubRunner{result: &pipeline.Result{
		Bundle: &types.EvidenceBundle{SourceText: "Sources:\n\n"},
	}}
	srv := New(runner, Config{}, nil)

	body, err := json.Marshal(map[string]any{
		"candidate_profile": map[string]any{"full_name": "Jane Doe"},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/research", bytes.NewBuffer(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, runner.request.ConfidenceThreshold)
}

func TestHandleResearch_InvalidBody(t *testing.T) {
	srv := New(&stubRunner{}, Config{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/research", bytes.NewBufferString("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleResearch_MissingProfile(t *testing.T) {
	srv := New(&stubRunner{}, Config{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/research", bytes.NewBufferString(`{"job_description": "x"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleResearch_MissingName(t *testing.T) {
	srv := New(&stubRunner{}, Config{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/research",
		bytes.NewBufferString(`{"candidate_profile": {"full_name": ""}}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleResearch_ThresholdOutOfRange(t *testing.T) {
	srv := New(&stubRunner{}, Config{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/research",
		bytes.NewBufferString(`{"candidate_profile": {"full_name": "Jane Doe"}, "confidence_threshold": 1.5}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleResearch_ConfigErrorIsBadRequest(t *testing.T) {
	runner := &stubRunner{err: &validation.ConfigError{Message: "candidate full name is required"}}
	srv := New(runner, Config{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/research", researchBody(t)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleResearch_PipelineFailureIsBadGateway(t *testing.T) {
	runner := &stubRunner{err: errors.New("search execution failed")}
	srv := New(runner, Config{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/research", researchBody(t)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := New(&stubRunner{}, Config{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestHandleListRuns_NoDatabase(t *testing.T) {
	srv := New(&stubRunner{}, Config{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetRun_InvalidID(t *testing.T) {
	srv := New(&stubRunner{}, Config{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/not-a-uuid", nil))

	// Without a database configured the handler reports 404 before parsing.
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth_RejectsMissingToken(t *testing.T) {
	srv := New(&stubRunner{}, Config{
		JWTConfig: &config.JWTConfig{Secret: "test-secret", ExpirationHours: 1},
	}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/research", researchBody(t)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_AcceptsValidToken(t *testing.T) {
	jwtConfig := &config.JWTConfig{Secret: "test-secret", ExpirationHours: 1}
	runner := &stubRunner{result: &pipeline.Result{
		Bundle: &types.EvidenceBundle{SourceText: "Sources:\n\n"},
	}}
	srv := New(runner, Config{JWTConfig: jwtConfig}, nil)

	token, err := NewJWTService(jwtConfig).GenerateToken(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/research", researchBody(t))
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_RejectsTokenSignedWithOtherSecret(t *testing.T) {
	srv := New(&stubRunner{}, Config{
		JWTConfig: &config.JWTConfig{Secret: "server-secret", ExpirationHours: 1},
	}, nil)

	token, err := NewJWTService(&config.JWTConfig{Secret: "other-secret", ExpirationHours: 1}).
		GenerateToken(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/research", researchBody(t))
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_HealthIsAlwaysOpen(t *testing.T) {
	srv := New(&stubRunner{}, Config{
		JWTConfig: &config.JWTConfig{Secret: "test-secret", ExpirationHours: 1},
	}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
