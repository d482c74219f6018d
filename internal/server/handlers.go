package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-research/internal/pipeline"
	"github.com/jonathan/candidate-research/internal/types"
	"github.com/jonathan/candidate-research/internal/validation"
)

// ResearchRequest is the request body for POST /research. An omitted
// confidence_threshold uses the pipeline default; an explicit 0 keeps every
// judged source.
type ResearchRequest struct {
	Profile             *types.CandidateProfile `json:"candidate_profile" validate:"required"`
	JobDescription      string                  `json:"job_description"`
	NumberOfQueries     int                     `json:"number_of_queries" validate:"gte=0,lte=20"`
	ConfidenceThreshold *float64                `json:"confidence_threshold" validate:"omitempty,gte=0,lte=1"`
	CustomInstructions  string                  `json:"custom_instructions"`
}

// ResearchResponse is the response body for POST /research.
type ResearchResponse struct {
	RunID      string                `json:"run_id,omitempty"`
	Bundle     *types.EvidenceBundle `json:"bundle"`
	Evaluation any                   `json:"evaluation,omitempty"`
}

// handleResearch runs the full research pipeline synchronously.
func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.validate.Struct(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			s.errorResponse(w, http.StatusBadRequest, "invalid field: "+validationErrs[0].Field())
			return
		}
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Profile.FullName == "" {
		s.errorResponse(w, http.StatusBadRequest, "candidate_profile.full_name is required")
		return
	}

	result, err := s.runner.Run(r.Context(), pipeline.Request{
		Profile:             req.Profile,
		JobDescription:      req.JobDescription,
		NumberOfQueries:     req.NumberOfQueries,
		ConfidenceThreshold: req.ConfidenceThreshold,
		CustomInstructions:  req.CustomInstructions,
	})
	if err != nil {
		var configErr *validation.ConfigError
		if errors.As(err, &configErr) {
			s.errorResponse(w, http.StatusBadRequest, configErr.Error())
			return
		}
		s.logger.Error("research run failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "research run failed: "+err.Error())
		return
	}

	resp := ResearchResponse{Bundle: result.Bundle}
	if result.RunID != uuid.Nil {
		resp.RunID = result.RunID.String()
	}
	if result.Evaluation != nil {
		resp.Evaluation = result.Evaluation
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListRuns returns recent research runs.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		s.errorResponse(w, http.StatusNotFound, "run history is not available without a database")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be an integer between 1 and 200")
			return
		}
		limit = parsed
	}

	runs, err := s.database.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list runs", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	s.jsonResponse(w, http.StatusOK, runs)
}

// handleGetRun returns one research run record.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		s.errorResponse(w, http.StatusNotFound, "run history is not available without a database")
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run ID")
		return
	}

	run, err := s.database.GetRun(r.Context(), runID)
	if err != nil {
		s.logger.Error("failed to get run", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleGetArtifact returns one stored artifact for a run.
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		s.errorResponse(w, http.StatusNotFound, "artifacts are not available without a database")
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run ID")
		return
	}

	content, err := s.database.GetArtifact(r.Context(), runID, r.PathValue("step"))
	if err != nil {
		s.logger.Error("failed to get artifact", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to get artifact")
		return
	}
	if content == nil {
		s.errorResponse(w, http.StatusNotFound, "artifact not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
