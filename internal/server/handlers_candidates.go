package server

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/ai"
	"github.com/spigell/talentpulse/internal/documents"
	"github.com/spigell/talentpulse/internal/filtering"
)

type parseCVRequest struct {
	Files []documents.File `json:"files" validate:"required,dive"`
}

type batchAnalyzeRequest struct {
	Jobs       []ai.JobRequest       `json:"jobs" validate:"dive"`
	Candidates []ai.CandidateRequest `json:"candidates" validate:"dive"`
	Threshold  *float64              `json:"threshold" validate:"omitempty,gte=0,lte=100"`
}

type promptQuestionsRequest struct {
	Prompt string `json:"prompt"`
}

type promptQuestionsResponse struct {
	QuestionsToAsk []string `json:"questions_to_ask"`
}

func (s *Server) handleParseCV(w http.ResponseWriter, r *http.Request) {
	if s.deps.Parser == nil {
		s.writeError(w, http.StatusServiceUnavailable, "CV parsing is not configured")
		return
	}

	var req parseCVRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}

	result, err := s.deps.Parser.Parse(r.Context(), req.Files)
	switch {
	case errors.Is(err, documents.ErrNoFiles), errors.Is(err, documents.ErrTooManyFiles):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.requestLogger(r).Error("parsing resumes", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBatchAnalyze(w http.ResponseWriter, r *http.Request) {
	var req batchAnalyzeRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}

	threshold := s.matching.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	cfg := &filtering.Config{
		Mode:                 s.matching.Mode,
		MinimumEligibleScore: s.matching.MinimumEligibleScore,
		Threshold:            threshold,
		Disabled:             s.matching.DisabledFilters,
	}
	deps := filtering.Deps{
		Logger:   s.requestLogger(r),
		Scorer:   s.deps.Scorer,
		Analyzer: s.deps.Assistant,
	}

	results, err := filtering.Analyze(r.Context(), cfg, deps, req.Jobs, req.Candidates)
	if err != nil {
		deps.Logger.Error("batch analysis failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to generate batch AI analysis")
		return
	}

	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleInterviewQuestions(w http.ResponseWriter, r *http.Request) {
	var req ai.AIQuestionRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}

	out, err := s.deps.Assistant.GenerateInterviewQuestions(r.Context(), req)
	if err != nil {
		s.requestLogger(r).Error("generating interview questions", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to generate AI job question")
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePromptQuestions(w http.ResponseWriter, r *http.Request) {
	var req promptQuestionsRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		s.writeError(w, http.StatusNotFound, "Error: Input array is empty")
		return
	}

	questions, err := s.deps.Assistant.GeneratePromptQuestions(r.Context(), req.Prompt)
	if err != nil {
		s.requestLogger(r).Error("generating prompt-based questions", zap.Error(err))
		s.writeError(w, http.StatusNotFound, "Error: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, promptQuestionsResponse{QuestionsToAsk: questions})
}
