package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/ai"
	"github.com/spigell/talentpulse/internal/storage"
)

type feedbackRequest struct {
	Text    string `json:"text"`
	Context string `json:"context"`
	Action  string `json:"action"`
}

type feedbackResponse struct {
	Enhanced string `json:"enhanced"`
}

type candidateMatchingRequest struct {
	Candidate    json.RawMessage `json:"candidate" validate:"required"`
	MatchingData json.RawMessage `json:"matchingData" validate:"required"`
}

type chatRequest struct {
	Question string `json:"question" validate:"required"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}

	enhanced, err := s.deps.Assistant.EnhanceFeedback(r.Context(), req.Text, req.Context)
	if err != nil {
		s.requestLogger(r).Error("evaluating feedback", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to evaluate feedback")
		return
	}
	s.writeJSON(w, http.StatusOK, feedbackResponse{Enhanced: enhanced})
}

func (s *Server) handleEvaluateInterview(w http.ResponseWriter, r *http.Request) {
	var req ai.InterviewSummary
	if !s.decodeOrReject(w, r, &req) {
		return
	}

	out, err := s.deps.Assistant.EvaluateInterview(r.Context(), req)
	if err != nil {
		s.requestLogger(r).Error("evaluating interview", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to evaluate interview")
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSaveCandidateMatching(w http.ResponseWriter, r *http.Request) {
	var req candidateMatchingRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}

	rec, err := json.Marshal(req)
	if err == nil {
		err = s.deps.Store.Save(r.Context(), rec)
	}
	if err != nil {
		s.requestLogger(r).Error("saving candidate data", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Candidate data saved successfully"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}
	log := s.requestLogger(r)

	var candidateData string
	rec, err := s.deps.Store.Latest(r.Context())
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log.Warn("no candidate data stored")
	case err != nil:
		log.Error("loading candidate data", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to process chat request")
		return
	default:
		candidateData = string(rec)
	}

	answer, err := s.deps.Assistant.Answer(r.Context(), req.Question, candidateData)
	if err != nil {
		log.Error("answering chat question", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to process chat request")
		return
	}
	s.writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
}
