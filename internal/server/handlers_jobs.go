package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/ai"
	"github.com/spigell/talentpulse/internal/logger"
)

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logger.WithFields(s.logger, zap.String(logger.FieldRequestID, RequestID(r.Context())))
}

func (s *Server) handleJobDescription(w http.ResponseWriter, r *http.Request) {
	var in ai.JobInput
	if !s.decodeOrReject(w, r, &in) {
		return
	}

	out, err := s.deps.Assistant.GenerateJobDescription(r.Context(), in)
	if err != nil {
		s.requestLogger(r).Error("generating job description", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to generate job description")
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTitleSuggestion(w http.ResponseWriter, r *http.Request) {
	var in ai.TitleSuggestionInput
	if !s.decodeOrReject(w, r, &in) {
		return
	}

	out, err := s.deps.Assistant.SuggestTitles(r.Context(), in)
	if err != nil {
		s.requestLogger(r).Error("generating title suggestions", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to generate title suggestions")
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleJobTags(w http.ResponseWriter, r *http.Request) {
	var in ai.JobTagsInput
	if !s.decodeOrReject(w, r, &in) {
		return
	}

	out, err := s.deps.Assistant.GenerateJobTags(r.Context(), in)
	if err != nil {
		s.requestLogger(r).Error("generating job tags", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to generate job tags")
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRefine(mode ai.RefineMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ai.JobRefineInput
		if !s.decodeOrReject(w, r, &in) {
			return
		}

		field, items, err := s.deps.Assistant.RefineJobField(r.Context(), mode, in)
		switch {
		case errors.Is(err, ai.ErrNoField):
			s.writeError(w, http.StatusBadRequest, "No valid field to "+string(mode)+" found in input")
			return
		case err != nil:
			s.requestLogger(r).Error("refining job field", zap.String("mode", string(mode)), zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "Error processing "+field)
			return
		}

		s.writeJSON(w, http.StatusOK, map[string][]string{field: items})
	}
}
