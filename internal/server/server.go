// Package server exposes the recruiting assistant over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/ai"
	"github.com/spigell/talentpulse/internal/config"
	"github.com/spigell/talentpulse/internal/documents"
	"github.com/spigell/talentpulse/internal/filtering"
	"github.com/spigell/talentpulse/internal/storage"
)

const (
	apiPrefix   = "/api/v1"
	serviceName = "TalentPulse-AI"

	defaultShutdownTimeout = 30 * time.Second
)

// CVParser turns uploaded résumé files into structured data.
type CVParser interface {
	Parse(ctx context.Context, files []documents.File) (*documents.Result, error)
}

// Deps are the components the handlers call into.
type Deps struct {
	Assistant *ai.Assistant
	Scorer    filtering.TagScorer
	Parser    CVParser
	Store     storage.Store
}

type Server struct {
	httpServer      *http.Server
	deps            Deps
	matching        config.MatchingConfig
	maxBodyBytes    int64
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

func New(cfg *config.Config, deps Deps, log *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if deps.Assistant == nil {
		return nil, errors.New("assistant is required")
	}
	if deps.Store == nil {
		return nil, errors.New("store is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		deps:            deps,
		matching:        cfg.Matching,
		maxBodyBytes:    bodyLimit(cfg.Files),
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		logger:          log,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = defaultShutdownTimeout
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET "+apiPrefix+"/health", s.handleHealth)

	mux.HandleFunc("POST "+apiPrefix+"/generate-job-description", s.handleJobDescription)
	mux.HandleFunc("POST "+apiPrefix+"/generate-AI-titleSuggestion", s.handleTitleSuggestion)
	mux.HandleFunc("POST "+apiPrefix+"/generate-job-tags", s.handleJobTags)
	mux.HandleFunc("POST "+apiPrefix+"/regenerate-job-field", s.handleRefine(ai.RefineRegenerate))
	mux.HandleFunc("POST "+apiPrefix+"/enhance-job-field", s.handleRefine(ai.RefineEnhance))

	mux.HandleFunc("POST "+apiPrefix+"/parse-cv", s.handleParseCV)
	mux.HandleFunc("POST "+apiPrefix+"/ai/batch-analyze-resumes", s.handleBatchAnalyze)
	mux.HandleFunc("POST "+apiPrefix+"/generate-ai-question", s.handleInterviewQuestions)
	mux.HandleFunc("POST "+apiPrefix+"/generate-prompt-questions", s.handlePromptQuestions)

	mux.HandleFunc("POST "+apiPrefix+"/evaluate-feedback", s.handleFeedback)
	mux.HandleFunc("POST "+apiPrefix+"/evaluate-interview", s.handleEvaluateInterview)

	mux.HandleFunc("POST "+apiPrefix+"/save-candidate-matching", s.handleSaveCandidateMatching)
	mux.HandleFunc("POST "+apiPrefix+"/chat", s.handleChat)

	return s.withRecover(s.withRequestID(s.withLogging(withCORS(mux))))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": serviceName})
}

// bodyLimit fits a full batch of base64 encoded files plus envelope.
func bodyLimit(files config.FilesConfig) int64 {
	perFile := files.MaxFileSize
	if perFile <= 0 {
		perFile = 10 << 20
	}
	count := int64(files.MaxFilesPerRequest)
	if count <= 0 {
		count = 1
	}
	return perFile*count*2 + 1<<20
}
