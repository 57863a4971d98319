package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/ai"
	"github.com/spigell/talentpulse/internal/logger"
)

type aiFitFilter struct {
	disabled  bool
	reason    string
	threshold float64
}

// NewAIFit creates the step that asks the model to analyse every remaining candidate.
func NewAIFit() Filter {
	return &aiFitFilter{}
}

func (f *aiFitFilter) Name() string { return "ai_fit" }

func (f *aiFitFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *aiFitFilter) IsEnabled() bool { return !f.disabled }

func (f *aiFitFilter) Validate(cfg *Config) error {
	f.threshold = 0
	if cfg != nil {
		f.threshold = cfg.Threshold
	}
	if f.threshold < 0 || f.threshold > 100 {
		return fmt.Errorf("threshold must be between 0 and 100, got %.2f", f.threshold)
	}
	return nil
}

// Apply analyses candidates sequentially. A generation error aborts the whole batch.
func (f *aiFitFilter) Apply(ctx context.Context, deps Deps, b *Batch) (*Batch, Step, error) {
	initial := b.Len()
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if initial == 0 {
		log.Warn("job has no eligible candidates after filtering", zap.String(logger.FieldJobID, b.Job.JobID))
		return b, Step{}, nil
	}
	if deps.Analyzer == nil {
		return b, Step{}, fmt.Errorf("candidate analyzer is required")
	}

	log.Info("job has eligible candidates", zap.String(logger.FieldJobID, b.Job.JobID), zap.Int("candidates", initial))

	kept := make([]ai.CandidateRequest, 0, initial)
	for _, candidate := range b.Candidates {
		candLog := logger.WithFields(log, logger.MatchFields(b.Job.JobID, candidate.CandidateID)...)

		analysis, err := deps.Analyzer.AnalyzeCandidate(ctx, b.Job, candidate)
		if err != nil {
			return b, Step{}, fmt.Errorf("analyze candidate %s: %w", candidate.CandidateID, err)
		}

		if analysis.MatchScore < f.threshold {
			candLog.Info("candidate rejected by AI",
				zap.Float64("ai_score", analysis.MatchScore),
				zap.Float64("threshold", f.threshold),
			)
			continue
		}

		candLog.Info("candidate approved by AI", zap.Float64("ai_score", analysis.MatchScore))
		kept = append(kept, candidate)
		b.Analyses = append(b.Analyses, analysis)
	}

	b.Candidates = kept
	return b, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *aiFitFilter) Status() Status {
	details := map[string]string{
		"threshold": strconv.FormatFloat(f.threshold, 'f', 2, 64),
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
