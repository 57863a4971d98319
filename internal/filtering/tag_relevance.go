package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/ai"
	"github.com/spigell/talentpulse/internal/logger"
)

type tagRelevanceFilter struct {
	disabled bool
	reason   string
	mode     string
	minScore float64
	errors   int
}

// NewTagRelevance creates the embedding-based pre-filter. Candidates whose score cannot be
// computed stay in the batch.
func NewTagRelevance() Filter {
	return &tagRelevanceFilter{}
}

func (f *tagRelevanceFilter) Name() string { return "tag_relevance" }

func (f *tagRelevanceFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *tagRelevanceFilter) IsEnabled() bool { return !f.disabled }

func (f *tagRelevanceFilter) Validate(cfg *Config) error {
	f.mode = ModeStrict
	f.minScore = 0
	if cfg != nil {
		if cfg.Mode != "" {
			f.mode = cfg.Mode
		}
		f.minScore = cfg.MinimumEligibleScore
	}

	switch f.mode {
	case ModeStrict, ModeSinglePass:
		return nil
	default:
		return fmt.Errorf("unknown matching mode %q", f.mode)
	}
}

func (f *tagRelevanceFilter) Apply(ctx context.Context, deps Deps, b *Batch) (*Batch, Step, error) {
	initial := b.Len()
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	f.errors = 0

	kept := make([]ai.CandidateRequest, 0, initial)
	for _, candidate := range b.Candidates {
		candLog := logger.WithFields(log, logger.MatchFields(b.Job.JobID, candidate.CandidateID)...)

		if len(candidate.CandidateTag) == 0 {
			candLog.Info("no candidate tags, auto-include")
			kept = append(kept, candidate)
			continue
		}
		if len(b.Job.JobTag) == 0 {
			candLog.Info("no job tags, auto-include")
			kept = append(kept, candidate)
			continue
		}
		if deps.Scorer == nil {
			candLog.Warn("tag scorer is not configured, auto-include")
			kept = append(kept, candidate)
			continue
		}

		eligible, err := f.eligible(ctx, deps.Scorer, candLog, candidate.CandidateTag, b.Job.JobTag)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return b, Step{}, ctxErr
			}
			f.errors++
			candLog.Warn("error calculating match, auto-include", zap.Error(err))
			kept = append(kept, candidate)
			continue
		}
		if eligible {
			kept = append(kept, candidate)
		}
	}

	b.Candidates = kept
	return b, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *tagRelevanceFilter) eligible(ctx context.Context, scorer TagScorer, log *zap.Logger, candidateTags, jobTags []string) (bool, error) {
	m, err := scorer.Matrix(ctx, candidateTags, jobTags)
	if err != nil {
		return false, err
	}

	if f.mode == ModeSinglePass {
		res := m.Evaluate(scorer.MinRelevance())
		log.Info("tag match evaluated",
			zap.Float64("max_similarity", res.MaxSimilarity),
			zap.Float64("avg_top_matches", res.AvgTopMatches),
			zap.Float64("score", res.Score),
			zap.Bool("eligible", res.Relevant),
		)
		return res.Relevant, nil
	}

	relevance := m.StrictRelevance()
	score := m.Coverage()
	eligible := score >= f.minScore
	log.Info("tag match evaluated",
		zap.String("relevance", fmt.Sprintf("%.1f%%", relevance)),
		zap.String("score", fmt.Sprintf("%.1f%%", score)),
		zap.Bool("eligible", eligible),
	)
	return eligible, nil
}

func (f *tagRelevanceFilter) Status() Status {
	details := map[string]string{
		"mode":                   f.mode,
		"minimum_eligible_score": strconv.FormatFloat(f.minScore, 'f', 2, 64),
		"scoring_errors":         strconv.Itoa(f.errors),
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
