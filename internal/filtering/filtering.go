package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/ai"
	"github.com/spigell/talentpulse/internal/logger"
	"github.com/spigell/talentpulse/internal/scoring"
)

const (
	ModeStrict     = "strict"
	ModeSinglePass = "single-pass"
)

// Filter represents a single filtering step applied to the candidates of one job.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, b *Batch) (*Batch, Step, error)
}

// TagScorer compares candidate tags with job tags.
type TagScorer interface {
	Matrix(ctx context.Context, candidateTags, jobTags []string) (*scoring.Matrix, error)
	MinRelevance() float64
}

// CandidateAnalyzer produces the detailed assessment of a candidate for a job.
type CandidateAnalyzer interface {
	AnalyzeCandidate(ctx context.Context, job ai.JobRequest, candidate ai.CandidateRequest) (*ai.CandidateAnalysis, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger   *zap.Logger
	Scorer   TagScorer
	Analyzer CandidateAnalyzer
}

// Batch is one job with the candidates still under consideration.
type Batch struct {
	Job        ai.JobRequest
	Candidates []ai.CandidateRequest
	Analyses   []*ai.CandidateAnalysis
}

func (b *Batch) Len() int {
	return len(b.Candidates)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	// Mode selects how tag_relevance decides eligibility: ModeStrict or ModeSinglePass.
	Mode                 string
	MinimumEligibleScore float64
	// Threshold is the minimum AI match score kept by ai_fit.
	Threshold float64
	// Disabled lists filter names that stay in the pipeline but are skipped.
	Disabled []string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DefaultSteps returns the pipeline used for batch analysis.
func DefaultSteps() []Filter {
	return []Filter{NewTagRelevance(), NewAIFit()}
}

// Steps returns the default pipeline with the filters named in cfg.Disabled switched off.
func Steps(cfg *Config) ([]Filter, error) {
	steps := DefaultSteps()
	if cfg == nil {
		return steps, nil
	}

	for _, name := range cfg.Disabled {
		if !hasStep(steps, name) {
			return nil, fmt.Errorf("unknown filter %q", name)
		}
		DisableByName(steps, name, "disabled in configuration")
	}
	return steps, nil
}

func hasStep(steps []Filter, name string) bool {
	for _, step := range steps {
		if step.Name() == name {
			return true
		}
	}
	return false
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the resulting batch.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, b *Batch) (*Batch, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.String(logger.FieldJobID, b.Job.JobID),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		b = next
	}

	return b, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// Analyze runs the pipeline for every job and concatenates the kept analyses in job order.
func Analyze(ctx context.Context, cfg *Config, deps Deps, jobs []ai.JobRequest, candidates []ai.CandidateRequest) ([]*ai.CandidateAnalysis, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	deps.Logger.Info("batch analysis started", zap.Int("jobs", len(jobs)), zap.Int("candidates", len(candidates)))

	results := make([]*ai.CandidateAnalysis, 0)
	for _, job := range jobs {
		batch := &Batch{
			Job:        job,
			Candidates: append([]ai.CandidateRequest(nil), candidates...),
		}

		steps, err := Steps(cfg)
		if err != nil {
			return nil, err
		}

		out, err := Run(ctx, cfg, deps, steps, batch)
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", job.JobID, err)
		}
		results = append(results, out.Analyses...)
	}

	deps.Logger.Info("batch analysis completed", zap.Int("results", len(results)))
	return results, nil
}
