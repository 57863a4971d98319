package filtering

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/talentpulse/internal/ai"
	"github.com/spigell/talentpulse/internal/scoring"
)

type fakeScorer struct {
	sims  map[string][][]float64
	err   error
	min   float64
	calls int
}

func (f *fakeScorer) Matrix(_ context.Context, candidateTags, _ []string) (*scoring.Matrix, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	sims, ok := f.sims[candidateTags[0]]
	if !ok {
		return nil, errors.New("no similarities")
	}
	return scoring.FromSimilarities(sims)
}

func (f *fakeScorer) MinRelevance() float64 { return f.min }

type fakeAnalyzer struct {
	scores map[string]float64
	err    error
	seen   []string
}

func (f *fakeAnalyzer) AnalyzeCandidate(_ context.Context, job ai.JobRequest, cand ai.CandidateRequest) (*ai.CandidateAnalysis, error) {
	f.seen = append(f.seen, job.JobID+"/"+cand.CandidateID)
	if f.err != nil {
		return nil, f.err
	}
	return &ai.CandidateAnalysis{JobID: job.JobID, ID: cand.CandidateID, MatchScore: f.scores[cand.CandidateID]}, nil
}

func candidate(id string, tags ...string) ai.CandidateRequest {
	return ai.CandidateRequest{CandidateID: id, CandidateTag: tags}
}

func newObserved() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestTagRelevanceStrictMode(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{sims: map[string][][]float64{
		"strong": {{1.0, 0.6}},
		"weak":   {{0.3, 0.2}},
	}}
	log, logs := newObserved()

	b := &Batch{
		Job: ai.JobRequest{JobID: "J1", JobTag: []string{"Python", "Backend Development"}},
		Candidates: []ai.CandidateRequest{
			candidate("C1", "strong"),
			candidate("C2", "weak"),
			candidate("C3"),
		},
	}

	f := NewTagRelevance()
	require.NoError(t, f.Validate(&Config{Mode: ModeStrict, MinimumEligibleScore: 60}))

	out, step, err := f.Apply(context.Background(), Deps{Logger: log, Scorer: scorer}, b)
	require.NoError(t, err)

	ids := make([]string, 0, len(out.Candidates))
	for _, c := range out.Candidates {
		ids = append(ids, c.CandidateID)
	}
	assert.Equal(t, []string{"C1", "C3"}, ids)
	assert.Equal(t, Step{Initial: 3, Dropped: 1, Left: 2}, step)
	assert.Equal(t, 2, scorer.calls)

	assert.Equal(t, 1, logs.FilterMessage("no candidate tags, auto-include").Len())
	evaluated := logs.FilterMessage("tag match evaluated").All()
	require.Len(t, evaluated, 2)
	assert.Equal(t, "68.0%", evaluated[0].ContextMap()["score"])
	assert.Equal(t, true, evaluated[0].ContextMap()["eligible"])
}

func TestTagRelevanceSinglePassMode(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{min: 0.65, sims: map[string][][]float64{
		"gate-fail": {{0.6, 0.6}},
		"gate-pass": {{0.9, 0.5, 0.5}},
	}}

	b := &Batch{
		Job:        ai.JobRequest{JobID: "J1", JobTag: []string{"a", "b", "c"}},
		Candidates: []ai.CandidateRequest{candidate("C1", "gate-fail"), candidate("C2", "gate-pass")},
	}

	f := NewTagRelevance()
	require.NoError(t, f.Validate(&Config{Mode: ModeSinglePass}))

	out, step, err := f.Apply(context.Background(), Deps{Scorer: scorer}, b)
	require.NoError(t, err)
	require.Len(t, out.Candidates, 1)
	assert.Equal(t, "C2", out.Candidates[0].CandidateID)
	assert.Equal(t, 1, step.Dropped)
}

func TestTagRelevanceFailsOpen(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{err: scoring.ErrEmbeddingUnavailable}
	log, logs := newObserved()

	b := &Batch{
		Job:        ai.JobRequest{JobID: "J1", JobTag: []string{"Go"}},
		Candidates: []ai.CandidateRequest{candidate("C1", "Go")},
	}

	f := NewTagRelevance()
	require.NoError(t, f.Validate(&Config{}))

	out, step, err := f.Apply(context.Background(), Deps{Logger: log, Scorer: scorer}, b)
	require.NoError(t, err)
	assert.Len(t, out.Candidates, 1)
	assert.Zero(t, step.Dropped)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "error calculating match, auto-include", warnings[0].Message)
	assert.Equal(t, "1", f.(statusProvider).Status().Details["scoring_errors"])
}

func TestTagRelevanceAutoIncludesJobWithoutTags(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{}
	b := &Batch{
		Job:        ai.JobRequest{JobID: "J1"},
		Candidates: []ai.CandidateRequest{candidate("C1", "Go")},
	}

	f := NewTagRelevance()
	require.NoError(t, f.Validate(nil))
	out, _, err := f.Apply(context.Background(), Deps{Scorer: scorer}, b)
	require.NoError(t, err)
	assert.Len(t, out.Candidates, 1)
	assert.Zero(t, scorer.calls)
}

func TestTagRelevanceRejectsUnknownMode(t *testing.T) {
	t.Parallel()

	err := NewTagRelevance().Validate(&Config{Mode: "fuzzy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuzzy")
}

func TestAIFitKeepsCandidatesAboveThreshold(t *testing.T) {
	t.Parallel()

	analyzer := &fakeAnalyzer{scores: map[string]float64{"C1": 82, "C2": 49.5, "C3": 50}}
	b := &Batch{
		Job:        ai.JobRequest{JobID: "J1"},
		Candidates: []ai.CandidateRequest{candidate("C1"), candidate("C2"), candidate("C3")},
	}

	f := NewAIFit()
	require.NoError(t, f.Validate(&Config{Threshold: 50}))

	out, step, err := f.Apply(context.Background(), Deps{Analyzer: analyzer}, b)
	require.NoError(t, err)
	require.Len(t, out.Analyses, 2)
	assert.Equal(t, "C1", out.Analyses[0].ID)
	assert.Equal(t, "C3", out.Analyses[1].ID)
	assert.Equal(t, Step{Initial: 3, Dropped: 1, Left: 2}, step)
}

func TestAIFitAbortsOnAnalyzerError(t *testing.T) {
	t.Parallel()

	cause := errors.New("quota exhausted")
	b := &Batch{Job: ai.JobRequest{JobID: "J1"}, Candidates: []ai.CandidateRequest{candidate("C1")}}

	f := NewAIFit()
	require.NoError(t, f.Validate(&Config{Threshold: 50}))

	_, _, err := f.Apply(context.Background(), Deps{Analyzer: &fakeAnalyzer{err: cause}}, b)
	require.ErrorIs(t, err, cause)
}

func TestAIFitWarnsOnEmptyBatch(t *testing.T) {
	t.Parallel()

	log, logs := newObserved()
	analyzer := &fakeAnalyzer{}

	f := NewAIFit()
	require.NoError(t, f.Validate(&Config{}))
	out, _, err := f.Apply(context.Background(), Deps{Logger: log, Analyzer: analyzer}, &Batch{Job: ai.JobRequest{JobID: "J9"}})
	require.NoError(t, err)
	assert.Empty(t, out.Analyses)
	assert.Empty(t, analyzer.seen)
	assert.Equal(t, 1, logs.FilterMessage("job has no eligible candidates after filtering").Len())
}

func TestAIFitRejectsThresholdOutOfRange(t *testing.T) {
	t.Parallel()

	require.Error(t, NewAIFit().Validate(&Config{Threshold: 101}))
	require.Error(t, NewAIFit().Validate(&Config{Threshold: -1}))
}

func TestAnalyzeRunsEveryJob(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{sims: map[string][][]float64{
		"match":    {{0.9}},
		"mismatch": {{0.1}},
	}}
	analyzer := &fakeAnalyzer{scores: map[string]float64{"C1": 90, "C2": 90}}
	jobs := []ai.JobRequest{
		{JobID: "J1", JobTag: []string{"Go"}},
		{JobID: "J2"},
	}
	cands := []ai.CandidateRequest{candidate("C1", "match"), candidate("C2", "mismatch")}

	results, err := Analyze(context.Background(), &Config{Mode: ModeStrict, MinimumEligibleScore: 60, Threshold: 50},
		Deps{Scorer: scorer, Analyzer: analyzer}, jobs, cands)
	require.NoError(t, err)

	assert.Equal(t, []string{"J1/C1", "J2/C1", "J2/C2"}, analyzer.seen)
	require.Len(t, results, 3)
	assert.Equal(t, "J1", results[0].JobID)
	assert.Equal(t, "J2", results[2].JobID)
}

func TestAnalyzeReturnsEmptySliceWithoutJobs(t *testing.T) {
	t.Parallel()

	results, err := Analyze(context.Background(), &Config{}, Deps{}, nil, []ai.CandidateRequest{candidate("C1")})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestDisableByNameAndDescribe(t *testing.T) {
	t.Parallel()

	steps := DefaultSteps()
	DisableByName(steps, "ai_fit", "dry run")

	statuses := Describe(steps)
	require.Len(t, statuses, 2)
	assert.Equal(t, "tag_relevance", statuses[0].Name)
	assert.True(t, statuses[0].Enabled)
	assert.Equal(t, "ai_fit", statuses[1].Name)
	assert.False(t, statuses[1].Enabled)
	assert.Equal(t, "dry run", statuses[1].Reason)
}

func TestRunSkipsDisabledSteps(t *testing.T) {
	t.Parallel()

	analyzer := &fakeAnalyzer{}
	steps := DefaultSteps()
	DisableByName(steps, "ai_fit", "dry run")

	b := &Batch{Job: ai.JobRequest{JobID: "J1"}, Candidates: []ai.CandidateRequest{candidate("C1")}}
	out, err := Run(context.Background(), &Config{}, Deps{Analyzer: analyzer}, steps, b)
	require.NoError(t, err)
	assert.Len(t, out.Candidates, 1)
	assert.Empty(t, analyzer.seen)
}

func TestStepsHonoursDisabledList(t *testing.T) {
	t.Parallel()

	steps, err := Steps(&Config{Disabled: []string{"tag_relevance"}})
	require.NoError(t, err)

	statuses := Describe(steps)
	require.Len(t, statuses, 2)
	assert.False(t, statuses[0].Enabled)
	assert.Equal(t, "disabled in configuration", statuses[0].Reason)
	assert.True(t, statuses[1].Enabled)

	_, err = Steps(&Config{Disabled: []string{"salary"}})
	require.ErrorContains(t, err, `unknown filter "salary"`)
}

func TestAnalyzeSkipsDisabledTagRelevance(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{err: errors.New("must not be called")}
	analyzer := &fakeAnalyzer{scores: map[string]float64{"C1": 80}}
	jobs := []ai.JobRequest{{JobID: "J1", JobTag: []string{"Go"}}}

	results, err := Analyze(context.Background(),
		&Config{Mode: ModeStrict, MinimumEligibleScore: 60, Threshold: 50, Disabled: []string{"tag_relevance"}},
		Deps{Scorer: scorer, Analyzer: analyzer}, jobs, []ai.CandidateRequest{candidate("C1", "Python")})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Zero(t, scorer.calls)
	assert.Equal(t, []string{"J1/C1"}, analyzer.seen)
}
