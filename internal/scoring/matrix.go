package scoring

import (
	"fmt"
	"math"
	"sort"
)

const (
	// DefaultMinRelevance is the similarity a candidate's best tag pairing must reach
	// to be considered in the same domain as the job.
	DefaultMinRelevance = 0.65

	decentMatch     = 0.45
	topMatches      = 3
	maxWeight       = 0.4
	topWeight       = 0.6
	coverageWeight  = 0.6
	meanWeight      = 0.4
	topFloorPortion = 0.8
)

// Matrix holds cosine similarities between candidate tags (rows) and job tags (columns).
// Values are clamped to [0, 1].
type Matrix struct {
	rows   int
	cols   int
	values []float64
}

// Result is the outcome of the single-pass relevance check.
type Result struct {
	Relevant      bool
	Score         float64
	MaxSimilarity float64
	AvgTopMatches float64
}

// NewMatrix computes pairwise cosine similarities between candidate and job vectors.
func NewMatrix(candidates, jobs [][]float32) (*Matrix, error) {
	if len(candidates) == 0 || len(jobs) == 0 {
		return nil, fmt.Errorf("%w: both tag sets must contain at least one vector", ErrInvalidInput)
	}

	dim := len(candidates[0])
	candNorms, err := norms(candidates, dim)
	if err != nil {
		return nil, fmt.Errorf("candidate tags: %w", err)
	}
	jobNorms, err := norms(jobs, dim)
	if err != nil {
		return nil, fmt.Errorf("job tags: %w", err)
	}

	m := &Matrix{rows: len(candidates), cols: len(jobs), values: make([]float64, len(candidates)*len(jobs))}
	for i, c := range candidates {
		for j, v := range jobs {
			var dot float64
			for k := range c {
				dot += float64(c[k]) * float64(v[k])
			}
			m.values[i*m.cols+j] = clamp(dot / (candNorms[i] * jobNorms[j]))
		}
	}

	return m, nil
}

// FromSimilarities builds a matrix from precomputed similarities indexed [candidate][job].
func FromSimilarities(sims [][]float64) (*Matrix, error) {
	if len(sims) == 0 || len(sims[0]) == 0 {
		return nil, fmt.Errorf("%w: similarity matrix is empty", ErrInvalidInput)
	}

	cols := len(sims[0])
	m := &Matrix{rows: len(sims), cols: cols, values: make([]float64, 0, len(sims)*cols)}
	for i, row := range sims {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInvalidEmbedding, i, len(row), cols)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: similarity in row %d is not finite", ErrInvalidEmbedding, i)
			}
			m.values = append(m.values, clamp(v))
		}
	}

	return m, nil
}

// At returns the similarity between candidate tag i and job tag j.
func (m *Matrix) At(i, j int) float64 {
	return m.values[i*m.cols+j]
}

// Max returns the best pairing over the whole matrix.
func (m *Matrix) Max() float64 {
	best := 0.0
	for _, v := range m.values {
		best = math.Max(best, v)
	}
	return best
}

// BestPerJob returns, for every job tag, the similarity of its closest candidate tag.
func (m *Matrix) BestPerJob() []float64 {
	best := make([]float64, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			best[j] = math.Max(best[j], m.At(i, j))
		}
	}
	return best
}

// Relevance blends the single best pairing with the top best-per-job matches.
func (m *Matrix) Relevance() float64 {
	best := m.BestPerJob()
	return bound((m.Max()*maxWeight + topMean(best, topMatches)*topWeight) * 100)
}

// StrictRelevance rewards the share of job tags that have a decent candidate match.
func (m *Matrix) StrictRelevance() float64 {
	best := m.BestPerJob()
	covered := 0
	for _, v := range best {
		if v >= decentMatch {
			covered++
		}
	}
	ratio := float64(covered) / float64(len(best))
	return bound((ratio*coverageWeight + mean(best)*meanWeight) * 100)
}

// Coverage averages squared best-per-job similarities, widening the gap between strong
// and weak candidates.
func (m *Matrix) Coverage() float64 {
	best := m.BestPerJob()
	var sum float64
	for _, v := range best {
		sum += v * v
	}
	return bound(sum / float64(len(best)) * 100)
}

// Evaluate performs the relevance gate and the coverage score in one pass.
// A non-positive minRelevance falls back to DefaultMinRelevance.
func (m *Matrix) Evaluate(minRelevance float64) Result {
	if minRelevance <= 0 {
		minRelevance = DefaultMinRelevance
	}

	res := Result{
		MaxSimilarity: m.Max(),
		AvgTopMatches: topMean(m.BestPerJob(), topMatches),
	}
	if res.MaxSimilarity < minRelevance || res.AvgTopMatches < minRelevance*topFloorPortion {
		return res
	}

	res.Relevant = true
	res.Score = m.Coverage()
	return res
}

func norms(vectors [][]float32, dim int) ([]float64, error) {
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrInvalidEmbedding)
	}

	out := make([]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, expected %d", ErrInvalidEmbedding, i, len(v), dim)
		}
		var sum float64
		for _, x := range v {
			f := float64(x)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("%w: vector %d has a non-finite component", ErrInvalidEmbedding, i)
			}
			sum += f * f
		}
		if sum == 0 {
			return nil, fmt.Errorf("%w: vector %d has zero norm", ErrInvalidEmbedding, i)
		}
		out[i] = math.Sqrt(sum)
	}
	return out, nil
}

// topMean averages the k largest values; k is capped by len(values).
func topMean(values []float64, k int) float64 {
	if len(values) == 0 {
		return 0
	}
	k = min(k, len(values))
	sorted := append([]float64(nil), values...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return mean(sorted[:k])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func bound(score float64) float64 {
	return math.Min(100, math.Max(0, score))
}
