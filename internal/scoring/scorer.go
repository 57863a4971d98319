// Package scoring measures how well a candidate's tags cover a job's tags using the
// cosine similarity of their embeddings.
package scoring

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmbeddingUnavailable reports that the embedding provider failed or answered
	// with a different number of vectors than requested.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrInvalidInput reports an empty tag set.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidEmbedding reports malformed vectors.
	ErrInvalidEmbedding = errors.New("invalid embedding")
)

// Embedder maps texts to vectors, one per input and in the same order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Scorer computes relevance and coverage scores for tag sets.
type Scorer struct {
	embedder     Embedder
	minRelevance float64
}

// New creates a scorer. A non-positive minRelevance selects DefaultMinRelevance.
func New(embedder Embedder, minRelevance float64) *Scorer {
	if minRelevance <= 0 {
		minRelevance = DefaultMinRelevance
	}
	return &Scorer{embedder: embedder, minRelevance: minRelevance}
}

// MinRelevance returns the relevance gate used by Evaluate.
func (s *Scorer) MinRelevance() float64 {
	return s.minRelevance
}

// Matrix embeds both tag sets with a single provider call and returns their similarities.
func (s *Scorer) Matrix(ctx context.Context, candidateTags, jobTags []string) (*Matrix, error) {
	if len(candidateTags) == 0 || len(jobTags) == 0 {
		return nil, fmt.Errorf("%w: candidate has %d tags, job has %d tags", ErrInvalidInput, len(candidateTags), len(jobTags))
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedder configured", ErrEmbeddingUnavailable)
	}

	texts := make([]string, 0, len(candidateTags)+len(jobTags))
	texts = append(texts, candidateTags...)
	texts = append(texts, jobTags...)

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: requested %d vectors, got %d", ErrEmbeddingUnavailable, len(texts), len(vectors))
	}

	return NewMatrix(vectors[:len(candidateTags)], vectors[len(candidateTags):])
}

// Relevance is the coarse domain check in the range [0, 100].
func (s *Scorer) Relevance(ctx context.Context, candidateTags, jobTags []string) (float64, error) {
	m, err := s.Matrix(ctx, candidateTags, jobTags)
	if err != nil {
		return 0, err
	}
	return m.Relevance(), nil
}

// StrictRelevance is the coverage-ratio based domain check in the range [0, 100].
func (s *Scorer) StrictRelevance(ctx context.Context, candidateTags, jobTags []string) (float64, error) {
	m, err := s.Matrix(ctx, candidateTags, jobTags)
	if err != nil {
		return 0, err
	}
	return m.StrictRelevance(), nil
}

// Coverage is the weighted coverage score in the range [0, 100].
func (s *Scorer) Coverage(ctx context.Context, candidateTags, jobTags []string) (float64, error) {
	m, err := s.Matrix(ctx, candidateTags, jobTags)
	if err != nil {
		return 0, err
	}
	return m.Coverage(), nil
}

// Evaluate runs the relevance gate and, when it passes, the coverage score, embedding once.
func (s *Scorer) Evaluate(ctx context.Context, candidateTags, jobTags []string) (Result, error) {
	m, err := s.Matrix(ctx, candidateTags, jobTags)
	if err != nil {
		return Result{}, err
	}
	return m.Evaluate(s.minRelevance), nil
}
