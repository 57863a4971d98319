// Package hashembed provides a deterministic, offline embedder based on feature hashing.
// It is meant for local runs and tests where the hosted embedding API is unavailable.
package hashembed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const DefaultDimensions = 256

// Embedder hashes word tokens and character trigrams into a fixed-size vector.
type Embedder struct {
	dims int
}

func New(dims int) *Embedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Embedder{dims: dims}
}

// Embed returns one L2-normalised vector per text. Equal texts (case-insensitive)
// always produce equal vectors.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, e.vector(text))
	}
	return out, nil
}

func (e *Embedder) vector(text string) []float32 {
	acc := make([]float64, e.dims)
	normalized := strings.ToLower(strings.TrimSpace(text))

	tokens := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
	})
	if len(tokens) == 0 {
		tokens = []string{normalized}
	}

	for _, token := range tokens {
		e.add(acc, "w:"+token, 1)
		runes := []rune("^" + token + "$")
		for i := 0; i+3 <= len(runes); i++ {
			e.add(acc, "t:"+string(runes[i:i+3]), 0.5)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, e.dims)
	for i, v := range acc {
		if norm > 0 {
			vec[i] = float32(v / norm)
		}
	}
	if norm == 0 {
		vec[0] = 1
	}
	return vec
}

func (e *Embedder) add(acc []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	acc[idx] += weight
}
