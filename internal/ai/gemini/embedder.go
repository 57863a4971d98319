package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/spigell/talentpulse/internal/logger"
)

const (
	DefaultEmbeddingModel = "text-embedding-004"

	embedBatchSize    = 100
	similarityTaskTag = "SEMANTIC_SIMILARITY"
)

type embedModels interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder turns tag texts into vectors using the Gemini embedding endpoint.
type Embedder struct {
	models  embedModels
	model   string
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewEmbedder paces calls to requestsPerMinute; zero disables pacing.
func NewEmbedder(client *genai.Client, model string, requestsPerMinute int, log *zap.Logger) (*Embedder, error) {
	if client == nil {
		return nil, errors.New("genai client is required")
	}

	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultEmbeddingModel
	}

	return &Embedder{
		models:  client.Models,
		model:   model,
		limiter: newLimiter(requestsPerMinute),
		logger:  logger.WithCommonFields(log, Provider, model),
	}, nil
}

// Embed returns one vector per text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e == nil || e.models == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		batch := texts[start:end]

		contents := make([]*genai.Content, 0, len(batch))
		for _, text := range batch {
			contents = append(contents, &genai.Content{Parts: []*genai.Part{{Text: text}}})
		}

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("waiting for gemini rate limit: %w", err)
			}
		}

		resp, err := e.models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{TaskType: similarityTaskTag})
		if err != nil {
			return nil, fmt.Errorf("embed %d texts: %w", len(batch), err)
		}
		if resp == nil || len(resp.Embeddings) != len(batch) {
			got := 0
			if resp != nil {
				got = len(resp.Embeddings)
			}
			return nil, fmt.Errorf("embedding api returned %d vectors for %d texts", got, len(batch))
		}

		for i, emb := range resp.Embeddings {
			if emb == nil || len(emb.Values) == 0 {
				return nil, fmt.Errorf("embedding api returned an empty vector for %q", batch[i])
			}
			out = append(out, emb.Values)
		}
	}

	if e.logger != nil {
		e.logger.Debug("embedded texts", zap.Int("count", len(out)))
	}
	return out, nil
}
