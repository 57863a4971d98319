package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/talentpulse/internal/ai"
	"github.com/spigell/talentpulse/internal/ai/gemini"
	"github.com/spigell/talentpulse/internal/ai/hashembed"
	"github.com/spigell/talentpulse/internal/config"
	"github.com/spigell/talentpulse/internal/scoring"
	"github.com/spigell/talentpulse/internal/secrets"
)

// newGeminiClient resolves the configured keys and connects with the first one that works.
func newGeminiClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (*genai.Client, error) {
	keys, err := secrets.Collect(cfg.APIKeySources()...)
	if err != nil {
		return nil, fmt.Errorf("loading gemini api keys: %w", err)
	}
	if len(keys) == 0 {
		return nil, errors.New("no gemini api key configured: set API_KEY_1 or gemini.api-keys")
	}

	probe := gemini.ProbeWithGeneration(cfg.Gemini.Model)
	if cfg.Gemini.SkipKeyProbe {
		probe = nil
	}

	key, err := gemini.SelectKey(ctx, keys, probe, log)
	if err != nil {
		return nil, err
	}

	return gemini.NewClient(ctx, key)
}

func newAssistant(client *genai.Client, cfg *config.Config, log *zap.Logger) (*ai.Assistant, error) {
	generator, err := gemini.NewGenerator(client, gemini.Options{
		Model:             cfg.Gemini.Model,
		Temperature:       cfg.Gemini.Temperature,
		MaxOutputTokens:   cfg.Gemini.MaxOutputTokens,
		MaxRetries:        cfg.Gemini.MaxRetries,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("creating gemini generator: %w", err)
	}

	return ai.NewAssistant(generator, log, ai.Options{MaxLogLength: cfg.Gemini.MaxLogLength})
}

// newEmbedder picks the embedding provider. client may be nil for the hash provider.
func newEmbedder(client *genai.Client, cfg config.EmbeddingConfig, requestsPerMinute int, log *zap.Logger) (scoring.Embedder, error) {
	switch cfg.Provider {
	case config.EmbeddingHash:
		return hashembed.New(cfg.Dimensions), nil
	case config.EmbeddingGemini:
		if client == nil {
			return nil, errors.New("gemini embeddings need a gemini client")
		}
		embedder, err := gemini.NewEmbedder(client, cfg.Model, requestsPerMinute, log)
		if err != nil {
			return nil, err
		}
		return embedder, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
