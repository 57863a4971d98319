package gemini

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/utils"
)

// ErrNoUsableKey is returned when none of the configured API keys passed the probe.
var ErrNoUsableKey = errors.New("no usable gemini api key")

// ProbeFunc checks that a key can reach the API.
type ProbeFunc func(ctx context.Context, key string) error

// SelectKey returns the first key accepted by probe, trying them in order.
func SelectKey(ctx context.Context, keys []string, probe ProbeFunc, log *zap.Logger) (string, error) {
	if len(keys) == 0 {
		return "", fmt.Errorf("%w: none configured", ErrNoUsableKey)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if probe == nil {
		return keys[0], nil
	}

	var errs []error
	for i, key := range keys {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		err := probe(ctx, key)
		if err == nil {
			log.Info("gemini api key accepted", zap.Int("index", i+1), zap.String("key", utils.MaskSecret(key)))
			return key, nil
		}

		log.Warn("gemini api key rejected", zap.Int("index", i+1), zap.String("key", utils.MaskSecret(key)), zap.Error(err))
		errs = append(errs, fmt.Errorf("key %d: %w", i+1, err))
	}

	return "", fmt.Errorf("%w: %w", ErrNoUsableKey, errors.Join(errs...))
}

// ProbeWithGeneration builds a probe that sends a tiny prompt with a client created for the key.
func ProbeWithGeneration(model string) ProbeFunc {
	return func(ctx context.Context, key string) error {
		client, err := NewClient(ctx, key)
		if err != nil {
			return err
		}
		gen, err := NewGenerator(client, Options{Model: model, MaxOutputTokens: 8, MaxRetries: 1}, nil)
		if err != nil {
			return err
		}
		_, err = gen.GenerateContent(ctx, "", "Hello")
		return err
	}
}
