// Package ai holds the recruiting assistant: prompt construction for every HR operation and
// tolerant decoding of the model's answers.
package ai

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/utils"
)

const defaultMaxLogLength = 200

// ErrInvalidOutput reports a model answer that could not be turned into the expected structure.
var ErrInvalidOutput = errors.New("invalid model output")

// Generator produces text for a prompt, optionally steered by a system instruction.
type Generator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

type Options struct {
	MaxLogLength int
	// Now overrides the clock used for timestamps and the current date in prompts.
	Now func() time.Time
}

// Assistant runs the HR operations against a Generator.
type Assistant struct {
	generator Generator
	logger    *zap.Logger
	maxLogLen int
	now       func() time.Time
}

func NewAssistant(generator Generator, logger *zap.Logger, opts Options) (*Assistant, error) {
	if generator == nil {
		return nil, errors.New("generator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	maxLogLen := opts.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Assistant{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLen,
		now:       now,
	}, nil
}

// generate renders the named prompt and sends it, logging previews of both sides.
func (a *Assistant) generate(ctx context.Context, operation, promptName string, vars map[string]string) (string, error) {
	system, prompt, err := render(promptName, vars)
	if err != nil {
		return "", err
	}

	a.logger.Debug("generate content request",
		zap.String("operation", operation),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, system, prompt)
	if err != nil {
		a.logger.Error("generate content failed", zap.String("operation", operation), zap.Error(err))
		return "", err
	}

	a.logger.Debug("generate content response",
		zap.String("operation", operation),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	return raw, nil
}
