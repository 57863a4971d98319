package ai

import (
	"context"
	"fmt"
	"strings"
)

const defaultFeedbackContext = "general"

// EnhanceFeedback rewrites raw interviewer notes for the given form section.
func (a *Assistant) EnhanceFeedback(ctx context.Context, text, section string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if section = strings.TrimSpace(section); section == "" {
		section = defaultFeedbackContext
	}

	raw, err := a.generate(ctx, "enhance_feedback", "feedback", map[string]string{
		"TEXT":    text,
		"CONTEXT": section,
	})
	if err != nil {
		return "", err
	}

	data, err := decodeObject(raw)
	if err != nil {
		return "", err
	}
	enhanced, ok := data["enhanced"]
	if !ok {
		return "", fmt.Errorf("%w: answer has no enhanced text", ErrInvalidOutput)
	}
	return coerceString(enhanced), nil
}
