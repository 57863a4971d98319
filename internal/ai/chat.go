package ai

import (
	"context"
	"errors"
	"strings"
)

const missingCandidateData = "data not found"

// Answer replies to an HR question using the stored candidate data.
func (a *Assistant) Answer(ctx context.Context, question, candidateData string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("question is empty")
	}
	if strings.TrimSpace(candidateData) == "" {
		candidateData = missingCandidateData
	}

	raw, err := a.generate(ctx, "chat", "chat", map[string]string{
		"CANDIDATE_DATA": candidateData,
		"QUESTION":       question,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}
