package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/schemas"
)

const noInformation = "No information provided"

// GenerateInterviewQuestions scores a candidate for a job and proposes interview questions.
func (a *Assistant) GenerateInterviewQuestions(ctx context.Context, req AIQuestionRequest) (*AIQuestionResponse, error) {
	input, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal question request: %w", err)
	}

	raw, err := a.generate(ctx, "interview_questions", "interview_questions", map[string]string{
		"INPUT_JSON": string(input),
	})
	if err != nil {
		return nil, err
	}

	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	var out AIQuestionResponse
	if err := decodeLoose(data, &out); err != nil {
		return nil, err
	}

	a.logger.Info("interview questions generated",
		zap.Int("ai_score", out.AIScore),
		zap.Int("questions", len(out.Advice.QuestionsToAsk)),
	)
	return &out, nil
}

// GeneratePromptQuestions writes interview questions for a free-form prompt. Prompts off
// professional topics, and answers that cannot be used, give an empty list. Only a cancelled
// context is reported as an error.
func (a *Assistant) GeneratePromptQuestions(ctx context.Context, prompt string) ([]string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return []string{}, nil
	}

	raw, err := a.generate(ctx, "prompt_questions", "prompt_questions", map[string]string{"PROMPT": prompt})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return []string{}, nil
	}

	data, err := decodeObject(raw)
	if err != nil {
		a.logger.Warn("prompt questions answer is not JSON", zap.Error(err))
		return []string{}, nil
	}

	return listField(data, "questions_to_ask"), nil
}

// EvaluateInterview turns interview notes into a hiring recommendation.
func (a *Assistant) EvaluateInterview(ctx context.Context, summary InterviewSummary) (*Evaluation, error) {
	raw, err := a.generate(ctx, "interview_evaluation", "interview_evaluation", map[string]string{
		"TECHNICAL_SKILLS":        orNoInformation(summary.TechnicalSkills),
		"COMMUNICATION":           orNoInformation(summary.CommunicationCollaboration),
		"CULTURAL_FIT":            orNoInformation(summary.CulturalFitValues),
		"PROBLEM_SOLVING":         orNoInformation(summary.ProblemSolvingCriticalThinking),
		"KEY_STRENGTHS":           orNoInformation(summary.KeyStrengthsHighlights),
		"ADDITIONAL_OBSERVATIONS": orNoInformation(summary.AdditionalObservations),
	})
	if err != nil {
		return nil, err
	}

	doc := ExtractJSON(raw)
	if err := schemas.InterviewEvaluation.Validate([]byte(doc)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}

	var out Evaluation
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	return &out, nil
}

func orNoInformation(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return noInformation
}
