package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInterviewQuestions(t *testing.T) {
	gen := &stubGenerator{responses: []string{"```\n" + `{
		"ai_score": 78.0,
		"summary": {
			"experience_match": {"years_requirement_met": true, "experience_level_fit": "good"},
			"overall_match": "Strong Selenium background.",
			"skill_match": {"matched_skills": ["Selenium"], "missing_skills": ["Cypress"], "skill_gap_percentage": "50"}
		},
		"advice": {
			"interview_focus_areas": ["Framework design"],
			"next_steps": ["Technical round"],
			"questions_to_ask": ["How do you structure page objects?", "How do you handle flaky tests?"]
		}
	}` + "\n```"}}
	a := newTestAssistant(t, gen)

	req := AIQuestionRequest{
		Jobs:       QuestionJob{JobID: "job-1", TechnicalSkills: []string{"Selenium", "Cypress"}},
		Candidates: QuestionCandidate{CandidateID: "cand-1", TechnicalSkills: []string{"Selenium"}},
	}
	out, err := a.GenerateInterviewQuestions(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 78, out.AIScore)
	require.NotNil(t, out.Summary.ExperienceMatch.YearsRequirementMet)
	assert.True(t, *out.Summary.ExperienceMatch.YearsRequirementMet)
	assert.Equal(t, 50, out.Summary.SkillMatch.SkillGapPercentage)
	assert.Equal(t, []string{"Cypress"}, out.Summary.SkillMatch.MissingSkills)
	assert.Len(t, out.Advice.QuestionsToAsk, 2)
	assert.Contains(t, gen.calls[0].prompt, `"candidateId": "cand-1"`)
}

func TestGenerateInterviewQuestionsRejectsProse(t *testing.T) {
	a := newTestAssistant(t, &stubGenerator{responses: []string{"no json here"}})

	_, err := a.GenerateInterviewQuestions(context.Background(), AIQuestionRequest{})
	require.ErrorIs(t, err, ErrInvalidOutput)
}

func TestGeneratePromptQuestions(t *testing.T) {
	t.Run("blank prompt skips the model", func(t *testing.T) {
		gen := &stubGenerator{}
		questions, err := newTestAssistant(t, gen).GeneratePromptQuestions(context.Background(), "  ")
		require.NoError(t, err)
		assert.Equal(t, []string{}, questions)
		assert.Empty(t, gen.calls)
	})

	t.Run("questions are returned", func(t *testing.T) {
		gen := &stubGenerator{responses: []string{`{"questions_to_ask": ["What is a goroutine?", "Explain channels."]}`}}
		questions, err := newTestAssistant(t, gen).GeneratePromptQuestions(context.Background(), "Go concurrency")
		require.NoError(t, err)
		assert.Equal(t, []string{"What is a goroutine?", "Explain channels."}, questions)
		assert.Contains(t, gen.calls[0].prompt, "User prompt: Go concurrency")
	})

	t.Run("generation failure gives empty list", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("boom")}
		questions, err := newTestAssistant(t, gen).GeneratePromptQuestions(context.Background(), "Go")
		require.NoError(t, err)
		assert.Empty(t, questions)
	})

	t.Run("unparsable answer gives empty list", func(t *testing.T) {
		gen := &stubGenerator{responses: []string{"Let's talk about cats"}}
		questions, err := newTestAssistant(t, gen).GeneratePromptQuestions(context.Background(), "cats")
		require.NoError(t, err)
		assert.Empty(t, questions)
	})

	t.Run("cancelled context is reported", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		gen := &stubGenerator{err: context.Canceled}
		_, err := newTestAssistant(t, gen).GeneratePromptQuestions(ctx, "Go")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestEvaluateInterview(t *testing.T) {
	gen := &stubGenerator{responses: []string{`{"recommendation": "hire", "confidenceScore": 82}`}}
	a := newTestAssistant(t, gen)

	out, err := a.EvaluateInterview(context.Background(), InterviewSummary{
		TechnicalSkills: "Solid Go knowledge",
	})
	require.NoError(t, err)
	assert.Equal(t, Hire, out.Recommendation)
	assert.Equal(t, 82, out.ConfidenceScore)

	prompt := gen.calls[0].prompt
	assert.Contains(t, prompt, "1. Technical Skills & Expertise: Solid Go knowledge")
	assert.Contains(t, prompt, "2. Communication & Collaboration: No information provided")
	assert.Contains(t, prompt, "6. Additional Observations: No information provided")
}

func TestEvaluateInterviewRejectsOutOfRangeAnswers(t *testing.T) {
	for _, answer := range []string{
		`{"recommendation": "definitely", "confidenceScore": 50}`,
		`{"recommendation": "hire", "confidenceScore": 0}`,
		`{"recommendation": "hire", "confidenceScore": 101}`,
		`{"recommendation": "hire"}`,
	} {
		a := newTestAssistant(t, &stubGenerator{responses: []string{answer}})
		_, err := a.EvaluateInterview(context.Background(), InterviewSummary{})
		require.ErrorIs(t, err, ErrInvalidOutput, answer)
	}
}

func TestEnhanceFeedback(t *testing.T) {
	gen := &stubGenerator{responses: []string{`{"enhanced": "The candidate explained trade-offs clearly."}`}}
	a := newTestAssistant(t, gen)

	out, err := a.EnhanceFeedback(context.Background(), "explained tradeoffs ok", "")
	require.NoError(t, err)
	assert.Equal(t, "The candidate explained trade-offs clearly.", out)
	assert.Contains(t, gen.calls[0].prompt, "Context (section of the interview form): general")

	out, err = a.EnhanceFeedback(context.Background(), " ", "communication")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Len(t, gen.calls, 1)
}

func TestAnswer(t *testing.T) {
	gen := &stubGenerator{responses: []string{"  Ann has five years of Go.  ", "I don't have that information"}}
	a := newTestAssistant(t, gen)

	out, err := a.Answer(context.Background(), "How experienced is Ann?", `{"name": "Ann"}`)
	require.NoError(t, err)
	assert.Equal(t, "Ann has five years of Go.", out)

	_, err = a.Answer(context.Background(), "Who applied?", "")
	require.NoError(t, err)
	assert.Contains(t, gen.calls[1].prompt, "Candidate data:\ndata not found")

	_, err = a.Answer(context.Background(), "", "data")
	require.Error(t, err)
}
