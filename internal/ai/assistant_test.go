package ai

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type generateCall struct {
	system string
	prompt string
}

type stubGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     []generateCall
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, generateCall{system: system, prompt: prompt})
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("unexpected call")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

var fixedNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func newTestAssistant(t *testing.T, gen Generator) *Assistant {
	t.Helper()

	a, err := NewAssistant(gen, zap.NewNop(), Options{Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	return a
}

func TestNewAssistantRequiresGenerator(t *testing.T) {
	_, err := NewAssistant(nil, nil, Options{})
	require.Error(t, err)
}

func TestRenderSplitsSystemInstruction(t *testing.T) {
	system, prompt, err := render("chat", map[string]string{
		"CANDIDATE_DATA": "{\"name\": \"Ann {{QUESTION}}\"}",
		"QUESTION":       "Who is Ann?",
	})
	require.NoError(t, err)

	assert.Equal(t, "You are a friendly HR assistant answering questions about candidates.", system)
	assert.Contains(t, prompt, "Question: Who is Ann?")
	assert.Contains(t, prompt, "Ann {{QUESTION}}")
	assert.NotContains(t, prompt, "---")

	_, _, err = render("missing", nil)
	require.Error(t, err)
}

func TestAllPromptsRender(t *testing.T) {
	entries, err := promptFiles.ReadDir("prompts")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		name := entry.Name()[:len(entry.Name())-len(".md")]
		system, prompt, err := render(name, nil)
		require.NoError(t, err, name)
		assert.NotEmpty(t, system, name)
		assert.NotEmpty(t, prompt, name)
	}
}

func TestGenerateJobDescription(t *testing.T) {
	gen := &stubGenerator{responses: []string{"```json\n" + `{
		"keyResponsibilities": ["Build APIs", "Review code"],
		"softSkills": ["Ownership"],
		"technicalSkills": ["Go", "PostgreSQL"],
		"education": "BSc Computer Science",
		"certifications": null
	}` + "\n```"}}
	a := newTestAssistant(t, gen)

	jd, err := a.GenerateJobDescription(context.Background(), JobInput{
		Title:           "Backend Engineer",
		ExperienceRange: "3-5 years",
		Department:      "Engineering",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Build APIs", "Review code"}, jd.KeyResponsibilities)
	assert.Equal(t, []string{"BSc Computer Science"}, jd.Education)
	assert.Empty(t, jd.Certifications)
	assert.Empty(t, jd.NiceToHave)

	require.Len(t, gen.calls, 1)
	assert.Contains(t, gen.calls[0].prompt, "Title: Backend Engineer")
	assert.Contains(t, gen.calls[0].prompt, "Sub-Department: \n")
	assert.Equal(t, "You are a professional HR and job description expert.", gen.calls[0].system)
}

func TestGenerateJobDescriptionPropagatesErrors(t *testing.T) {
	cause := errors.New("quota")
	a := newTestAssistant(t, &stubGenerator{err: cause})

	_, err := a.GenerateJobDescription(context.Background(), JobInput{Title: "x"})
	require.ErrorIs(t, err, cause)

	a = newTestAssistant(t, &stubGenerator{responses: []string{"I cannot help with that."}})
	_, err = a.GenerateJobDescription(context.Background(), JobInput{Title: "x"})
	require.ErrorIs(t, err, ErrInvalidOutput)
}

func TestSuggestTitles(t *testing.T) {
	gen := &stubGenerator{responses: []string{`Sure! {"title": ["Platform Engineer", "Site Reliability Engineer"]}`}}
	a := newTestAssistant(t, gen)

	in := TitleSuggestionInput{JobInput: JobInput{Title: "DevOps Engineer"}}
	in.TechnicalSkills = []string{"Terraform", " ", "AWS"}

	titles, err := a.SuggestTitles(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Platform Engineer", "Site Reliability Engineer"}, titles.Title)
	assert.Contains(t, gen.calls[0].prompt, "Technical Skills: Terraform, AWS")
	assert.Contains(t, gen.calls[0].prompt, "Certifications: None")
}

func TestGenerateJobTags(t *testing.T) {
	gen := &stubGenerator{responses: []string{`{"tags": ["Go Developer", "Backend Developer", "Kubernetes"]}`}}
	a := newTestAssistant(t, gen)

	tags, err := a.GenerateJobTags(context.Background(), JobTagsInput{
		Title:          "Senior Go Engineer",
		TechnicalSkill: []string{"Go", "Kubernetes"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go Developer", "Backend Developer", "Kubernetes"}, tags.Tags)

	a = newTestAssistant(t, &stubGenerator{responses: []string{`{"labels": []}`}})
	_, err = a.GenerateJobTags(context.Background(), JobTagsInput{Title: "x"})
	require.ErrorIs(t, err, ErrInvalidOutput)
}

func TestRefineJobField(t *testing.T) {
	str := func(s string) *string { return &s }

	cases := []struct {
		name      string
		mode      RefineMode
		input     JobRefineInput
		answer    string
		wantField string
		wantItems []string
		wantErr   error
	}{
		{
			name:      "first present field wins",
			mode:      RefineEnhance,
			input:     JobRefineInput{SoftSkills: str("teamwork"), Education: str("BSc")},
			answer:    `{"softSkills": ["Cross-team collaboration", "Mentoring"]}`,
			wantField: "softSkills",
			wantItems: []string{"Cross-team collaboration", "Mentoring"},
		},
		{
			name:      "empty string still selects the field",
			mode:      RefineRegenerate,
			input:     JobRefineInput{Certifications: str("")},
			answer:    `{"certifications": "CKA"}`,
			wantField: "certifications",
			wantItems: []string{"CKA"},
		},
		{
			name:      "missing field in answer yields empty list",
			mode:      RefineRegenerate,
			input:     JobRefineInput{NiceToHave: str("Rust")},
			answer:    `{"somethingElse": ["x"]}`,
			wantField: "niceToHave",
			wantItems: []string{},
		},
		{
			name:    "no field",
			mode:    RefineRegenerate,
			input:   JobRefineInput{JobInput: JobInput{Title: "QA"}},
			wantErr: ErrNoField,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{responses: []string{tc.answer}}
			a := newTestAssistant(t, gen)

			field, items, err := a.RefineJobField(context.Background(), tc.mode, tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, gen.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantField, field)
			assert.Equal(t, tc.wantItems, items)
			require.Len(t, gen.calls, 1)
			assert.Contains(t, gen.calls[0].prompt, `{"`+tc.wantField+`":`)
		})
	}
}

func TestRefineJobFieldRejectsUnknownMode(t *testing.T) {
	a := newTestAssistant(t, &stubGenerator{})
	_, _, err := a.RefineJobField(context.Background(), RefineMode("rewrite"), JobRefineInput{})
	require.Error(t, err)
}

func TestEnhancePromptCarriesCurrentValue(t *testing.T) {
	gen := &stubGenerator{responses: []string{`{"technicalSkills": ["Go"]}`}}
	a := newTestAssistant(t, gen)

	value := "golang, docker"
	_, _, err := a.RefineJobField(context.Background(), RefineEnhance, JobRefineInput{TechnicalSkills: &value})
	require.NoError(t, err)
	assert.Contains(t, gen.calls[0].prompt, "Current technical skills:\ngolang, docker")
}
