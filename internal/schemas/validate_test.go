package schemas

import (
	"errors"
	"testing"
)

func TestResumeExtraction(t *testing.T) {
	t.Parallel()

	valid := `{
		"personal_info": {"full_name": "Ada Lovelace", "email": null},
		"work_experience": [{"company": "Analytical Engines", "start_date": "1842-01", "end_date": null, "is_current": true}],
		"skills": {"technical_skills": ["Mathematics"], "soft_skills": null},
		"ai_analysis": {"experience_level": "Senior", "experience_year": 9.5},
		"tags": ["Mathematician"]
	}`
	if err := ResumeExtraction.Validate([]byte(valid)); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}

	allNull := `{"personal_info": null, "work_experience": null, "education": null, "skills": null, "ai_analysis": null, "tags": null}`
	if err := ResumeExtraction.Validate([]byte(allNull)); err != nil {
		t.Fatalf("expected all-null document to be valid, got %v", err)
	}
}

func TestResumeExtractionRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	err := ResumeExtraction.Validate([]byte(`{"ai_analysis": {"experience_level": "Wizard"}, "tags": "Go"}`))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if len(verr.Errors) < 2 {
		t.Fatalf("expected level and tags errors, got %+v", verr.Errors)
	}
}

func TestInterviewEvaluation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		doc   string
		valid bool
	}{
		{name: "valid", doc: `{"recommendation": "hire", "confidenceScore": 80}`, valid: true},
		{name: "unknown recommendation", doc: `{"recommendation": "yes", "confidenceScore": 80}`},
		{name: "score zero", doc: `{"recommendation": "maybe", "confidenceScore": 0}`},
		{name: "score above range", doc: `{"recommendation": "no_hire", "confidenceScore": 101}`},
		{name: "missing score", doc: `{"recommendation": "strong_hire"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := InterviewEvaluation.Validate([]byte(tc.doc))
			if tc.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCompileRejectsBrokenSchema(t *testing.T) {
	t.Parallel()

	_, err := Compile("broken", []byte(`{"type": 12}`))
	var loadErr *SchemaLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *SchemaLoadError, got %T (%v)", err, err)
	}
}
