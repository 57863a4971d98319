package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrNoField is returned by RefineJobField when the input names no field to process.
var ErrNoField = errors.New("no valid field found in input")

type refineField struct {
	name  string
	label string
	count string
	value func(JobRefineInput) *string
}

// refineFields is ordered by precedence.
var refineFields = []refineField{
	{name: "keyResponsibilities", label: "key responsibilities", count: "3-7", value: func(in JobRefineInput) *string { return in.KeyResponsibilities }},
	{name: "softSkills", label: "soft skills", count: "3-7", value: func(in JobRefineInput) *string { return in.SoftSkills }},
	{name: "technicalSkills", label: "technical skills", count: "3-7", value: func(in JobRefineInput) *string { return in.TechnicalSkills }},
	{name: "education", label: "education requirements", count: "3-7", value: func(in JobRefineInput) *string { return in.Education }},
	{name: "certifications", label: "certifications", count: "up to 7", value: func(in JobRefineInput) *string { return in.Certifications }},
	{name: "niceToHave", label: "nice-to-have skills", count: "up to 7", value: func(in JobRefineInput) *string { return in.NiceToHave }},
}

func jobVars(in JobInput) map[string]string {
	return map[string]string{
		"TITLE":            textValue(in.Title),
		"EXPERIENCE_RANGE": textValue(in.ExperienceRange),
		"DEPARTMENT":       textValue(in.Department),
		"SUB_DEPARTMENT":   textValue(in.SubDepartment),
	}
}

// GenerateJobDescription drafts responsibilities, skills and requirements for a job.
func (a *Assistant) GenerateJobDescription(ctx context.Context, in JobInput) (*JobDescription, error) {
	raw, err := a.generate(ctx, "job_description", "job_description", jobVars(in))
	if err != nil {
		return nil, err
	}

	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	return &JobDescription{
		KeyResponsibilities: listField(data, "keyResponsibilities"),
		SoftSkills:          listField(data, "softSkills"),
		TechnicalSkills:     listField(data, "technicalSkills"),
		Education:           listField(data, "education"),
		Certifications:      listField(data, "certifications"),
		NiceToHave:          listField(data, "niceToHave"),
	}, nil
}

// SuggestTitles proposes alternative titles for a job.
func (a *Assistant) SuggestTitles(ctx context.Context, in TitleSuggestionInput) (*TitleSuggestions, error) {
	vars := jobVars(in.JobInput)
	vars["KEY_RESPONSIBILITIES"] = listValue(in.KeyResponsibilities)
	vars["SOFT_SKILLS"] = listValue(in.SoftSkills)
	vars["TECHNICAL_SKILLS"] = listValue(in.TechnicalSkills)
	vars["EDUCATION"] = listValue(in.Education)
	vars["CERTIFICATIONS"] = listValue(in.Certifications)
	vars["NICE_TO_HAVE"] = listValue(in.NiceToHave)

	raw, err := a.generate(ctx, "title_suggestions", "title_suggestions", vars)
	if err != nil {
		return nil, err
	}

	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	return &TitleSuggestions{Title: listField(data, "title")}, nil
}

// GenerateJobTags produces the role-specific tags used for candidate matching.
func (a *Assistant) GenerateJobTags(ctx context.Context, in JobTagsInput) (*JobTags, error) {
	raw, err := a.generate(ctx, "job_tags", "job_tags", map[string]string{
		"TITLE":                textValue(in.Title),
		"EXPERIENCE_RANGE":     textValue(in.ExperienceRange),
		"JOB_DESCRIPTION":      textValue(in.JobDescription),
		"KEY_RESPONSIBILITIES": listValue(in.KeyResponsibility),
		"TECHNICAL_SKILLS":     listValue(in.TechnicalSkill),
		"SOFT_SKILLS":          listValue(in.SoftSkill),
		"EDUCATION":            listValue(in.Education),
		"NICE_TO_HAVE":         listValue(in.NiceToHave),
	})
	if err != nil {
		return nil, err
	}

	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := data["tags"]; !ok {
		return nil, fmt.Errorf("%w: answer has no tags", ErrInvalidOutput)
	}
	return &JobTags{Tags: listField(data, "tags")}, nil
}

// RefineJobField regenerates or enhances the first field present in the input and returns the
// field name with its new items.
func (a *Assistant) RefineJobField(ctx context.Context, mode RefineMode, in JobRefineInput) (string, []string, error) {
	var promptName string
	switch mode {
	case RefineRegenerate:
		promptName = "refine_regenerate"
	case RefineEnhance:
		promptName = "refine_enhance"
	default:
		return "", nil, fmt.Errorf("unknown refine mode %q", mode)
	}

	for _, field := range refineFields {
		current := field.value(in)
		if current == nil {
			continue
		}

		a.logger.Info("refining job field",
			zap.String("mode", string(mode)),
			zap.String("field", field.name),
			zap.String("title", in.Title),
		)

		vars := jobVars(in.JobInput)
		vars["FIELD"] = field.name
		vars["FIELD_LABEL"] = field.label
		vars["FIELD_COUNT"] = field.count
		vars["CURRENT"] = strings.TrimSpace(*current)

		raw, err := a.generate(ctx, string(mode)+"_job_field", promptName, vars)
		if err != nil {
			return field.name, nil, err
		}

		data, err := decodeObject(raw)
		if err != nil {
			return field.name, nil, err
		}

		items := listField(data, field.name)
		a.logger.Info("refined job field", zap.String("field", field.name), zap.Int("items", len(items)))
		return field.name, items, nil
	}

	return "", nil, ErrNoField
}

// listField reads a list of strings; missing keys give an empty list and scalars a single item.
func listField(data map[string]any, key string) []string {
	return coerceStrings(data[key])
}
