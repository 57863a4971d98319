package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/schemas"
)

// Experience levels assigned from total years of experience.
const (
	LevelEntry     = "Entry_Level"
	LevelJunior    = "Junior_Level"
	LevelMid       = "Mid_Level"
	LevelMidSenior = "Mid_Senior_Level"
	LevelSenior    = "Senior"
	LevelLead      = "Lead"
	LevelPrincipal = "Principal/Director"
)

// ExperienceLevel maps years of experience onto the level scale.
func ExperienceLevel(years float64) string {
	switch {
	case years < 1:
		return LevelEntry
	case years < 3:
		return LevelJunior
	case years < 5:
		return LevelMid
	case years < 8:
		return LevelMidSenior
	case years < 12:
		return LevelSenior
	case years < 15:
		return LevelLead
	default:
		return LevelPrincipal
	}
}

// ExtractResume turns CV text into structured data. An answer that is not JSON is retried once
// with a plain extraction prompt.
func (a *Assistant) ExtractResume(ctx context.Context, text string) (*ResumeExtraction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("resume text is empty")
	}

	now := a.now()
	raw, err := a.generate(ctx, "resume_extraction", "resume_extraction", map[string]string{
		"TEXT":  text,
		"MONTH": strconv.Itoa(int(now.Month())),
		"YEAR":  strconv.Itoa(now.Year()),
	})
	if err != nil {
		return nil, err
	}

	doc := ExtractJSON(raw)
	if !json.Valid([]byte(doc)) {
		a.logger.Warn("resume extraction answer is not JSON, retrying with fallback prompt")

		raw, err = a.generate(ctx, "resume_extraction_fallback", "resume_fallback", map[string]string{"TEXT": text})
		if err != nil {
			return nil, err
		}
		doc = ExtractJSON(raw)
		if !json.Valid([]byte(doc)) {
			return nil, fmt.Errorf("%w: failed to parse extracted JSON", ErrInvalidOutput)
		}
	}

	if err := schemas.ResumeExtraction.Validate([]byte(doc)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}

	var out ResumeExtraction
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}

	if analysis := out.AIAnalysis; analysis != nil && analysis.ExperienceYear != nil && analysis.ExperienceLevel == nil {
		level := ExperienceLevel(*analysis.ExperienceYear)
		analysis.ExperienceLevel = &level
	}

	a.logger.Info("resume extracted",
		zap.Int("work_experience", len(out.WorkExperience)),
		zap.Int("tags", len(out.Tags)),
	)
	return &out, nil
}
