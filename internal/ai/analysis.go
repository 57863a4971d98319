package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/logger"
)

const (
	defaultAvailability      = "2 weeks"
	defaultSkillLevel        = "Intermediate"
	defaultApplicationStatus = "screening"
	unparsableWeight         = 0.5
)

// AnalyzeCandidate asks the model to assess one candidate against one job. An answer that cannot
// be parsed yields an analysis built from the candidate data alone. Generation errors are returned.
func (a *Assistant) AnalyzeCandidate(ctx context.Context, job JobRequest, candidate CandidateRequest) (*CandidateAnalysis, error) {
	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}
	candidateJSON, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate payload: %w", err)
	}

	log := logger.WithFields(a.logger, logger.MatchFields(job.JobID, candidate.CandidateID)...)

	raw, err := a.generate(ctx, "candidate_analysis", "candidate_analysis", map[string]string{
		"JOB_JSON":       string(jobJSON),
		"CANDIDATE_JSON": string(candidateJSON),
	})
	if err != nil {
		return nil, err
	}

	data, err := decodeObject(raw)
	if err != nil {
		log.Warn("candidate analysis answer is not JSON, using candidate data only", zap.Error(err))
		data = map[string]any{}
	}

	backfillAnalysis(data, job, candidate, a.now())

	var out CandidateAnalysis
	if err := decodeLoose(data, &out); err != nil {
		log.Warn("candidate analysis has unexpected types, using candidate data only", zap.Error(err))
		data = map[string]any{}
		backfillAnalysis(data, job, candidate, a.now())
		out = CandidateAnalysis{}
		if err := decodeLoose(data, &out); err != nil {
			return nil, err
		}
	}

	if out.Notes == nil {
		out.Notes = []string{}
	}

	log.Debug("candidate analysed", zap.Float64("match_score", out.MatchScore))
	return &out, nil
}

// backfillAnalysis fills identity fields from the request and normalises loosely typed values.
func backfillAnalysis(data map[string]any, job JobRequest, candidate CandidateRequest, now time.Time) {
	first, last := splitName(candidate.Name)

	data["job_id"] = job.JobID
	setDefault(data, "id", candidate.CandidateID)
	setDefault(data, "firstName", first)
	setDefault(data, "lastName", last)
	setDefault(data, "email", candidate.Email)
	setDefault(data, "phone", candidate.Phone)
	setDefault(data, "currentTitle", candidate.CurrentTitle)
	if candidate.ExperienceYear != nil {
		setDefault(data, "experienceYears", *candidate.ExperienceYear)
	} else {
		setDefault(data, "experienceYears", 0.0)
	}
	setDefault(data, "availability", defaultAvailability)
	data["lastAnalyzedAt"] = now.Format(time.RFC3339)
	setDefault(data, "notes", []any{})
	if _, ok := data["applicationStatus"]; !ok {
		data["applicationStatus"] = defaultApplicationStatus
	}
	if _, ok := data["isShortlisted"]; !ok {
		data["isShortlisted"] = false
	}

	if skills, ok := data["skills"].([]any); ok {
		for _, item := range skills {
			skill, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if _, ok := skill["level"].(string); !ok {
				skill["level"] = defaultSkillLevel
			}
			if _, ok := skill["yearsOfExperience"].(float64); !ok {
				skill["yearsOfExperience"] = 0.0
			}
			if _, ok := skill["isVerified"]; !ok {
				skill["isVerified"] = false
			}
		}
	}

	insights, ok := data["aiInsights"].(map[string]any)
	if !ok {
		return
	}
	strengths, ok := insights["strengths"].([]any)
	if !ok {
		return
	}
	for _, item := range strengths {
		strength, ok := item.(map[string]any)
		if !ok {
			continue
		}
		weight, present := strength["weight"]
		if !present {
			strength["weight"] = 0.0
			continue
		}
		w := coerceFloat(weight)
		if math.IsNaN(w) {
			w = unparsableWeight
		}
		strength["weight"] = w
	}
}

// setDefault stores value under key unless the answer already holds a non-empty value.
func setDefault(data map[string]any, key string, value any) {
	if truthy(data[key]) {
		return
	}
	data[key] = value
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
