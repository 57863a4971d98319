package ai

// JobInput is the basic description of an opening.
type JobInput struct {
	Title           string `json:"title"`
	ExperienceRange string `json:"experienceRange"`
	Department      string `json:"department"`
	SubDepartment   string `json:"subDepartment"`
}

// JobDescription is the generated body of a job posting.
type JobDescription struct {
	KeyResponsibilities []string `json:"keyResponsibilities"`
	SoftSkills          []string `json:"softSkills"`
	TechnicalSkills     []string `json:"technicalSkills"`
	Education           []string `json:"education"`
	Certifications      []string `json:"certifications"`
	NiceToHave          []string `json:"niceToHave"`
}

type TitleSuggestionInput struct {
	JobInput
	JobDescription
}

type TitleSuggestions struct {
	Title []string `json:"title"`
}

type JobTagsInput struct {
	Title             string   `json:"title"`
	ExperienceRange   string   `json:"experienceRange"`
	JobDescription    string   `json:"job_description"`
	KeyResponsibility []string `json:"key_responsibility"`
	TechnicalSkill    []string `json:"technical_skill"`
	SoftSkill         []string `json:"soft_skill"`
	Education         []string `json:"education"`
	NiceToHave        []string `json:"nice_to_have"`
}

type JobTags struct {
	Tags []string `json:"tags"`
}

// JobRefineInput names the field to rework. The first non-nil field wins.
type JobRefineInput struct {
	JobInput
	KeyResponsibilities *string `json:"keyResponsibilities"`
	SoftSkills          *string `json:"softSkills"`
	TechnicalSkills     *string `json:"technicalSkills"`
	Education           *string `json:"education"`
	Certifications      *string `json:"certifications"`
	NiceToHave          *string `json:"niceToHave"`
}

type RefineMode string

const (
	RefineRegenerate RefineMode = "regenerate"
	RefineEnhance    RefineMode = "enhance"
)

type PersonalInfo struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

type WorkExperience struct {
	Company   *string `json:"company"`
	Position  *string `json:"position"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsCurrent *bool   `json:"is_current"`
}

type Education struct {
	Institution  *string `json:"institution"`
	Degree       *string `json:"degree"`
	FieldOfStudy *string `json:"field_of_study"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
}

type Skills struct {
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`
}

type ResumeAnalysis struct {
	ExperienceLevel        *string  `json:"experience_level"`
	ExperienceYear         *float64 `json:"experience_year"`
	PrimaryDomain          *string  `json:"primary_domain"`
	KeyStrengths           []string `json:"key_strengths"`
	CareerProgressionScore *float64 `json:"career_progression_score"`
	SkillDiversityScore    *float64 `json:"skill_diversity_score"`
	GoodPoint              *string  `json:"good_point"`
}

// ResumeExtraction is the structured form of a CV.
type ResumeExtraction struct {
	PersonalInfo   *PersonalInfo    `json:"personal_info"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Education      []Education      `json:"education"`
	Skills         *Skills          `json:"skills"`
	AIAnalysis     *ResumeAnalysis  `json:"ai_analysis"`
	Tags           []string         `json:"tags"`
}

// JobRequest describes an opening in a batch analysis.
type JobRequest struct {
	JobID            string   `json:"job_id,omitempty"`
	Title            string   `json:"title,omitempty"`
	Description      string   `json:"description,omitempty"`
	ExperienceLevel  string   `json:"experience_level,omitempty"`
	TechnicalSkills  []string `json:"technical_skills,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	SoftSkills       []string `json:"softSkills,omitempty"`
	Qualification    []string `json:"qualification,omitempty"`
	JobTag           []string `json:"job_tag,omitempty"`
}

// CandidateRequest describes an applicant in a batch analysis.
type CandidateRequest struct {
	CandidateID     string   `json:"candidateId,omitempty"`
	CurrentTitle    string   `json:"currentTitle,omitempty"`
	Name            string   `json:"name,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Email           string   `json:"email,omitempty" validate:"omitempty,email"`
	Location        string   `json:"location,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	ExperienceYear  *float64 `json:"experience_year,omitempty"`
	TechnicalSkills []string `json:"technical_skills,omitempty"`
	SoftSkills      []string `json:"softSkills,omitempty"`
	Qualification   []string `json:"qualification,omitempty"`
	CandidateTag    []string `json:"candidate_tag,omitempty"`
}

type SkillDetail struct {
	Name              string  `json:"name"`
	Level             string  `json:"level"`
	YearsOfExperience float64 `json:"yearsOfExperience"`
	IsVerified        bool    `json:"isVerified"`
}

type Strength struct {
	Category string  `json:"category"`
	Point    string  `json:"point"`
	Impact   string  `json:"impact"`
	Weight   float64 `json:"weight"`
}

type SkillMatch struct {
	JobRequirement  string  `json:"jobRequirement"`
	CandidateSkill  string  `json:"candidateSkill"`
	MatchStrength   string  `json:"matchStrength"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

type AIInsights struct {
	CoreSkillsScore  float64      `json:"coreSkillsScore"`
	ExperienceScore  float64      `json:"experienceScore"`
	CulturalFitScore float64      `json:"culturalFitScore"`
	Strengths        []Strength   `json:"strengths"`
	Concerns         []string     `json:"concerns"`
	UniqueQualities  []string     `json:"uniqueQualities"`
	SkillMatches     []SkillMatch `json:"skillMatches"`
	SkillGaps        []string     `json:"skillGaps"`
	Recommendation   string       `json:"recommendation"`
	ConfidenceLevel  float64      `json:"confidenceLevel"`
	ReasoningSummary string       `json:"reasoningSummary"`
}

// CandidateAnalysis is the model's assessment of one candidate for one job.
type CandidateAnalysis struct {
	JobID             string        `json:"job_id"`
	ID                string        `json:"id"`
	FirstName         string        `json:"firstName"`
	LastName          string        `json:"lastName"`
	Email             string        `json:"email"`
	Phone             string        `json:"phone"`
	CurrentTitle      string        `json:"currentTitle"`
	ExperienceYears   float64       `json:"experienceYears"`
	Skills            []SkillDetail `json:"skills"`
	Availability      string        `json:"availability"`
	MatchScore        float64       `json:"matchScore"`
	AIInsights        AIInsights    `json:"aiInsights"`
	LastAnalyzedAt    string        `json:"lastAnalyzedAt"`
	ApplicationStatus string        `json:"applicationStatus"`
	IsShortlisted     bool          `json:"isShortlisted"`
	Notes             []string      `json:"notes"`
}

type QuestionJob struct {
	JobID            string   `json:"job_id,omitempty"`
	Title            string   `json:"title,omitempty"`
	Description      string   `json:"description,omitempty"`
	ExperienceLevel  string   `json:"experience_level,omitempty"`
	TechnicalSkills  []string `json:"technical_skills,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	SoftSkills       []string `json:"softSkills,omitempty"`
	Qualification    []string `json:"qualification,omitempty"`
}

type QuestionCandidate struct {
	CandidateID     string   `json:"candidateId,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	TechnicalSkills []string `json:"technical_skills,omitempty"`
	SoftSkills      []string `json:"softSkills,omitempty"`
}

type AIQuestionRequest struct {
	Jobs       QuestionJob       `json:"jobs"`
	Candidates QuestionCandidate `json:"candidates"`
}

type ExperienceMatch struct {
	YearsRequirementMet *bool  `json:"years_requirement_met"`
	ExperienceLevelFit  string `json:"experience_level_fit"`
}

type SkillOverlap struct {
	MatchedSkills      []string `json:"matched_skills"`
	MissingSkills      []string `json:"missing_skills"`
	SkillGapPercentage int      `json:"skill_gap_percentage"`
}

type QuestionSummary struct {
	ExperienceMatch ExperienceMatch `json:"experience_match"`
	OverallMatch    string          `json:"overall_match"`
	SkillMatch      SkillOverlap    `json:"skill_match"`
}

type InterviewAdvice struct {
	InterviewFocusAreas []string `json:"interview_focus_areas"`
	NextSteps           []string `json:"next_steps"`
	QuestionsToAsk      []string `json:"questions_to_ask"`
}

type AIQuestionResponse struct {
	AIScore int             `json:"ai_score"`
	Summary QuestionSummary `json:"summary"`
	Advice  InterviewAdvice `json:"advice"`
}

// InterviewSummary holds the interviewer's notes per section of the evaluation form.
type InterviewSummary struct {
	TechnicalSkills                string `json:"technicalSkills"`
	CommunicationCollaboration     string `json:"communicationCollaboration"`
	CulturalFitValues              string `json:"culturalFitValues"`
	ProblemSolvingCriticalThinking string `json:"problemSolvingCriticalThinking"`
	KeyStrengthsHighlights         string `json:"keyStrengthsHighlights"`
	AdditionalObservations         string `json:"additionalObservations"`
}

type Recommendation string

const (
	StrongHire Recommendation = "strong_hire"
	Hire       Recommendation = "hire"
	Maybe      Recommendation = "maybe"
	NoHire     Recommendation = "no_hire"
)

type Evaluation struct {
	Recommendation  Recommendation `json:"recommendation"`
	ConfidenceScore int            `json:"confidenceScore"`
}
