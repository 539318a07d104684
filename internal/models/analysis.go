// internal/models/analysis.go
package models

import "time"

// AIAnalysis is the result of the external resume analysis service.
type AIAnalysis struct {
	TechnicalScore     int      `json:"technical_score"`
	ExperienceScore    int      `json:"experience_score"`
	CommunicationScore int      `json:"communication_score"`
	LeadershipScore    int      `json:"leadership_score"`
	Skills             []string `json:"skills"`
	MissingSkills      []string `json:"missing_skills"`
	RiskFlags          []string `json:"risk_flags"`
}

// ResumeAnalysis is one persisted resume_analysis row.
type ResumeAnalysis struct {
	ID                 string    `json:"id"`
	CandidateID        string    `json:"candidateId"`
	JobID              string    `json:"jobId"`
	CandidateName      string    `json:"candidateName"`
	CandidateEmail     string    `json:"candidateEmail"`
	ATSScore           float64   `json:"atsScore"`
	SemanticSimilarity float64   `json:"semanticSimilarity"`
	SkillOverlap       float64   `json:"skillOverlap"`
	ExperienceFit      float64   `json:"experienceFit"`
	TechnicalScore     int       `json:"technicalScore"`
	ExperienceScore    int       `json:"experienceScore"`
	CommunicationScore int       `json:"communicationScore"`
	LeadershipScore    int       `json:"leadershipScore"`
	Skills             []string  `json:"skills"`
	MissingSkills      []string  `json:"missingSkills"`
	RiskFlags          []string  `json:"riskFlags"`
	CreatedAt          time.Time `json:"createdAt"`
}
