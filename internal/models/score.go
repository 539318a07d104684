// internal/models/score.go
package models

// ScoreResult is the ATS score with the signals it was combined from.
type ScoreResult struct {
	Score              float64  `json:"score"`
	SemanticSimilarity float64  `json:"semanticSimilarity"`
	SkillOverlap       float64  `json:"skillOverlap"`
	ExperienceFit      float64  `json:"experienceFit"`
	MatchedSkills      []string `json:"matchedSkills"`
	MissingSkills      []string `json:"missingSkills"`
}
