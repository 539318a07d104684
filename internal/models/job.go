// internal/models/job.go
package models

// JDRequirements is the structured view of one job description text.
type JDRequirements struct {
	RequiredSkills    SkillSet `json:"requiredSkills"`
	MinimumExperience float64  `json:"minimumExperience"`
	Title             string   `json:"title"`
	Department        string   `json:"department"`
}
