package parseresume

type Input struct {
	CandidateID string `json:"candidateId,omitempty"`
	ResumeRef   string `json:"resumeRef"`
}

// Output flattens the parsed resume for process variables. FullName and
// Email already carry the sentinels when nothing was extracted.
type Output struct {
	CandidateID       string   `json:"candidateId,omitempty"`
	FullName          string   `json:"fullName"`
	Email             string   `json:"email"`
	NameFound         bool     `json:"nameFound"`
	EmailFound        bool     `json:"emailFound"`
	Skills            []string `json:"skills"`
	YearsOfExperience float64  `json:"yearsOfExperience"`
	Projects          []string `json:"projects"`
	WordCount         int      `json:"wordCount"`
}
