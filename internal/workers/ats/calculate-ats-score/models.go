package calculateatsscore

type Input struct {
	CandidateID string `json:"candidateId"`
	JobID       string `json:"jobId"`
	ResumeRef   string `json:"resumeRef"`
	SenderName  string `json:"senderName,omitempty"`
	SenderEmail string `json:"senderEmail,omitempty"`
	JobTitle    string `json:"jobTitle,omitempty"`
	Department  string `json:"department,omitempty"`
}

type Output struct {
	CandidateID        string   `json:"candidateId"`
	JobID              string   `json:"jobId"`
	CandidateName      string   `json:"candidateName"`
	CandidateEmail     string   `json:"candidateEmail"`
	AnalysisID         string   `json:"analysisId,omitempty"`
	ATSScore           float64  `json:"atsScore"`
	SemanticSimilarity float64  `json:"semanticSimilarity"`
	SkillOverlap       float64  `json:"skillOverlap"`
	ExperienceFit      float64  `json:"experienceFit"`
	MatchedSkills      []string `json:"matchedSkills"`
	MissingSkills      []string `json:"missingSkills"`
	RiskFlags          []string `json:"riskFlags"`
	TechnicalScore     int      `json:"technicalScore,omitempty"`
	ExperienceScore    int      `json:"experienceScore,omitempty"`
	CommunicationScore int      `json:"communicationScore,omitempty"`
	LeadershipScore    int      `json:"leadershipScore,omitempty"`
}
