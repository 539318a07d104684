package calculateatsscore

import "ats-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"candidateId", "jobId", "resumeRef"},
		Properties: map[string]validation.Property{
			"candidateId": {
				Type:        "string",
				Description: "Candidate identifier",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(100),
			},
			"jobId": {
				Type:        "string",
				Description: "Job identifier used to look up the job description",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(100),
			},
			"resumeRef": {
				Type:        "string",
				Description: "Relative reference of the resume document",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(512),
			},
			"senderName": {
				Type:        "string",
				Description: "Name from the inbound message, used when the resume has none",
				MaxLength:   validation.IntPtr(200),
			},
			"senderEmail": {
				Type:        "string",
				Description: "Email from the inbound message, used when the resume has none",
				MaxLength:   validation.IntPtr(255),
			},
			"jobTitle": {
				Type:      "string",
				MaxLength: validation.IntPtr(200),
			},
			"department": {
				Type:      "string",
				MaxLength: validation.IntPtr(200),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	score := func(desc string) validation.Property {
		return validation.Property{
			Type:        "number",
			Description: desc,
			Minimum:     validation.FloatPtr(0),
			Maximum:     validation.FloatPtr(1),
		}
	}
	stringList := validation.Property{Type: "array", Items: &validation.Property{Type: "string"}}

	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"candidateId", "jobId", "candidateName", "candidateEmail", "atsScore"},
		Properties: map[string]validation.Property{
			"candidateId":    {Type: "string"},
			"jobId":          {Type: "string"},
			"candidateName":  {Type: "string"},
			"candidateEmail": {Type: "string"},
			"analysisId":     {Type: "string"},
			"atsScore": {
				Type:        "number",
				Description: "Weighted ATS score",
				Minimum:     validation.FloatPtr(0),
				Maximum:     validation.FloatPtr(100),
			},
			"semanticSimilarity": score("Cosine similarity of resume and job description"),
			"skillOverlap":       score("Share of required skills the resume covers"),
			"experienceFit":      score("Experience relative to the required minimum"),
			"matchedSkills":      stringList,
			"missingSkills":      stringList,
			"riskFlags":          stringList,
			"technicalScore":     {Type: "integer"},
			"experienceScore":    {Type: "integer"},
			"communicationScore": {Type: "integer"},
			"leadershipScore":    {Type: "integer"},
		},
		AdditionalProperties: false,
	}
}
