package parseresume

import "ats-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"resumeRef"},
		Properties: map[string]validation.Property{
			"candidateId": {
				Type:        "string",
				Description: "Candidate identifier echoed into the output",
				MaxLength:   validation.IntPtr(100),
			},
			"resumeRef": {
				Type:        "string",
				Description: "Relative reference of the resume document",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(512),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"fullName", "email", "skills", "yearsOfExperience", "wordCount"},
		Properties: map[string]validation.Property{
			"candidateId":       {Type: "string"},
			"fullName":          {Type: "string", Description: "Candidate name or UNKNOWN"},
			"email":             {Type: "string", Description: "Candidate email or unknown@email.com"},
			"nameFound":         {Type: "boolean"},
			"emailFound":        {Type: "boolean"},
			"skills":            {Type: "array", Items: &validation.Property{Type: "string"}},
			"yearsOfExperience": {Type: "number", Minimum: validation.FloatPtr(0)},
			"projects":          {Type: "array", Items: &validation.Property{Type: "string"}},
			"wordCount":         {Type: "integer", Minimum: validation.FloatPtr(0)},
		},
		AdditionalProperties: false,
	}
}
