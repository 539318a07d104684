package reloadjdcache

import "ats-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"jobId": {
				Type:        "string",
				Description: "Job whose cached description is reloaded on next use",
				MaxLength:   validation.IntPtr(100),
			},
			"clearAll": {
				Type:        "boolean",
				Description: "Drop every cached job description",
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"cleared", "evicted"},
		Properties: map[string]validation.Property{
			"jobId":   {Type: "string"},
			"cleared": {Type: "boolean", Description: "Whether the whole cache was cleared"},
			"evicted": {Type: "integer", Description: "Entries present before clearing", Minimum: validation.FloatPtr(0)},
		},
		AdditionalProperties: false,
	}
}
