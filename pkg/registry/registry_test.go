package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-workers/internal/common/validation"
)

func validActivity(id string) Activity {
	return Activity{
		ID:          id,
		DisplayName: "Parse Resume",
		Category:    "ats",
		TaskType:    id,
		Timeout:     "30s",
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"resumeRef"},
			"properties": map[string]interface{}{
				"resumeRef": map[string]interface{}{"type": "string"},
			},
		},
	}
}

func TestShippedRegistry(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{"ats.resume.parse", "ats.score.calculate", "ats.jdcache.reload"} {
		activity, ok := reg.FindByTaskType(taskType)
		require.True(t, ok, taskType)
		assert.Equal(t, StatusCompleted, activity.ImplementationStatus)
	}

	activity, _ := reg.FindByTaskType("ats.score.calculate")
	result := validation.ValidateAgainstMap(map[string]interface{}{
		"candidateId": "C-1",
		"jobId":       "JOB-1",
	}, activity.InputSchema)
	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("resumeRef"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{"valid", func(r *ActivityRegistry) {}, ""},
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"duplicate id", func(r *ActivityRegistry) {
			r.Activities = append(r.Activities, r.Activities[0])
		}, "duplicate activity ID"},
		{"bad naming", func(r *ActivityRegistry) { r.Activities[0].ID = "Parse-Resume" }, "domain.subdomain.action"},
		{"missing task type", func(r *ActivityRegistry) { r.Activities[0].TaskType = "" }, "TaskType"},
		{"duplicate task type", func(r *ActivityRegistry) {
			dup := validActivity("ats.resume.reparse")
			dup.TaskType = r.Activities[0].TaskType
			r.Activities = append(r.Activities, dup)
		}, "duplicate task type"},
		{"bad timeout", func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, "invalid timeout"},
		{"bad schema", func(r *ActivityRegistry) {
			r.Activities[0].InputSchema = map[string]interface{}{"type": 12}
		}, "inputSchema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{validActivity("ats.resume.parse")}}
			tt.mutate(reg)

			err := reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAddUpdateSaveRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	reg := &ActivityRegistry{Version: "1.0.0"}

	require.NoError(t, reg.Add(validActivity("ats.resume.parse"), now))
	assert.Error(t, reg.Add(validActivity("ats.resume.parse"), now))

	require.NoError(t, reg.Update("ats.resume.parse", "status", StatusVerified, now))
	require.NoError(t, reg.Update("ats.resume.parse", "retries", "5", now))
	assert.Error(t, reg.Update("ats.resume.parse", "retries", "many", now))
	assert.Error(t, reg.Update("ats.resume.parse", "owner", "x", now))
	assert.Error(t, reg.Update("ats.missing.activity", "status", "x", now))

	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	require.NoError(t, Save(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T10:00:00Z", loaded.LastUpdated)
	require.Len(t, loaded.Activities, 1)
	assert.Equal(t, StatusVerified, loaded.Activities[0].ImplementationStatus)
	assert.Equal(t, 5, loaded.Activities[0].Retries)
}
