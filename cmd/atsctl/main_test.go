package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs atsctl in-process with fresh flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	taxonomyPath, jdTitle, jdDepartment = "", "", ""
	scoreResumePath, scoreJDPath, scoreWeights = "", "", nil
	registryPath, updateID, updateField, updateValue = "", "", "", ""
	scaffoldID, scaffoldOut = "", ""
	var reset func(*cobra.Command)
	reset = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		c.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", "5 years experience in Java, Spring Boot, and AWS. Projects: Inventory System, Payment Gateway.")
	jd := writeFile(t, dir, "jd.txt", "Looking for a Java developer with 3+ years AWS experience.")

	out, err := execute(t, "score", "--resume", resume, "--jd", jd)
	require.NoError(t, err)

	var got struct {
		CandidateName string `json:"candidateName"`
		Result        struct {
			Score         float64  `json:"score"`
			SkillOverlap  float64  `json:"skillOverlap"`
			MissingSkills []string `json:"missingSkills"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "UNKNOWN", got.CandidateName)
	assert.Greater(t, got.Result.Score, 70.0)
	assert.Equal(t, 1.0, got.Result.SkillOverlap)
	assert.Empty(t, got.Result.MissingSkills)
}

func TestScoreCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", "Java")
	jd := writeFile(t, dir, "jd.txt", "Java")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing jd flag", []string{"score", "--resume", resume}, "required flag"},
		{"missing file", []string{"score", "--resume", filepath.Join(dir, "nope.txt"), "--jd", jd}, "failed to read"},
		{"weights count", []string{"score", "--resume", resume, "--jd", jd, "--weights", "0.5,0.5"}, "three values"},
		{"weights sum", []string{"score", "--resume", resume, "--jd", jd, "--weights", "0.5,0.5,0.5"}, "sum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseCommands(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", "Jane Doe\njane@example.com\nSkills: Python, Docker\n7 years of experience")
	jd := writeFile(t, dir, "jd.txt", "Position: Data Engineer\nRequired: Python, Spark. Minimum 4 years experience.")

	out, err := execute(t, "parse-resume", resume)
	require.NoError(t, err)
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "Jane Doe", parsed["fullName"])
	assert.Equal(t, "jane@example.com", parsed["email"])
	assert.Equal(t, 7.0, parsed["yearsOfExperience"])

	out, err = execute(t, "parse-jd", jd, "--department", "Data")
	require.NoError(t, err)
	var reqs map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &reqs))
	assert.Equal(t, "Data Engineer", reqs["title"])
	assert.Equal(t, "Data", reqs["department"])
	assert.Equal(t, 4.0, reqs["minimumExperience"])
	assert.Contains(t, reqs["requiredSkills"], "python")

	_, err = execute(t, "parse-jd")
	assert.Error(t, err)
}

func TestRegistryCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")

	_, err := execute(t, "registry", "validate", "--path", path)
	require.Error(t, err)

	out, err := execute(t, "registry", "add", "--path", path,
		"--id", "ats.resume.parse", "--display-name", "Parse Resume",
		"--description", "Parses resumes", "--category", "ats", "--task-type", "ats.resume.parse")
	require.NoError(t, err)
	assert.Contains(t, out, "Added activity: ats.resume.parse")

	_, err = execute(t, "registry", "add", "--path", path,
		"--id", "ats.resume.parse", "--display-name", "Again",
		"--description", "dup", "--category", "ats", "--task-type", "ats.resume.parse2")
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "registry", "update", "--path", path, "--id", "ats.resume.parse", "--field", "status", "--value", "completed")
	require.NoError(t, err)

	out, err = execute(t, "registry", "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 activities")

	out, err = execute(t, "registry", "validate", "--path", filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 activities")
}

func TestRegistryScaffold(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "score-calculate")
	shipped := filepath.Join("..", "..", "configs", "activity-registry.json")

	out, err := execute(t, "registry", "scaffold", "--path", shipped, "--id", "ats.score.calculate", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "handler.go")

	models, err := os.ReadFile(filepath.Join(dir, "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "package scorecalculate")
	assert.Contains(t, string(models), "CandidateID string `json:\"candidateId\"`")

	handler, err := os.ReadFile(filepath.Join(dir, "handler.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handler), `const TaskType = "ats.score.calculate"`)

	out, err = execute(t, "registry", "scaffold", "--path", shipped, "--id", "ats.score.calculate", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "skipped")

	_, err = execute(t, "registry", "scaffold", "--path", shipped, "--id", "ats.nothing.here", "--out", dir)
	assert.ErrorContains(t, err, "not found")
}

func TestExportedName(t *testing.T) {
	assert.Equal(t, "CandidateID", exportedName("candidateId"))
	assert.Equal(t, "ResumeRef", exportedName("resumeRef"))
	assert.Equal(t, "", exportedName(""))
}
