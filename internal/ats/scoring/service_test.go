package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-workers/internal/ats/jdparser"
	"ats-workers/internal/ats/resumeparser"
	apperrors "ats-workers/internal/common/errors"
	"ats-workers/internal/models"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(DefaultWeights)
	require.NoError(t, err)
	return s
}

func TestCalculate_StrongMatchScenario(t *testing.T) {
	resumeText := "5 years experience in Java, Spring Boot, and AWS. Projects: Inventory System, Payment Gateway."
	jdText := "Looking for a Java developer with 3+ years AWS experience."

	resume := resumeparser.New(nil).Parse(resumeText)
	jd := jdparser.New(nil).Parse(jdText)

	got, err := newService(t).Calculate(resumeText, jdText, resume, jd)
	require.NoError(t, err)

	assert.InDelta(t, 4/math.Sqrt(66), got.SemanticSimilarity, 1e-9)
	assert.Equal(t, 1.0, got.SkillOverlap)
	assert.Equal(t, 1.0, got.ExperienceFit)
	assert.Greater(t, got.Score, 70.0)
	assert.InDelta(t, 100*(0.4*4/math.Sqrt(66)+0.4+0.2), got.Score, 1e-9)
	assert.Equal(t, []string{"aws", "java"}, got.MatchedSkills)
	assert.Empty(t, got.MissingSkills)
}

func TestCalculate_NoSignalScenario(t *testing.T) {
	resumeText := "lorem ipsum dolor sit amet consectetur adipiscing elit"
	jdText := "Required: Java, Python and Docker. Minimum 3 years experience."

	resume := resumeparser.New(nil).Parse(resumeText)
	jd := jdparser.New(nil).Parse(jdText)

	require.Equal(t, 0, resume.Skills.Len())
	require.Equal(t, 3, jd.RequiredSkills.Len())
	assert.Equal(t, models.UnknownName, resume.DisplayName())
	assert.Equal(t, models.UnknownEmail, resume.DisplayEmail())

	got, err := newService(t).Calculate(resumeText, jdText, resume, jd)
	require.NoError(t, err)

	assert.Equal(t, 0.0, got.SkillOverlap)
	assert.Less(t, got.Score, 40.0)
	assert.Equal(t, []string{"docker", "java", "python"}, got.MissingSkills)
	assert.Empty(t, got.MatchedSkills)
}

func TestCalculate_NilRecords(t *testing.T) {
	s := newService(t)

	_, err := s.Calculate("a", "b", nil, &models.JDRequirements{})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = s.Calculate("a", "b", &models.ParsedResume{}, nil)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestCalculate_DegenerateInputsScoreLow(t *testing.T) {
	got, err := newService(t).Calculate("", "", &models.ParsedResume{}, &models.JDRequirements{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, got.SemanticSimilarity)
	assert.Equal(t, 0.0, got.SkillOverlap)
	assert.Equal(t, 1.0, got.ExperienceFit)
	assert.InDelta(t, 20.0, got.Score, 1e-9)
	assert.NotNil(t, got.MatchedSkills)
	assert.NotNil(t, got.MissingSkills)
}

func TestCalculate_ScoreBounded(t *testing.T) {
	weights := []Weights{
		DefaultWeights,
		{Similarity: 1},
		{SkillOverlap: 1},
		{Experience: 1},
		{Similarity: 0.2, SkillOverlap: 0.3, Experience: 0.5},
	}
	texts := []string{"", "go java", "java java java aws", "unrelated words entirely"}
	resumes := []*models.ParsedResume{
		{},
		{Skills: models.NewSkillSet("java", "aws"), YearsOfExperience: 40},
		{Skills: models.NewSkillSet("python"), YearsOfExperience: 0.5},
	}
	jds := []*models.JDRequirements{
		{},
		{RequiredSkills: models.NewSkillSet("java"), MinimumExperience: 3},
		{RequiredSkills: models.NewSkillSet("java", "aws", "docker"), MinimumExperience: 10},
	}

	for _, w := range weights {
		s, err := NewService(w)
		require.NoError(t, err)
		for _, a := range texts {
			for _, b := range texts {
				for _, r := range resumes {
					for _, jd := range jds {
						got, err := s.Calculate(a, b, r, jd)
						require.NoError(t, err)
						assert.GreaterOrEqual(t, got.Score, 0.0)
						assert.LessOrEqual(t, got.Score, 100.0)
					}
				}
			}
		}
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	s := newService(t)
	r := &models.ParsedResume{Skills: models.NewSkillSet("java", "kafka"), YearsOfExperience: 2}
	jd := &models.JDRequirements{RequiredSkills: models.NewSkillSet("java", "aws"), MinimumExperience: 4}

	first, err := s.Calculate("java kafka streaming", "java aws cloud", r, jd)
	require.NoError(t, err)
	second, err := s.Calculate("java kafka streaming", "java aws cloud", r, jd)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSkillOverlap(t *testing.T) {
	tests := []struct {
		name     string
		have     models.SkillSet
		required models.SkillSet
		want     float64
	}{
		{"superset", models.NewSkillSet("java", "aws", "docker"), models.NewSkillSet("java", "aws"), 1},
		{"half", models.NewSkillSet("java"), models.NewSkillSet("java", "aws"), 0.5},
		{"none", models.NewSkillSet("go"), models.NewSkillSet("java"), 0},
		{"no required skills", models.NewSkillSet("java"), models.NewSkillSet(), 0},
		{"nil sets", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _ := SkillOverlap(tt.have, tt.required)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestExperienceFit(t *testing.T) {
	assert.Equal(t, 1.0, ExperienceFit(0, 0))
	assert.Equal(t, 1.0, ExperienceFit(7, 3))
	assert.InDelta(t, 0.5, ExperienceFit(1.5, 3), 1e-9)
	assert.Equal(t, 0.0, ExperienceFit(0, 3))
	assert.Equal(t, 1.0, ExperienceFit(2, -1))
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights.Validate())
	assert.NoError(t, Weights{Similarity: 0.1, SkillOverlap: 0.2, Experience: 0.7}.Validate())
	assert.Error(t, Weights{Similarity: 0.5, SkillOverlap: 0.5, Experience: 0.5}.Validate())
	assert.Error(t, Weights{Similarity: -0.2, SkillOverlap: 0.6, Experience: 0.6}.Validate())
	assert.Error(t, Weights{}.Validate())

	_, err := NewService(Weights{Similarity: 1, SkillOverlap: 1})
	assert.Error(t, err)
}

type constSimilarity float64

func (c constSimilarity) Calculate(_, _ string) float64 { return float64(c) }

func TestNewServiceWith_CustomSimilarity(t *testing.T) {
	s, err := NewServiceWith(Weights{Similarity: 1}, constSimilarity(0.25))
	require.NoError(t, err)

	got, err := s.Calculate("x", "y", &models.ParsedResume{}, &models.JDRequirements{})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got.Score, 1e-9)
}
