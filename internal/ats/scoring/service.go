// Package scoring combines text similarity, skill overlap and experience fit
// into the 0-100 ATS score.
package scoring

import (
	"fmt"
	"math"

	"ats-workers/internal/ats/similarity"
	apperrors "ats-workers/internal/common/errors"
	"ats-workers/internal/models"
)

// Weights of the three signals. They must be non-negative and sum to 1.
type Weights struct {
	Similarity   float64
	SkillOverlap float64
	Experience   float64
}

// DefaultWeights favours textual and skill evidence over tenure.
var DefaultWeights = Weights{Similarity: 0.4, SkillOverlap: 0.4, Experience: 0.2}

const weightTolerance = 1e-6

func (w Weights) Validate() error {
	if w.Similarity < 0 || w.SkillOverlap < 0 || w.Experience < 0 {
		return fmt.Errorf("weights must be non-negative: %+v", w)
	}
	if sum := w.Similarity + w.SkillOverlap + w.Experience; math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("weights must sum to 1, got %.6f", sum)
	}
	return nil
}

// TextSimilarity scores two texts in [0,1].
type TextSimilarity interface {
	Calculate(a, b string) float64
}

// Service is stateless after construction and safe for concurrent use.
type Service struct {
	weights    Weights
	similarity TextSimilarity
}

// NewService returns a Service using the cosine similarity calculator.
func NewService(w Weights) (*Service, error) {
	return NewServiceWith(w, similarity.New())
}

func NewServiceWith(w Weights, sim TextSimilarity) (*Service, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if sim == nil {
		sim = similarity.New()
	}
	return &Service{weights: w, similarity: sim}, nil
}

func (s *Service) Weights() Weights { return s.weights }

// Calculate scores a resume against a JD. Only nil records are an error;
// empty texts, empty skill sets and zero experience all yield a valid score.
func (s *Service) Calculate(resumeText, jdText string, resume *models.ParsedResume, jd *models.JDRequirements) (*models.ScoreResult, error) {
	if resume == nil {
		return nil, apperrors.NewInvalidInputError("parsedResume")
	}
	if jd == nil {
		return nil, apperrors.NewInvalidInputError("jdRequirements")
	}

	sim := s.similarity.Calculate(resumeText, jdText)
	overlap, matched, missing := SkillOverlap(resume.Skills, jd.RequiredSkills)
	fit := ExperienceFit(resume.YearsOfExperience, jd.MinimumExperience)

	score := 100 * (s.weights.Similarity*sim + s.weights.SkillOverlap*overlap + s.weights.Experience*fit)

	return &models.ScoreResult{
		Score:              clamp(score, 0, 100),
		SemanticSimilarity: sim,
		SkillOverlap:       overlap,
		ExperienceFit:      fit,
		MatchedSkills:      matched,
		MissingSkills:      missing,
	}, nil
}

// SkillOverlap is the fraction of required skills the candidate has. A JD
// without required skills gives 0, not a vacuous 1.
func SkillOverlap(have, required models.SkillSet) (overlap float64, matched, missing []string) {
	matched, missing = []string{}, []string{}
	for _, skill := range required.Sorted() {
		if have.Has(skill) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	if len(required) == 0 {
		return 0, matched, missing
	}
	return float64(len(matched)) / float64(len(required)), matched, missing
}

// ExperienceFit is years/minimum capped at 1. No minimum means a full fit.
func ExperienceFit(years, minimum float64) float64 {
	if minimum <= 0 {
		return 1
	}
	if years <= 0 {
		return 0
	}
	return math.Min(years/minimum, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
