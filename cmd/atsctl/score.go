package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ats-workers/internal/ats/jdparser"
	"ats-workers/internal/ats/resumeparser"
	"ats-workers/internal/ats/scoring"
)

var (
	scoreResumePath string
	scoreJDPath     string
	scoreWeights    []float64
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job description",
	Example: `  atsctl score --resume jane.pdf --jd backend.pdf
  atsctl score --resume jane.txt --jd backend.txt --weights 0.5,0.3,0.2`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreResumePath, "resume", "", "resume file (.pdf or plain text)")
	scoreCmd.Flags().StringVar(&scoreJDPath, "jd", "", "job description file (.pdf or plain text)")
	scoreCmd.Flags().Float64SliceVar(&scoreWeights, "weights", nil, "similarity,skill_overlap,experience weights summing to 1")
	_ = scoreCmd.MarkFlagRequired("resume")
	_ = scoreCmd.MarkFlagRequired("jd")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	weights := scoring.DefaultWeights
	if len(scoreWeights) > 0 {
		if len(scoreWeights) != 3 {
			return fmt.Errorf("--weights needs three values, got %d", len(scoreWeights))
		}
		weights = scoring.Weights{Similarity: scoreWeights[0], SkillOverlap: scoreWeights[1], Experience: scoreWeights[2]}
	}
	scorer, err := scoring.NewService(weights)
	if err != nil {
		return err
	}

	taxonomy, err := loadTaxonomy()
	if err != nil {
		return err
	}
	resumeText, err := readDocument(scoreResumePath)
	if err != nil {
		return err
	}
	jdText, err := readDocument(scoreJDPath)
	if err != nil {
		return err
	}

	resume := resumeparser.New(taxonomy).Parse(resumeText)
	reqs := jdparser.New(taxonomy).Parse(jdText)
	result, err := scorer.Calculate(resumeText, jdText, resume, reqs)
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
		"candidateName":  resume.DisplayName(),
		"candidateEmail": resume.DisplayEmail(),
		"requirements":   reqs,
		"result":         result,
	})
}
