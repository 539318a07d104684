package main

import (
	"github.com/spf13/cobra"

	"ats-workers/internal/ats/jdparser"
	"ats-workers/internal/ats/resumeparser"
)

var (
	jdTitle      string
	jdDepartment string
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume <file>",
	Short: "Print the parsed view of a resume as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taxonomy, err := loadTaxonomy()
		if err != nil {
			return err
		}
		text, err := readDocument(args[0])
		if err != nil {
			return err
		}
		parsed := resumeparser.New(taxonomy).Parse(text)
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
			"fullName":          parsed.DisplayName(),
			"email":             parsed.DisplayEmail(),
			"skills":            parsed.Skills.Sorted(),
			"yearsOfExperience": parsed.YearsOfExperience,
			"projects":          parsed.Projects,
			"wordCount":         parsed.WordCount,
		})
	},
}

var parseJDCmd = &cobra.Command{
	Use:   "parse-jd <file>",
	Short: "Print the requirements found in a job description as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taxonomy, err := loadTaxonomy()
		if err != nil {
			return err
		}
		text, err := readDocument(args[0])
		if err != nil {
			return err
		}
		reqs := jdparser.New(taxonomy).ParseWithMeta(text, jdparser.Meta{Title: jdTitle, Department: jdDepartment})
		return writeJSON(cmd.OutOrStdout(), reqs)
	},
}

func init() {
	parseJDCmd.Flags().StringVar(&jdTitle, "title", "", "job title, overrides the one found in the text")
	parseJDCmd.Flags().StringVar(&jdDepartment, "department", "", "department, overrides the one found in the text")

	rootCmd.AddCommand(parseResumeCmd, parseJDCmd)
}
