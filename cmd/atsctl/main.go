// Command atsctl scores and parses resumes and job descriptions locally and
// maintains the activity registry.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ats-workers/internal/ats/skills"
	"ats-workers/internal/ats/textextract"
)

var (
	taxonomyPath string

	rootCmd = &cobra.Command{
		Use:           "atsctl",
		Short:         "Resume and job description scoring tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&taxonomyPath, "taxonomy", os.Getenv("ATS_TAXONOMY_PATH"), "skill taxonomy file (default: built-in list)")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadTaxonomy() (*skills.Taxonomy, error) {
	if taxonomyPath == "" {
		return skills.Default(), nil
	}
	return skills.LoadFile(taxonomyPath)
}

// readDocument returns the text of a PDF, or of any other file read as
// plain text.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return textextract.NewPDFExtractor().ExtractText(data)
	}
	return textextract.Normalize(string(data)), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
