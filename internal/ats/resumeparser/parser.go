// Package resumeparser extracts a ParsedResume from resume text. Each field
// has its own heuristic; none of them fail, so unusual layouts degrade to
// empty or not-found values.
package resumeparser

import (
	"strings"
	"time"

	"ats-workers/internal/ats/skills"
	"ats-workers/internal/models"
)

type Parser struct {
	taxonomy *skills.Taxonomy
	now      func() time.Time
}

type Option func(*Parser)

// WithClock sets the time used to close "- Present" date ranges.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// New returns a Parser matching skills against taxonomy, or the built-in
// taxonomy when taxonomy is nil.
func New(taxonomy *skills.Taxonomy, opts ...Option) *Parser {
	if taxonomy == nil {
		taxonomy = skills.Default()
	}
	p := &Parser{taxonomy: taxonomy, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse never fails; every field of the result is populated.
func (p *Parser) Parse(text string) *models.ParsedResume {
	years := YearsMentioned(text)
	if fromDates := YearsFromDateRanges(text, p.now()); fromDates > years {
		years = fromDates
	}

	return &models.ParsedResume{
		FullName:          ExtractName(text, p.taxonomy),
		Email:             ExtractEmail(text),
		Skills:            p.taxonomy.Match(text),
		YearsOfExperience: years,
		Projects:          ExtractProjects(text),
		WordCount:         WordCount(text),
	}
}

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
