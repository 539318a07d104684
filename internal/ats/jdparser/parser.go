// Package jdparser extracts JDRequirements from job-description text.
package jdparser

import (
	"regexp"
	"strings"

	"ats-workers/internal/ats/resumeparser"
	"ats-workers/internal/ats/skills"
	"ats-workers/internal/models"
)

// maxTitleWords bounds the leading-line title heuristic.
const maxTitleWords = 8

var (
	sentenceBreak    = regexp.MustCompile(`[;!?\n]+|\.(?:\s+|$)`)
	requirementWords = regexp.MustCompile(`(?i)\b(?:experience[ds]?|required|requires?|requirements?|minimum|min\.?|at least)\b`)

	titleLabel      = regexp.MustCompile(`(?im)^[ \t]*(?:job[ \t]+title|title|position|role)[ \t]*:[ \t]*(.+?)[ \t]*$`)
	departmentLabel = regexp.MustCompile(`(?im)^[ \t]*(?:department|dept\.?|team|division)[ \t]*:[ \t]*(.+?)[ \t]*$`)
)

// Meta carries values known from the job record. Non-empty fields win over
// anything found in the text.
type Meta struct {
	Title      string
	Department string
}

type Parser struct {
	taxonomy *skills.Taxonomy
}

// New returns a Parser matching skills against taxonomy, or the built-in
// taxonomy when taxonomy is nil.
func New(taxonomy *skills.Taxonomy) *Parser {
	if taxonomy == nil {
		taxonomy = skills.Default()
	}
	return &Parser{taxonomy: taxonomy}
}

// Parse never fails.
func (p *Parser) Parse(text string) *models.JDRequirements {
	return p.ParseWithMeta(text, Meta{})
}

func (p *Parser) ParseWithMeta(text string, meta Meta) *models.JDRequirements {
	req := &models.JDRequirements{
		RequiredSkills:    p.taxonomy.Match(text),
		MinimumExperience: MinimumExperience(text),
		Title:             strings.TrimSpace(meta.Title),
		Department:        strings.TrimSpace(meta.Department),
	}
	if req.Title == "" {
		req.Title = ExtractTitle(text)
	}
	if req.Department == "" {
		req.Department = labelValue(departmentLabel, text)
	}
	return req
}

// MinimumExperience returns the largest years figure stated in a sentence
// that also talks about experience or a requirement. Figures elsewhere,
// such as "founded 20 years ago", are ignored.
func MinimumExperience(text string) float64 {
	best := 0.0
	for _, sentence := range sentenceBreak.Split(text, -1) {
		if !requirementWords.MatchString(sentence) {
			continue
		}
		if v := resumeparser.YearsMentioned(sentence); v > best {
			best = v
		}
	}
	return best
}

// ExtractTitle looks for a "Title:" style label, then falls back to a short
// leading line that reads like a heading rather than a sentence.
func ExtractTitle(text string) string {
	if v := labelValue(titleLabel, text); v != "" {
		return v
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if looksLikeTitle(line) {
			return line
		}
		return ""
	}
	return ""
}

func looksLikeTitle(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > maxTitleWords {
		return false
	}
	if strings.ContainsAny(line, ":@") || strings.HasSuffix(line, ".") {
		return false
	}
	return !requirementWords.MatchString(line)
}

func labelValue(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
