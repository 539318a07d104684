package resumeparser

import (
	"regexp"
	"strings"
	"unicode"

	"ats-workers/internal/ats/skills"
	"ats-workers/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
)

// nameScanLines is how many leading non-empty lines are searched for a name.
const nameScanLines = 5

// nonNameWords appear in resume headers but never in a person's name.
var nonNameWords = map[string]struct{}{
	"experience": {}, "education": {}, "skills": {}, "summary": {}, "projects": {}, "objective": {},
	"profile": {}, "resume": {}, "curriculum": {}, "vitae": {}, "cv": {}, "work": {}, "professional": {},
	"contact": {}, "certifications": {}, "references": {}, "employment": {}, "history": {}, "technical": {},
	"engineer": {}, "developer": {}, "manager": {}, "senior": {}, "junior": {}, "lead": {}, "intern": {},
	"software": {}, "address": {}, "phone": {}, "email": {}, "linkedin": {}, "github": {},
}

// ExtractEmail returns the first well-formed email address in text.
func ExtractEmail(text string) models.Field {
	if m := emailPattern.FindString(text); m != "" {
		return models.Found(m)
	}
	return models.NotFound()
}

// ExtractName looks for a proper-cased two or three word phrase at the start
// of one of the first non-empty lines. Lines carrying an email address or a
// phone number are skipped, and only the part before a separator such as
// "|" or "," is considered. Phrases made only of taxonomy skills, such as
// "Spring Boot", are not names; a nil taxonomy disables that check.
func ExtractName(text string, taxonomy *skills.Taxonomy) models.Field {
	lines := splitLines(text)
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}
	for _, line := range lines {
		if emailPattern.MatchString(line) || phonePattern.MatchString(line) {
			continue
		}
		candidate := firstSegment(line)
		if looksLikeName(candidate) && (taxonomy == nil || !taxonomy.OnlySkills(candidate)) {
			return models.Found(strings.Join(strings.Fields(candidate), " "))
		}
	}
	return models.NotFound()
}

func firstSegment(line string) string {
	if i := strings.IndexAny(line, "|,•·;–—"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, " - "); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func looksLikeName(s string) bool {
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 3 {
		return false
	}
	for _, w := range words {
		if _, bad := nonNameWords[strings.ToLower(w)]; bad {
			return false
		}
		if !properWord(w) {
			return false
		}
	}
	return true
}

// properWord accepts "Jane", "O'Neil", "Anne-Marie", "J." and "McDonald".
func properWord(w string) bool {
	for i, r := range w {
		switch {
		case i == 0:
			if !unicode.IsUpper(r) {
				return false
			}
		case unicode.IsLetter(r), r == '\'', r == '’', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}
