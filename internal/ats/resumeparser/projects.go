package resumeparser

import (
	"regexp"
	"strings"
)

var (
	inlineProjects = regexp.MustCompile(`(?i)\bprojects?\s*:\s*(.*)$`)
	// labelColon finds up to three words followed by a colon.
	labelColon    = regexp.MustCompile(`\b([A-Za-z]+(?:\s+[A-Za-z]+){0,2})\s*:`)
	labelWord     = regexp.MustCompile(`[A-Za-z]+`)
	bulletSplit   = regexp.MustCompile(`\s*[•·▪◦‣●■]\s*`)
	leadingBullet = regexp.MustCompile(`^(?:[-*–>]+|\d{1,2}[.)])\s+`)
)

// ExtractProjects returns project entries from a "Projects" section, or from
// an inline "Projects: A, B" list when no section heading is present.
func ExtractProjects(text string) []string {
	lines := splitLines(text)
	for i, line := range lines {
		if name, ok := sectionHeading(line); ok {
			if name != sectionProjects {
				continue
			}
			var items []string
			for _, next := range lines[i+1:] {
				if headingLike(next) {
					break
				}
				items = append(items, splitItems(next, false)...)
			}
			return nonNil(items)
		}
		if m := inlineProjects.FindStringSubmatch(line); m != nil {
			return nonNil(splitItems(cutAtLabel(m[1]), true))
		}
	}
	return []string{}
}

// cutAtLabel ends an inline project list at the next "Label:". A label is
// the longest run of trailing words before the colon that names a known
// section, or else a single capitalized word.
func cutAtLabel(rest string) string {
	for _, m := range labelColon.FindAllStringSubmatchIndex(rest, -1) {
		group := rest[m[2]:m[3]]
		words := labelWord.FindAllStringIndex(group, -1)
		for i := range words {
			if _, ok := sectionHeading(group[words[i][0]:]); ok {
				return rest[:m[2]+words[i][0]]
			}
		}
		last := words[len(words)-1]
		if c := group[last[0]]; c >= 'A' && c <= 'Z' {
			return rest[:m[2]+last[0]]
		}
	}
	return rest
}

// splitItems breaks a line into items on bullet markers, and also on commas
// and semicolons for inline lists.
func splitItems(line string, inline bool) []string {
	var parts []string
	for _, p := range bulletSplit.Split(line, -1) {
		if inline {
			parts = append(parts, strings.FieldsFunc(p, func(r rune) bool { return r == ',' || r == ';' })...)
		} else {
			parts = append(parts, p)
		}
	}

	var out []string
	for _, p := range parts {
		p = leadingBullet.ReplaceAllString(strings.TrimSpace(p), "")
		p = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(p), "."))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
