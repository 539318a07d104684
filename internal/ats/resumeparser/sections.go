package resumeparser

import (
	"strings"
)

// Section names returned by sectionHeading.
const (
	sectionExperience = "experience"
	sectionProjects   = "projects"
	sectionOther      = "other"
)

var headings = map[string]string{
	"experience":              sectionExperience,
	"work experience":         sectionExperience,
	"professional experience": sectionExperience,
	"relevant experience":     sectionExperience,
	"employment":              sectionExperience,
	"employment history":      sectionExperience,
	"work history":            sectionExperience,
	"career history":          sectionExperience,
	"projects":                sectionProjects,
	"project":                 sectionProjects,
	"personal projects":       sectionProjects,
	"key projects":            sectionProjects,
	"academic projects":       sectionProjects,
	"education":               sectionOther,
	"skills":                  sectionOther,
	"technical skills":        sectionOther,
	"key skills":              sectionOther,
	"core skills":             sectionOther,
	"certifications":          sectionOther,
	"certificates":            sectionOther,
	"summary":                 sectionOther,
	"professional summary":    sectionOther,
	"objective":               sectionOther,
	"profile":                 sectionOther,
	"awards":                  sectionOther,
	"achievements":            sectionOther,
	"publications":            sectionOther,
	"languages":               sectionOther,
	"interests":               sectionOther,
	"hobbies":                 sectionOther,
	"references":              sectionOther,
	"contact":                 sectionOther,
	"volunteering":            sectionOther,
}

// sectionHeading reports whether line is a known resume section heading such
// as "EXPERIENCE" or "Technical Skills:".
func sectionHeading(line string) (string, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(strings.TrimRight(strings.TrimSpace(line), ":")), " "))
	name, ok := headings[key]
	return name, ok
}

// headingLike reports whether line ends a block: a known heading or a short
// label line ending in a colon.
func headingLike(line string) bool {
	if _, ok := sectionHeading(line); ok {
		return true
	}
	trimmed := strings.TrimSpace(line)
	return strings.HasSuffix(trimmed, ":") && len(strings.Fields(trimmed)) <= 4
}

// sectionLines returns the lines following the first heading named section,
// up to the next heading.
func sectionLines(lines []string, section string) []string {
	for i, line := range lines {
		if name, ok := sectionHeading(line); ok && name == section {
			var out []string
			for _, next := range lines[i+1:] {
				if headingLike(next) {
					break
				}
				out = append(out, next)
			}
			return out
		}
	}
	return nil
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
