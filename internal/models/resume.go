// internal/models/resume.go
package models

import (
	"encoding/json"
	"sort"
	"strings"
)

const (
	UnknownName  = "UNKNOWN"
	UnknownEmail = "unknown@email.com"
)

// Field is a best-effort extracted value that records whether anything was found.
type Field struct {
	Value string `json:"value"`
	Found bool   `json:"found"`
}

func Found(v string) Field { return Field{Value: v, Found: true} }

func NotFound() Field { return Field{} }

// Or returns the extracted value, or fallback when nothing was found.
func (f Field) Or(fallback string) string {
	if f.Found {
		return f.Value
	}
	return fallback
}

// SkillSet is a deduplicated set of lower-cased skill names.
type SkillSet map[string]struct{}

func NewSkillSet(skills ...string) SkillSet {
	s := make(SkillSet, len(skills))
	for _, skill := range skills {
		s.Add(skill)
	}
	return s
}

func (s SkillSet) Add(skill string) {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if skill != "" {
		s[skill] = struct{}{}
	}
}

func (s SkillSet) Has(skill string) bool {
	_, ok := s[strings.ToLower(skill)]
	return ok
}

func (s SkillSet) Len() int { return len(s) }

// Sorted returns the skills in lexical order.
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for skill := range s {
		out = append(out, skill)
	}
	sort.Strings(out)
	return out
}

func (s SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *SkillSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewSkillSet(items...)
	return nil
}

// ParsedResume is the structured view of one resume text.
type ParsedResume struct {
	FullName          Field    `json:"fullName"`
	Email             Field    `json:"email"`
	Skills            SkillSet `json:"skills"`
	YearsOfExperience float64  `json:"yearsOfExperience"`
	Projects          []string `json:"projects"`
	WordCount         int      `json:"wordCount"`
}

// DisplayName projects FullName to a plain string, using the UNKNOWN sentinel.
func (p *ParsedResume) DisplayName() string {
	return p.FullName.Or(UnknownName)
}

// DisplayEmail projects Email to a plain string, using the unknown@email.com sentinel.
func (p *ParsedResume) DisplayEmail() string {
	return p.Email.Or(UnknownEmail)
}
