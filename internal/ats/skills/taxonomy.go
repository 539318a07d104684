// Package skills matches free text against a taxonomy of canonical skill names.
package skills

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"ats-workers/internal/models"
)

//go:embed skills.txt
var defaultTaxonomy string

// aliases maps common spellings onto canonical taxonomy entries. An alias is
// only active when its canonical entry is in the loaded taxonomy.
var aliases = map[string]string{
	"k8s":                   "kubernetes",
	"js":                    "javascript",
	"ts":                    "typescript",
	"nodejs":                "node.js",
	"node":                  "node.js",
	"reactjs":               "react",
	"react.js":              "react",
	"vuejs":                 "vue",
	"vue.js":                "vue",
	"angularjs":             "angular",
	"nextjs":                "next.js",
	"expressjs":             "express.js",
	"postgres":              "postgresql",
	"psql":                  "postgresql",
	"mongo":                 "mongodb",
	"springboot":            "spring boot",
	"dotnet":                ".net",
	"amazon web services":   "aws",
	"google cloud platform": "gcp",
	"sklearn":               "scikit-learn",
	"ml":                    "machine learning",
	"cicd":                  "ci/cd",
	"restful":               "rest api",
}

// Taxonomy is an immutable set of canonical skills. It is safe for concurrent use.
type Taxonomy struct {
	// phrases maps a space-joined token sequence to its canonical skill.
	phrases map[string]string
	maxLen  int
	size    int
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	t, err := Parse(strings.NewReader(defaultTaxonomy))
	if err != nil {
		panic(fmt.Sprintf("skills: built-in taxonomy: %v", err))
	}
	return t
}

// LoadFile reads a newline-delimited taxonomy file. An empty path yields the
// built-in taxonomy.
func LoadFile(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open skill taxonomy: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads one skill per line. Blank lines and lines starting with '#' are skipped.
func Parse(r io.Reader) (*Taxonomy, error) {
	t := &Taxonomy{phrases: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if t.add(line, line) {
			t.size++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read skill taxonomy: %w", err)
	}

	for alias, canonical := range aliases {
		if t.contains(canonical) {
			t.add(alias, canonical)
		}
	}
	return t, nil
}

func (t *Taxonomy) add(phrase, canonical string) bool {
	toks := Tokenize(phrase)
	if len(toks) == 0 {
		return false
	}
	key := strings.Join(toks, " ")
	if _, exists := t.phrases[key]; exists {
		return false
	}
	t.phrases[key] = canonical
	if len(toks) > t.maxLen {
		t.maxLen = len(toks)
	}
	return true
}

func (t *Taxonomy) contains(canonical string) bool {
	c, ok := t.phrases[strings.Join(Tokenize(canonical), " ")]
	return ok && c == canonical
}

// Len returns the number of canonical skills.
func (t *Taxonomy) Len() int { return t.size }

// Match returns every canonical skill mentioned in text as a whole word or
// whole phrase, case-insensitively.
func (t *Taxonomy) Match(text string) models.SkillSet {
	found := models.NewSkillSet()
	toks := Tokenize(text)
	for i := range toks {
		for n := 1; n <= t.maxLen && i+n <= len(toks); n++ {
			if canonical, ok := t.phrases[strings.Join(toks[i:i+n], " ")]; ok {
				found.Add(canonical)
			}
		}
	}
	return found
}

// OnlySkills reports whether every token of text belongs to a taxonomy
// phrase, as in "Spring Boot" or "Java Kafka". Empty text is not a skill list.
func (t *Taxonomy) OnlySkills(text string) bool {
	toks := Tokenize(text)
	if len(toks) == 0 {
		return false
	}
	for i := 0; i < len(toks); {
		step := 0
		for n := t.maxLen; n >= 1; n-- {
			if i+n > len(toks) {
				continue
			}
			if _, ok := t.phrases[strings.Join(toks[i:i+n], " ")]; ok {
				step = n
				break
			}
		}
		if step == 0 {
			return false
		}
		i += step
	}
	return true
}

// Tokenize lower-cases text and splits it into skill tokens. Letters, digits
// and "+#." are token characters, so "C++", "c#" and "node.js" stay whole;
// trailing dots are trimmed so a skill at the end of a sentence still matches.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.')
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimRight(f, ".")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
