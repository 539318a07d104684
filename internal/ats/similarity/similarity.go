// Package similarity computes cosine similarity between term-frequency
// vectors of two texts.
package similarity

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// defaultStopWords are dropped before vectors are built.
var defaultStopWords = []string{
	"about", "above", "after", "again", "all", "also", "am", "an", "and", "any", "are", "as", "at",
	"be", "because", "been", "before", "being", "between", "both", "but", "by",
	"can", "could", "did", "do", "does", "doing", "during", "each", "etc",
	"few", "for", "from", "further", "had", "has", "have", "having", "he", "her", "here", "hers", "him", "his", "how",
	"if", "in", "into", "is", "it", "its", "itself", "just", "me", "more", "most", "my",
	"no", "nor", "not", "of", "off", "on", "once", "only", "or", "other", "our", "ours", "out", "over", "own",
	"per", "same", "she", "should", "so", "some", "such",
	"than", "that", "the", "their", "theirs", "them", "then", "there", "these", "they", "this", "those", "through", "to", "too",
	"under", "until", "up", "us", "very", "via", "was", "we", "were", "what", "when", "where", "which", "while", "who", "whom", "why",
	"will", "with", "would", "you", "your", "yours",
}

// Calculator holds the stop-word list. The zero value is not usable; call New.
type Calculator struct {
	stopWords map[string]struct{}
}

// New returns a Calculator with the built-in English stop-word list.
func New() *Calculator {
	return NewWithStopWords(defaultStopWords)
}

func NewWithStopWords(words []string) *Calculator {
	stop := make(map[string]struct{}, len(words))
	for _, w := range words {
		stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Calculator{stopWords: stop}
}

// Calculate returns the cosine similarity of a and b in [0,1]. It is
// symmetric, returns 1 for identical non-empty texts and 0 when either text
// has no usable tokens.
func (c *Calculator) Calculate(a, b string) float64 {
	va := c.vector(a)
	vb := c.vector(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}

	// Iterate the smaller map; integer arithmetic keeps the result order-independent.
	small, large := va, vb
	if len(small) > len(large) {
		small, large = large, small
	}
	var dot int64
	for term, n := range small {
		dot += int64(n) * int64(large[term])
	}
	if dot == 0 {
		return 0
	}

	sim := float64(dot) / math.Sqrt(float64(norm(va))*float64(norm(vb)))
	switch {
	case sim > 1:
		return 1
	case sim < 0:
		return 0
	}
	return sim
}

// Tokens returns the filtered tokens of text in order of appearance.
func (c *Calculator) Tokens(text string) []string {
	var out []string
	for _, tok := range Split(text) {
		if c.keep(tok) {
			out = append(out, tok)
		}
	}
	return out
}

func (c *Calculator) vector(text string) map[string]int {
	tf := make(map[string]int)
	for _, tok := range Split(text) {
		if c.keep(tok) {
			tf[tok]++
		}
	}
	return tf
}

func (c *Calculator) keep(tok string) bool {
	if utf8.RuneCountInString(tok) < 2 || !hasLetter(tok) {
		return false
	}
	_, stop := c.stopWords[tok]
	return !stop
}

func norm(v map[string]int) int64 {
	var sum int64
	for _, n := range v {
		sum += int64(n) * int64(n)
	}
	return sum
}

// Split lower-cases text and splits it on every rune that is not a letter,
// digit, '+' or '#', so "C++" and "c#" survive as tokens.
func Split(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#')
	})
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
