// Package textextract turns source documents into normalized plain text.
package textextract

import (
	"strings"
	"unicode"
)

// Extractor converts raw document bytes into plain text. Implementations
// return an ExtractionError when the document cannot be read; an empty string
// with a nil error means the document was readable but held no text.
type Extractor interface {
	ExtractText(data []byte) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(data []byte) (string, error)

func (f ExtractorFunc) ExtractText(data []byte) (string, error) {
	return f(data)
}

// Normalize strips non-printable characters, collapses runs of horizontal
// whitespace to one space and runs of line breaks to one newline. Line
// structure is kept because the parsers rely on it.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	pendingNewline := false

	flush := func() {
		if b.Len() == 0 {
			pendingSpace, pendingNewline = false, false
			return
		}
		if pendingNewline {
			b.WriteByte('\n')
		} else if pendingSpace {
			b.WriteByte(' ')
		}
		pendingSpace, pendingNewline = false, false
	}

	for _, r := range text {
		switch {
		case r == '\n' || r == '\r' || r == '\f' || r == '\v' || r == '\u2028' || r == '\u2029':
			pendingNewline = true
		case unicode.IsSpace(r):
			pendingSpace = true
		case r == unicode.ReplacementChar || !unicode.IsPrint(r):
			// dropped
		default:
			flush()
			b.WriteRune(r)
		}
	}
	return b.String()
}
