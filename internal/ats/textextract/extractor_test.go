package textextract

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-workers/internal/ats/textextract/pdftest"
	"ats-workers/internal/common/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"collapses spaces and tabs", "Java \t  Spring Boot", "Java Spring Boot"},
		{"collapses newline runs", "Jane Doe\r\n\r\n\n  Engineer  \n", "Jane Doe\nEngineer"},
		{"strips control characters", "Go\x00lang\u200b dev\ufffd", "Golang dev"},
		{"trims leading whitespace", "\n\n  Projects:", "Projects:"},
		{"keeps unicode letters", "Zoë  Müller", "Zoë Müller"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestPDFExtractor_RejectsNonPDF(t *testing.T) {
	ex := NewPDFExtractor()

	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"plain text", []byte("5 years experience in Java")},
		{"docx zip header", []byte("PK\x03\x04 not a pdf")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ex.ExtractText(tt.data)
			require.Error(t, err)
			assert.Empty(t, text)
			assert.True(t, stderrors.Is(err, errors.ErrExtraction))
		})
	}
}

func TestPDFExtractor_CorruptPDF(t *testing.T) {
	text, err := NewPDFExtractor().ExtractText([]byte("%PDF-1.7\n%garbage with no xref or trailer"))
	require.Error(t, err)
	assert.Empty(t, text)
	assert.True(t, stderrors.Is(err, errors.ErrExtraction))
}

func TestPDFExtractor_ExtractsLines(t *testing.T) {
	data := pdftest.Build("Jane Doe", "jane.doe@example.com", "Skills: Go (Golang), Kubernetes")

	text, err := NewPDFExtractor().ExtractText(data)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "jane.doe@example.com")
	assert.Contains(t, text, "Skills: Go (Golang), Kubernetes")
}

func TestExtractorFunc(t *testing.T) {
	var ex Extractor = ExtractorFunc(func(data []byte) (string, error) {
		return string(data), nil
	})
	text, err := ex.ExtractText([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}
