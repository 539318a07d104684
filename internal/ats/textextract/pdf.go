package textextract

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ledongthuc/pdf"

	"ats-workers/internal/common/errors"
	"ats-workers/internal/common/metrics"
)

var pdfMagic = []byte("%PDF-")

// PDFExtractor extracts text from PDF documents with ledongthuc/pdf.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText reads every page of the PDF and returns normalized text.
func (e *PDFExtractor) ExtractText(data []byte) (text string, err error) {
	start := time.Now()
	defer func() {
		metrics.ExtractionDuration.WithLabelValues("pdf").Observe(time.Since(start).Seconds())
	}()

	if len(data) == 0 {
		return "", errors.NewExtractionError("document is empty", nil)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data[:min(len(data), 1024)], "\x00\t\r\n "), pdfMagic) {
		return "", errors.NewExtractionError("document is not a PDF", nil)
	}

	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errors.NewExtractionError("corrupt PDF", fmt.Errorf("pdf reader panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError("cannot open PDF", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", errors.NewExtractionError("cannot read PDF text", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", errors.NewExtractionError("cannot read PDF text", err)
	}

	return Normalize(buf.String()), nil
}
