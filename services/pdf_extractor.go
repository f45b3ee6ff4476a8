package services

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor pulls the text layer out of an uploaded transcript using
// ledongthuc/pdf. Text is returned as visually grouped rows: fragments are
// bucketed by vertical position and ordered left-to-right, which is the
// line shape the transcript parser expects.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// sanitizePDF truncates trailing garbage after the last %%EOF marker.
// Portal downloads often carry HTML or tracking payloads appended past the
// end of the document, which breaks strict PDF readers.
func sanitizePDF(content []byte) []byte {
	if len(content) == 0 || !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content
	}

	eofMarker := []byte("%%EOF")
	lastEOF := bytes.LastIndex(content, eofMarker)
	if lastEOF == -1 {
		return content
	}

	pdfEnd := lastEOF + len(eofMarker)
	for pdfEnd < len(content) && (content[pdfEnd] == '\n' || content[pdfEnd] == '\r') {
		pdfEnd++
	}

	if extra := len(content) - pdfEnd; extra > 10 {
		log.Printf("PDF Extractor: Removing %d bytes of trailing garbage after %%EOF", extra)
		return content[:pdfEnd]
	}
	return content
}

// ExtractLines extracts the document's text rows in page order. An error
// here means the file itself could not be read; a readable file with no
// transcript content returns rows that simply will not match any pattern
// downstream.
func (p *PDFExtractor) ExtractLines(content []byte) ([]string, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty PDF content")
	}

	content = sanitizePDF(content)
	reader := bytes.NewReader(content)

	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	numPages := pdfReader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	log.Printf("PDF Extractor: Processing transcript with %d pages", numPages)

	var lines []string
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			log.Printf("PDF Extractor: Page %d is null, skipping", i)
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			// Fall back to plain text when row grouping fails; the
			// parser's loose tier can still recover course lines.
			text, plainErr := page.GetPlainText(nil)
			if plainErr != nil {
				log.Printf("PDF Extractor: Page %d unreadable by both strategies: %v", i, plainErr)
				continue
			}
			for _, line := range strings.Split(text, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, line)
				}
			}
			continue
		}

		for _, row := range rows {
			var rowText strings.Builder
			for _, word := range row.Content {
				if rowText.Len() > 0 {
					rowText.WriteString(" ")
				}
				rowText.WriteString(word.S)
			}
			if line := strings.TrimSpace(rowText.String()); line != "" {
				lines = append(lines, line)
			}
		}
	}

	log.Printf("PDF Extractor: Extracted %d text rows from %d pages", len(lines), numPages)
	return lines, nil
}
