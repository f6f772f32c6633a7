// Package document extracts page text from uploaded RFP files.
package document

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"

	"github.com/anshumaan69/tenderflow/internal/domain"
)

// DefaultMaxPages bounds how many pages are read from one document
const DefaultMaxPages = 200

var pdfMagic = []byte("%PDF-")

// Extractor reads PDF text layers with MuPDF and passes plain text through
type Extractor struct {
	maxPages int
	logger   zerolog.Logger
}

// NewExtractor creates a new document text extractor
func NewExtractor(maxPages int, logger zerolog.Logger) *Extractor {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Extractor{maxPages: maxPages, logger: logger}
}

// ExtractText returns the ordered page texts of data
func (e *Extractor) ExtractText(ctx context.Context, data []byte) ([]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrExtractionFailed)
	}

	if IsPDF(data) {
		return e.extractPDF(ctx, data)
	}
	return extractPlain(data)
}

// IsPDF reports whether data starts with the PDF header
func IsPDF(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, pdfMagic)
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF: %v", domain.ErrExtractionFailed, err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount <= 0 {
		return nil, fmt.Errorf("%w: PDF has no pages", domain.ErrExtractionFailed)
	}
	if pageCount > e.maxPages {
		e.logger.Warn().
			Int("pages", pageCount).
			Int("max_pages", e.maxPages).
			Msg("document exceeds page limit, reading first pages only")
		pageCount = e.maxPages
	}

	pages := make([]string, 0, pageCount)
	hasText := false

	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		text, err := doc.Text(pageNum)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read page %d: %v", domain.ErrExtractionFailed, pageNum+1, err)
		}
		if strings.TrimSpace(text) != "" {
			hasText = true
		}
		pages = append(pages, text)
	}

	if !hasText {
		return nil, fmt.Errorf("%w: PDF has no text layer", domain.ErrExtractionFailed)
	}

	e.logger.Debug().Int("pages", len(pages)).Msg("pdf text extracted")
	return pages, nil
}

// extractPlain accepts UTF-8 text documents as a single page
func extractPlain(data []byte) ([]string, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "text/") || !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: unsupported document type %s", domain.ErrExtractionFailed, contentType)
	}
	return []string{string(data)}, nil
}
