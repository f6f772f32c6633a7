package usecase

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultMaxDocumentChars bounds the text forwarded to the language model
const DefaultMaxDocumentChars = 100000

// Compiled regex patterns for document preprocessing
var (
	// Matches page furniture lines like "Page 3 of 10" or "- 4 -"
	pageNumberPattern = regexp.MustCompile(`(?im)^[ \t]*(page\s+\d+(\s+of\s+\d+)?|-\s*\d+\s*-)[ \t]*(\n|$)`)

	// Control characters other than tab and newline
	controlCharPattern = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)

	horizontalSpacePattern = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankLinesPattern      = regexp.MustCompile(`\n\s*\n(\s*\n)+`)
	multiSpacePattern      = regexp.MustCompile(`\s+`)
)

// DocumentPreprocessor cleans extracted page texts before they are sent to the model
type DocumentPreprocessor struct {
	maxChars int
	logger   zerolog.Logger
}

// NewDocumentPreprocessor creates a preprocessor; maxChars <= 0 uses the default bound
func NewDocumentPreprocessor(maxChars int, logger zerolog.Logger) *DocumentPreprocessor {
	if maxChars <= 0 {
		maxChars = DefaultMaxDocumentChars
	}
	return &DocumentPreprocessor{maxChars: maxChars, logger: logger}
}

// JoinPages cleans every page and joins them in order, dropping pages with no text
func (p *DocumentPreprocessor) JoinPages(pages []string) string {
	kept := make([]string, 0, len(pages))
	for _, page := range pages {
		if cleaned := p.Clean(page); cleaned != "" {
			kept = append(kept, cleaned)
		}
	}
	return p.truncate(strings.Join(kept, "\n\n"))
}

// Clean normalizes one block of document text.
// Removes control characters, page numbers, and redundant whitespace.
func (p *DocumentPreprocessor) Clean(text string) string {
	if text == "" {
		return ""
	}

	cleaned := strings.ReplaceAll(text, "\r\n", "\n")
	cleaned = controlCharPattern.ReplaceAllString(cleaned, "")
	cleaned = pageNumberPattern.ReplaceAllString(cleaned, "")
	cleaned = horizontalSpacePattern.ReplaceAllString(cleaned, " ")

	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	cleaned = strings.Join(lines, "\n")
	cleaned = blankLinesPattern.ReplaceAllString(cleaned, "\n\n")

	return strings.TrimSpace(cleaned)
}

// Prepare cleans a whole document passed as a single string
func (p *DocumentPreprocessor) Prepare(text string) string {
	return p.truncate(p.Clean(text))
}

func (p *DocumentPreprocessor) truncate(text string) string {
	if len(text) <= p.maxChars {
		return text
	}

	cut := text[:p.maxChars]
	// Try to cut at word boundary
	if lastSpace := strings.LastIndexAny(cut, " \n"); lastSpace > p.maxChars/2 {
		cut = cut[:lastSpace]
	}
	// Do not leave a partial UTF-8 sequence behind
	cut = strings.ToValidUTF8(cut, "")

	p.logger.Warn().
		Int("original_chars", len(text)).
		Int("kept_chars", len(cut)).
		Msg("document truncated before extraction")

	return cut
}

// normalizeText produces the memo key for a piece of text
func normalizeText(s string) string {
	return multiSpacePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}
