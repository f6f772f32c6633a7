package usecase

import (
	"fmt"
	"strings"

	"github.com/anshumaan69/tenderflow/internal/domain"
)

// DetectionMode selects which text is scanned for service keywords
type DetectionMode string

const (
	DetectExtracted DetectionMode = "extracted" // model-extracted testing requirements
	DetectDocument  DetectionMode = "document"  // full document text
	DetectCombined  DetectionMode = "combined"  // either source
)

// ParseDetectionMode validates a configured mode; empty means extracted
func ParseDetectionMode(s string) (DetectionMode, error) {
	switch mode := DetectionMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return DetectExtracted, nil
	case DetectExtracted, DetectDocument, DetectCombined:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: unknown service detection mode %q", domain.ErrInvalidRequest, s)
	}
}

// ServiceDetector turns requested tests and inspections into priced service lines
type ServiceDetector struct {
	mode DetectionMode
}

// NewServiceDetector creates a detector for the given mode
func NewServiceDetector(mode DetectionMode) *ServiceDetector {
	if mode == "" {
		mode = DetectExtracted
	}
	return &ServiceDetector{mode: mode}
}

// Mode returns the configured detection mode
func (d *ServiceDetector) Mode() DetectionMode {
	return d.mode
}

// Detect returns one line per service whose keyword appears in any scanned text.
// Output follows catalog order, not detection order.
func (d *ServiceDetector) Detect(
	testingReqs []string,
	documentText string,
	services []domain.ServiceDefinition,
) []domain.QuoteLineItem {
	var haystacks []string
	if d.mode == DetectExtracted || d.mode == DetectCombined {
		for _, t := range testingReqs {
			haystacks = append(haystacks, strings.ToLower(t))
		}
	}
	if d.mode == DetectDocument || d.mode == DetectCombined {
		haystacks = append(haystacks, strings.ToLower(documentText))
	}

	items := []domain.QuoteLineItem{}
	for _, svc := range services {
		keyword, ok := firstKeywordHit(svc.Keywords, haystacks)
		if !ok {
			continue
		}
		item := domain.NewLineItem(svc.ID, svc.Name, domain.LineKindService, 1, svc.Price, domain.StatusMatch)
		item.MatchedName = svc.Name
		item.Confidence = domain.ServiceConfidence
		item.Notes = fmt.Sprintf("Requested via %q", keyword)
		items = append(items, item)
	}
	return items
}

func firstKeywordHit(keywords, haystacks []string) (string, bool) {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		for _, h := range haystacks {
			if strings.Contains(h, kw) {
				return kw, true
			}
		}
	}
	return "", false
}
