package domain

import "time"

// Status classifies a quote line item
type Status string

const (
	StatusMatch    Status = "match"
	StatusPartial  Status = "partial"
	StatusMismatch Status = "mismatch"
	StatusFailed   Status = "failed"
)

// LineKind tells product rows from service rows
type LineKind string

const (
	LineKindProduct LineKind = "product"
	LineKindService LineKind = "service"
	LineKindError   LineKind = "error"
)

const (
	UnknownIndustry   = "Unknown"
	FailedIndustry    = "Processing Failed"
	ErrorLineItemID   = "ERROR"
	UnmatchedIDFmt    = "REQ-%d"
	MismatchNote      = "Item not found in inventory. Sourcing required."
	ServiceConfidence = 100
)

// QuoteLineItem is one row of the quote.
// ID is the matched catalog or service id, or REQ-n for an unmatched requirement.
// Total is always Quantity * UnitPrice; use NewLineItem to build one.
type QuoteLineItem struct {
	ID             string            `json:"id"`
	ProductID      string            `json:"productId,omitempty"`
	Name           string            `json:"name"`
	MatchedName    string            `json:"matchedName,omitempty"`
	Kind           LineKind          `json:"kind"`
	Quantity       int               `json:"quantity"`
	UnitPrice      int64             `json:"unitPrice"`
	Total          int64             `json:"total"`
	Status         Status            `json:"status"`
	Confidence     int               `json:"confidence"`
	Notes          string            `json:"notes,omitempty"`
	Alternatives   []Alternative     `json:"alternatives,omitempty"`
	RequestedSpecs map[string]string `json:"requestedSpecs,omitempty"`
}

// NewLineItem creates a line item with the total derived from quantity and unit price
func NewLineItem(id, name string, kind LineKind, quantity int, unitPrice int64, status Status) QuoteLineItem {
	return QuoteLineItem{
		ID:        id,
		Name:      name,
		Kind:      kind,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     LineTotal(quantity, unitPrice),
		Status:    status,
	}
}

// LineTotal computes quantity * unitPrice in integer currency units
func LineTotal(quantity int, unitPrice int64) int64 {
	return int64(quantity) * unitPrice
}

// QuoteError describes why a pipeline run failed
type QuoteError struct {
	Stage            string `json:"stage"`
	RequirementIndex int    `json:"requirementIndex"`
	Kind             string `json:"kind"`
	Message          string `json:"message"`
}

// QuoteResult is the single output of one pipeline invocation
type QuoteResult struct {
	ID          string          `json:"id"`
	Industry    string          `json:"industry"`
	Items       []QuoteLineItem `json:"items"`
	Strategy    string          `json:"strategy,omitempty"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Error       *QuoteError     `json:"error,omitempty"`
}

// GrandTotal sums the totals of all line items
func (q *QuoteResult) GrandTotal() int64 {
	var sum int64
	for _, item := range q.Items {
		sum += item.Total
	}
	return sum
}

// Failed reports whether the result is a failure payload
func (q *QuoteResult) Failed() bool {
	return q.Error != nil
}
