package usecase

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anshumaan69/tenderflow/internal/domain"
)

// AssembleQuote concatenates product lines in requirement order with service lines in catalog order
func AssembleQuote(products, services []domain.QuoteLineItem, company string) *domain.QuoteResult {
	items := make([]domain.QuoteLineItem, 0, len(products)+len(services))
	items = append(items, products...)
	items = append(items, services...)

	if strings.TrimSpace(company) == "" {
		company = domain.UnknownIndustry
	}

	return &domain.QuoteResult{
		Industry: company,
		Items:    items,
	}
}

var csvHeader = []string{
	"Item Name", "Matched Product", "Quantity", "Unit Price", "Total", "Status", "Confidence", "Notes",
}

// WriteQuoteCSV exports the quote with a trailing grand total row
func WriteQuoteCSV(w io.Writer, q *domain.QuoteResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, item := range q.Items {
		record := []string{
			item.Name,
			item.MatchedName,
			strconv.Itoa(item.Quantity),
			strconv.FormatInt(item.UnitPrice, 10),
			strconv.FormatInt(item.Total, 10),
			string(item.Status),
			strconv.Itoa(item.Confidence) + "%",
			item.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", item.ID, err)
		}
	}

	if err := cw.Write([]string{"Grand Total", "", "", "", strconv.FormatInt(q.GrandTotal(), 10), "", "", ""}); err != nil {
		return fmt.Errorf("failed to write csv total: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
