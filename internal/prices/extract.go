package prices

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	priceTableSelector  = "table.oil-table"
	currentDateSelector = "div.current-date"
)

// Extract parses a rendered price page into a Snapshot.
//
// The table must contain exactly one body row per catalog entry. When a row
// carries a fuel-name label in its first cell, the label must name a catalog
// fuel and the row is placed at that fuel's catalog position; a table without
// labels is zipped against the catalog positionally. Any mismatch fails the
// whole extraction rather than producing a partial snapshot.
func Extract(doc *goquery.Document) (*Snapshot, error) {
	table := doc.Find(priceTableSelector).First()
	if table.Length() == 0 {
		return nil, ErrPriceTableMissing
	}

	trs := table.Find("tbody tr")
	if trs.Length() != len(FuelTypes) {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrRowMismatch, trs.Length(), len(FuelTypes))
	}

	rows := make([]PriceRow, len(FuelTypes))
	seen := make([]bool, len(FuelTypes))

	var rowErr error
	trs.EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			rowErr = fmt.Errorf("row %d: want 3 cells, got %d", i, cells.Length())
			return false
		}

		idx := i
		if label := strings.TrimSpace(cells.Eq(0).Text()); label != "" {
			idx = catalogIndex(label)
			if idx < 0 {
				rowErr = fmt.Errorf("%w: unknown fuel type %q in row %d", ErrRowMismatch, label, i)
				return false
			}
		}
		if seen[idx] {
			rowErr = fmt.Errorf("%w: duplicate row for %q", ErrRowMismatch, FuelTypes[idx])
			return false
		}

		today, err := parsePrice(cells.Eq(1).Text())
		if err != nil {
			rowErr = fmt.Errorf("row %d (%s) today price: %w", i, FuelTypes[idx], err)
			return false
		}
		tomorrow, err := parsePrice(cells.Eq(2).Text())
		if err != nil {
			rowErr = fmt.Errorf("row %d (%s) tomorrow price: %w", i, FuelTypes[idx], err)
			return false
		}

		seen[idx] = true
		rows[idx] = PriceRow{FuelType: FuelTypes[idx], Today: today, Tomorrow: tomorrow}
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	date, err := extractReportDate(doc)
	if err != nil {
		return nil, err
	}

	return &Snapshot{ReportDate: date, Rows: rows}, nil
}

// extractReportDate reconstructs the "<day> <month> <year>" fragment from the
// current-date element, which embeds it at the end of a longer sentence.
func extractReportDate(doc *goquery.Document) (string, error) {
	div := doc.Find(currentDateSelector).First()
	if div.Length() == 0 {
		return "", ErrDateMissing
	}
	tokens := strings.Fields(div.Text())
	if len(tokens) < 3 {
		return "", fmt.Errorf("%w: date text %q too short", ErrDateMissing, div.Text())
	}
	return strings.Join(tokens[len(tokens)-3:], " "), nil
}

func catalogIndex(label string) int {
	for i, name := range FuelTypes {
		if strings.EqualFold(label, name) {
			return i
		}
	}
	return -1
}

func parsePrice(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", strings.TrimSpace(text), err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price %q", strings.TrimSpace(text))
	}
	return v, nil
}
