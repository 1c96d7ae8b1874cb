package prices

import (
	"strconv"
	"time"
)

// FuelTypes is the fixed catalog of fuel products published by the source, in
// the order they appear in the price table. The same order drives both
// extraction and notification rendering.
var FuelTypes = []string{
	"Premium Diesel B7",
	"Diesel B7",
	"Diesel",
	"Diesel B20",
	"E85",
	"E20",
	"Gasohol 91",
	"Gasohol 95",
	"NGV",
}

// PriceRow holds today's and tomorrow's published price for one fuel type.
type PriceRow struct {
	FuelType string  `json:"fuel_type"`
	Today    float64 `json:"today"`
	Tomorrow float64 `json:"tomorrow"`
}

// Changed reports whether tomorrow's price differs from today's.
func (r PriceRow) Changed() bool {
	return r.Today != r.Tomorrow
}

// Snapshot is the full set of price rows observed in one fetch, aligned with
// the FuelTypes catalog, plus the date the source published them under.
type Snapshot struct {
	ReportDate string     `json:"report_date"`
	Rows       []PriceRow `json:"rows"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// HasChange reports whether the snapshot announces a forthcoming price change,
// i.e. at least one row where tomorrow's price differs from today's.
func (s *Snapshot) HasChange() bool {
	for _, r := range s.Rows {
		if r.Changed() {
			return true
		}
	}
	return false
}

// FormatPrice renders a price with the two-decimal precision the source uses.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// DiffText renders the signed difference indicator between today's and
// tomorrow's price: "▼0.50" for a drop, "▲0.50" for a rise, "" when equal.
func DiffText(today, tomorrow float64) string {
	change := tomorrow - today
	switch {
	case change < 0:
		return "▼" + FormatPrice(-change)
	case change > 0:
		return "▲" + FormatPrice(change)
	default:
		return ""
	}
}
