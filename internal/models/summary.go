package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryBreakdown is one slice of the spending-by-category view.
// Total is an absolute amount, Percentage is 0..100 with two decimals.
type CategoryBreakdown struct {
	Category   string          `json:"category" yaml:"category"`
	Color      string          `json:"color" yaml:"color"`
	Total      decimal.Decimal `json:"total" yaml:"total"`
	Percentage decimal.Decimal `json:"percentage" yaml:"percentage"`
}

// FrequencyBucket totals active recurring items sharing a frequency.
type FrequencyBucket struct {
	Frequency Frequency       `json:"frequency" yaml:"frequency"`
	Count     int             `json:"count" yaml:"count"`
	Monthly   decimal.Decimal `json:"monthly" yaml:"monthly"`
}

// RecurringSummary aggregates the active recurring items.
type RecurringSummary struct {
	Count        int               `json:"count" yaml:"count"`
	TotalMonthly decimal.Decimal   `json:"totalMonthly" yaml:"totalMonthly"`
	Buckets      []FrequencyBucket `json:"buckets" yaml:"buckets"`
}

// Analysis bundles everything produced from one set of transactions.
type Analysis struct {
	Period       DateRange                `json:"period" yaml:"period"`
	Transactions []CategorizedTransaction `json:"transactions" yaml:"transactions"`
	Recurring    []RecurringTransaction   `json:"recurring" yaml:"recurring"`
	Categories   []CategoryBreakdown      `json:"categories" yaml:"categories"`
	Summary      RecurringSummary         `json:"summary" yaml:"summary"`
}

// DateRange is an inclusive span of dates.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// String returns the range as "YYYY-MM-DD_YYYY-MM-DD", or "" when unset.
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return dr.Start.Format("2006-01-02") + "_" + dr.End.Format("2006-01-02")
}

// Merge combines this date range with another, returning the overall range.
func (dr DateRange) Merge(other DateRange) DateRange {
	start, end := dr.Start, dr.End
	if start.IsZero() || (!other.Start.IsZero() && other.Start.Before(start)) {
		start = other.Start
	}
	if end.IsZero() || (!other.End.IsZero() && other.End.After(end)) {
		end = other.End
	}
	return DateRange{Start: start, End: end}
}
