package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// RecurringTransaction is a merchant group the detector judged to be a
// regular charge.
type RecurringTransaction struct {
	ID                string          `json:"id" yaml:"id"`
	Merchant          string          `json:"merchant" yaml:"merchant"`
	DisplayName       string          `json:"displayName" yaml:"displayName"`
	Frequency         Frequency       `json:"frequency" yaml:"frequency"`
	AverageAmount     decimal.Decimal `json:"averageAmount" yaml:"averageAmount"`
	Occurrences       int             `json:"occurrences" yaml:"occurrences"`
	MonthlyEquivalent decimal.Decimal `json:"monthlyEquivalent" yaml:"monthlyEquivalent"`
	// Transactions are ordered most recent first.
	Transactions []Transaction `json:"transactions" yaml:"transactions"`
	Confidence   Confidence    `json:"confidence" yaml:"confidence"`
	IsExcluded   bool          `json:"isExcluded" yaml:"isExcluded"`

	DateSpanDays       int     `json:"dateSpanDays" yaml:"dateSpanDays"`
	AvgIntervalDays    float64 `json:"avgIntervalDays" yaml:"avgIntervalDays"`
	IntervalStdDevDays float64 `json:"intervalStdDevDays" yaml:"intervalStdDevDays"`
	AmountVariancePct  float64 `json:"amountVariancePct" yaml:"amountVariancePct"`
}

// SetFrequency changes the frequency and recomputes the monthly equivalent.
// Every other field is left untouched.
func (r *RecurringTransaction) SetFrequency(f Frequency) {
	r.Frequency = f
	r.MonthlyEquivalent = f.MonthlyEquivalent(r.AverageAmount)
}

// SetExcluded marks the item as excluded from (or included in) totals.
func (r *RecurringTransaction) SetExcluded(excluded bool) {
	r.IsExcluded = excluded
}

// LastDate returns the date of the most recent occurrence.
func (r RecurringTransaction) LastDate() time.Time {
	if len(r.Transactions) == 0 {
		return time.Time{}
	}
	return r.Transactions[0].Date
}

// NextExpected estimates the date of the next charge. Returns the zero time
// for one-time items or when there is no history.
func (r RecurringTransaction) NextExpected() time.Time {
	last := r.LastDate()
	if last.IsZero() {
		return time.Time{}
	}
	switch r.Frequency {
	case FrequencyMonthly:
		return last.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return last.AddDate(0, 3, 0)
	case FrequencyAnnual:
		return last.AddDate(1, 0, 0)
	case FrequencyWeekly, FrequencyBiWeekly:
		return last.AddDate(0, 0, r.Frequency.NominalDays())
	case FrequencyIrregular:
		days := int(math.Round(r.AvgIntervalDays))
		if days <= 0 {
			return time.Time{}
		}
		return last.AddDate(0, 0, days)
	}
	return time.Time{}
}
