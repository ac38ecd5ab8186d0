package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Frequency is the cadence of a recurring transaction.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiWeekly  Frequency = "bi-weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnual    Frequency = "annual"
	FrequencyIrregular Frequency = "irregular"
	FrequencyOneTime   Frequency = "one-time"
)

// Frequencies lists every frequency in display order.
var Frequencies = []Frequency{
	FrequencyWeekly,
	FrequencyBiWeekly,
	FrequencyMonthly,
	FrequencyQuarterly,
	FrequencyAnnual,
	FrequencyIrregular,
	FrequencyOneTime,
}

var (
	weeklyFactor   = decimal.RequireFromString("4.33")
	biWeeklyFactor = decimal.RequireFromString("2.17")
	three          = decimal.NewFromInt(3)
	twelve         = decimal.NewFromInt(12)
)

// ParseFrequency parses a frequency name. "biweekly" and "yearly" are accepted as aliases.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly":
		return FrequencyWeekly, nil
	case "bi-weekly", "biweekly":
		return FrequencyBiWeekly, nil
	case "monthly":
		return FrequencyMonthly, nil
	case "quarterly":
		return FrequencyQuarterly, nil
	case "annual", "yearly":
		return FrequencyAnnual, nil
	case "irregular":
		return FrequencyIrregular, nil
	case "one-time", "onetime":
		return FrequencyOneTime, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// IsValid reports whether f is one of the known frequencies.
func (f Frequency) IsValid() bool {
	for _, known := range Frequencies {
		if f == known {
			return true
		}
	}
	return false
}

// MonthlyEquivalent converts a per-occurrence amount to its monthly cost,
// rounded to two decimals. One-time charges have no monthly cost.
func (f Frequency) MonthlyEquivalent(amount decimal.Decimal) decimal.Decimal {
	var monthly decimal.Decimal
	switch f {
	case FrequencyWeekly:
		monthly = amount.Mul(weeklyFactor)
	case FrequencyBiWeekly:
		monthly = amount.Mul(biWeeklyFactor)
	case FrequencyQuarterly:
		monthly = amount.Div(three)
	case FrequencyAnnual:
		monthly = amount.Div(twelve)
	case FrequencyOneTime:
		return decimal.Zero
	default:
		monthly = amount
	}
	return monthly.Round(2)
}

// NominalDays returns the typical number of days between two occurrences,
// or 0 when the frequency has no fixed period.
func (f Frequency) NominalDays() int {
	switch f {
	case FrequencyWeekly:
		return 7
	case FrequencyBiWeekly:
		return 14
	case FrequencyMonthly:
		return 30
	case FrequencyQuarterly:
		return 91
	case FrequencyAnnual:
		return 365
	}
	return 0
}

// Confidence grades how sure the detector is that a group really recurs.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)
