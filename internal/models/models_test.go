package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/spendscope/internal/logging"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFrequency_MonthlyEquivalent(t *testing.T) {
	tests := []struct {
		freq   Frequency
		amount string
		want   string
	}{
		{FrequencyWeekly, "10", "43.3"},
		{FrequencyBiWeekly, "100", "217"},
		{FrequencyMonthly, "15.99", "15.99"},
		{FrequencyQuarterly, "100", "33.33"},
		{FrequencyAnnual, "120", "10"},
		{FrequencyIrregular, "42.5", "42.5"},
		{FrequencyOneTime, "500", "0"},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			got := tt.freq.MonthlyEquivalent(dec(tt.amount))
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency(" Yearly ")
	require.NoError(t, err)
	assert.Equal(t, FrequencyAnnual, f)

	f, err = ParseFrequency("biweekly")
	require.NoError(t, err)
	assert.Equal(t, FrequencyBiWeekly, f)

	_, err = ParseFrequency("fortnightly-ish")
	assert.Error(t, err)

	for _, known := range Frequencies {
		assert.True(t, known.IsValid())
	}
	assert.False(t, Frequency("daily").IsValid())
}

func TestRecurringTransaction_SetFrequency(t *testing.T) {
	item := RecurringTransaction{
		Merchant:          "INSURANCE CO",
		Frequency:         FrequencyMonthly,
		AverageAmount:     dec("120"),
		MonthlyEquivalent: dec("120"),
		Occurrences:       4,
		Confidence:        ConfidenceMedium,
	}

	item.SetFrequency(FrequencyAnnual)

	assert.Equal(t, FrequencyAnnual, item.Frequency)
	assert.True(t, dec("10").Equal(item.MonthlyEquivalent))
	assert.True(t, dec("120").Equal(item.AverageAmount))
	assert.Equal(t, 4, item.Occurrences)
	assert.Equal(t, ConfidenceMedium, item.Confidence)

	item.SetExcluded(true)
	assert.True(t, item.IsExcluded)
	item.SetExcluded(false)
	assert.False(t, item.IsExcluded)
}

func TestRecurringTransaction_NextExpected(t *testing.T) {
	last := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	history := []Transaction{{Date: last}, {Date: last.AddDate(0, -1, 0)}}

	tests := []struct {
		name     string
		freq     Frequency
		avg      float64
		expected time.Time
	}{
		{"monthly", FrequencyMonthly, 30, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"quarterly", FrequencyQuarterly, 91, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"annual", FrequencyAnnual, 365, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"weekly", FrequencyWeekly, 7, time.Date(2024, 3, 22, 0, 0, 0, 0, time.UTC)},
		{"irregular uses average interval", FrequencyIrregular, 44.6, time.Date(2024, 4, 29, 0, 0, 0, 0, time.UTC)},
		{"one-time has none", FrequencyOneTime, 0, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := RecurringTransaction{Frequency: tt.freq, AvgIntervalDays: tt.avg, Transactions: history}
			assert.Equal(t, tt.expected, item.NextExpected())
		})
	}

	assert.True(t, RecurringTransaction{Frequency: FrequencyMonthly}.NextExpected().IsZero())
}

func TestDetectionDiagnostics(t *testing.T) {
	var d DetectionDiagnostics
	d.Transactions = 10
	d.Reject(RejectShortSpan)
	d.Reject(RejectShortSpan)
	d.Reject(RejectClustered)

	assert.Equal(t, 3, d.RejectedTotal())

	logger := logging.NewMockLogger()
	d.LogSummary(logger)

	entries := logger.GetEntriesByLevel("DEBUG")
	require.Len(t, entries, 1)
	v, ok := entries[0].FieldValue("rejected_" + RejectShortSpan)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	d.LogSummary(nil)
}

func TestTransactionDirection(t *testing.T) {
	out := NewTransaction(time.Now(), "x", dec("-3.50"))
	in := NewTransaction(time.Now(), "y", dec("1200"))

	assert.True(t, out.IsOutflow())
	assert.False(t, out.IsInflow())
	assert.True(t, dec("3.5").Equal(out.AbsAmount()))
	assert.True(t, in.IsInflow())

	ct := CategorizedTransaction{Transaction: out, Category: Category{Name: CategoryNeedsReview}}
	assert.False(t, ct.IsCategorized())
	ct.Category.Name = CategoryHousing
	assert.True(t, ct.IsCategorized())
}

func TestDateRange(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "", DateRange{}.String())
	assert.Equal(t, "2024-01-01_2024-03-31", DateRange{Start: jan, End: mar}.String())

	merged := DateRange{Start: feb, End: feb}.Merge(DateRange{Start: jan, End: mar})
	assert.Equal(t, DateRange{Start: jan, End: mar}, merged)
	assert.Equal(t, DateRange{Start: feb, End: feb}, DateRange{}.Merge(DateRange{Start: feb, End: feb}))
}
