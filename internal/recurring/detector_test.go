package recurring

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(date time.Time, desc, amount string) models.Transaction {
	return models.NewTransaction(date, desc, decimal.RequireFromString(amount))
}

func monthly(desc, amount string, start time.Time, count int) []models.Transaction {
	out := make([]models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, tx(start.AddDate(0, i, 0), desc, amount))
	}
	return out
}

func newTestDetector() (*Detector, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	return NewDetector(logger), logger
}

func TestDetect_MonthlySubscription(t *testing.T) {
	d, _ := newTestDetector()
	txs := monthly("NETFLIX.COM", "-15.99", day(2024, 1, 15), 12)

	items, diag := d.Detect(txs)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "NETFLIX.COM", it.Merchant)
	assert.Equal(t, models.FrequencyMonthly, it.Frequency)
	assert.Equal(t, models.ConfidenceHigh, it.Confidence)
	assert.Equal(t, 12, it.Occurrences)
	assert.True(t, decimal.RequireFromString("15.99").Equal(it.MonthlyEquivalent))
	assert.True(t, decimal.RequireFromString("15.99").Equal(it.AverageAmount))
	assert.Equal(t, 335, it.DateSpanDays)
	assert.InDelta(t, 30.45, it.AvgIntervalDays, 0.01)
	assert.Zero(t, it.AmountVariancePct)
	assert.False(t, it.IsExcluded)
	assert.Equal(t, ItemID("NETFLIX.COM"), it.ID)

	require.Len(t, it.Transactions, 12)
	assert.Equal(t, day(2024, 12, 15), it.Transactions[0].Date)
	assert.Equal(t, day(2024, 1, 15), it.Transactions[11].Date)
	assert.Equal(t, day(2025, 1, 15), it.NextExpected())

	assert.Equal(t, 12, diag.Transactions)
	assert.Equal(t, 1, diag.Groups)
	assert.Equal(t, 1, diag.Detected)
	assert.Zero(t, diag.RejectedTotal())
}

func TestDetect_BurstIsNotRecurring(t *testing.T) {
	d, _ := newTestDetector()
	txs := []models.Transaction{
		tx(day(2024, 5, 1), "CORNER CAFE", "-12"),
		tx(day(2024, 5, 3), "CORNER CAFE", "-45"),
		tx(day(2024, 5, 5), "CORNER CAFE", "-9"),
	}

	items, diag := d.Detect(txs)
	assert.Empty(t, items)
	assert.Equal(t, 1, diag.Rejected[models.RejectShortSpan])
}

func TestDetect_GroupsNoisyDescriptions(t *testing.T) {
	d, _ := newTestDetector()
	txs := []models.Transaction{
		tx(day(2024, 1, 3), "SPOTIFY*P1A2B3 01/03", "-11.99"),
		tx(day(2024, 2, 3), "SPOTIFY*Q9Z8Y7 02/03", "-11.99"),
		tx(day(2024, 3, 3), "SPOTIFY*R5T6U7 03/03", "-11.99"),
		tx(day(2024, 4, 3), "SPOTIFY*K1L2M3 04/03", "-11.99"),
	}

	items, _ := d.Detect(txs)
	require.Len(t, items, 1)
	assert.Equal(t, "SPOTIFY", items[0].Merchant)
	assert.Equal(t, "Spotify", items[0].DisplayName)
	assert.Equal(t, models.ConfidenceMedium, items[0].Confidence)
}

func TestDetect_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		txs    []models.Transaction
		reason string
	}{
		{
			name:   "single occurrence",
			txs:    []models.Transaction{tx(day(2024, 1, 1), "ONE OFF SHOP", "-30")},
			reason: models.RejectSingleOccurrence,
		},
		{
			name: "unusable key",
			txs: []models.Transaction{
				tx(day(2024, 1, 1), "123456789", "-30"),
				tx(day(2024, 3, 1), "987654321", "-30"),
			},
			reason: models.RejectUnusableKey,
		},
		{
			name: "clustered",
			txs: []models.Transaction{
				tx(day(2024, 1, 1), "HARDWARE BARN", "-20"),
				tx(day(2024, 1, 3), "HARDWARE BARN", "-20"),
				tx(day(2024, 1, 5), "HARDWARE BARN", "-20"),
				tx(day(2024, 3, 1), "HARDWARE BARN", "-20"),
			},
			reason: models.RejectClustered,
		},
		{
			name: "amount variance",
			txs: []models.Transaction{
				tx(day(2024, 1, 1), "CITY GARAGE", "-10"),
				tx(day(2024, 2, 1), "CITY GARAGE", "-10"),
				tx(day(2024, 3, 1), "CITY GARAGE", "-40"),
			},
			reason: models.RejectAmountVariance,
		},
		{
			name: "erratic interval",
			txs: []models.Transaction{
				tx(day(2024, 1, 1), "PET SUPPLY", "-25"),
				tx(day(2024, 1, 11), "PET SUPPLY", "-25"),
				tx(day(2024, 4, 20), "PET SUPPLY", "-25"),
				tx(day(2024, 5, 1), "PET SUPPLY", "-25"),
			},
			reason: models.RejectErraticInterval,
		},
		{
			name: "no confidence tier",
			txs: []models.Transaction{
				tx(day(2024, 1, 1), "LAWN SERVICE", "-60"),
				tx(day(2024, 2, 20), "LAWN SERVICE", "-60"),
			},
			reason: models.RejectNoConfidence,
		},
		{
			name: "below monthly floor",
			txs: []models.Transaction{
				tx(day(2023, 3, 1), "DOMAIN RENEWAL", "-6"),
				tx(day(2024, 3, 1), "DOMAIN RENEWAL", "-6"),
			},
			reason: models.RejectBelowFloor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, logger := newTestDetector()
			items, diag := d.Detect(tt.txs)

			assert.Empty(t, items)
			assert.Positive(t, diag.Rejected[tt.reason], "rejections: %v", diag.Rejected)
			assert.True(t, logger.HasEntry("DEBUG", "Recurrence detection summary"))
		})
	}
}

func TestDetect_IncomeNoiseDropped(t *testing.T) {
	d, _ := newTestDetector()
	txs := append(
		monthly("ACME CORP PAYROLL", "2500", day(2024, 1, 31), 6),
		monthly("ACME CORP PAYROLL", "-15", day(2024, 1, 10), 6)...,
	)

	items, diag := d.Detect(txs)
	assert.Equal(t, 6, diag.Rejected[models.RejectIncomeNoise])
	require.Len(t, items, 1, "the outflow side is still analysed")
	assert.Equal(t, 6, items[0].Occurrences)
}

func TestDetect_WeeklyAndAnnual(t *testing.T) {
	d, _ := newTestDetector()

	var txs []models.Transaction
	for i := 0; i < 10; i++ {
		txs = append(txs, tx(day(2024, 1, 6).AddDate(0, 0, 7*i), "MEAL KIT BOX", "-10"))
	}
	txs = append(txs,
		tx(day(2023, 3, 1), "INSURANCE PREMIUM", "-120"),
		tx(day(2024, 3, 1), "INSURANCE PREMIUM", "-120"),
	)

	items, _ := d.Detect(txs)
	require.Len(t, items, 2)

	assert.Equal(t, "MEAL KIT BOX", items[0].Merchant)
	assert.Equal(t, models.FrequencyWeekly, items[0].Frequency)
	assert.Equal(t, models.ConfidenceLow, items[0].Confidence)
	assert.True(t, decimal.RequireFromString("43.3").Equal(items[0].MonthlyEquivalent))

	assert.Equal(t, "INSURANCE PREMIUM", items[1].Merchant)
	assert.Equal(t, models.FrequencyAnnual, items[1].Frequency)
	assert.True(t, decimal.RequireFromString("10").Equal(items[1].MonthlyEquivalent))
}

func TestDetect_SortedByMonthlyEquivalent(t *testing.T) {
	d, _ := newTestDetector()
	var txs []models.Transaction
	txs = append(txs, monthly("MUSIC APP", "-9.99", day(2024, 1, 2), 6)...)
	txs = append(txs, monthly("GYM CLUB", "-45", day(2024, 1, 5), 6)...)
	txs = append(txs, monthly("CLOUD DRIVE", "-2.99", day(2024, 1, 9), 6)...)
	txs = append(txs, monthly("BOOK CLUB", "-9.99", day(2024, 1, 20), 6)...)

	items, _ := d.Detect(txs)
	require.Len(t, items, 4)

	var merchants []string
	for _, it := range items {
		merchants = append(merchants, it.Merchant)
	}
	assert.Equal(t, []string{"GYM CLUB", "BOOK CLUB", "MUSIC APP", "CLOUD DRIVE"}, merchants)
}

func TestDetect_MediumConfidence(t *testing.T) {
	d, _ := newTestDetector()
	txs := []models.Transaction{
		tx(day(2024, 1, 1), "WATER CO", "-100"),
		tx(day(2024, 2, 1), "WATER CO", "-100"),
		tx(day(2024, 3, 1), "WATER CO", "-100"),
		tx(day(2024, 4, 1), "WATER CO", "-125"),
	}

	items, _ := d.Detect(txs)
	require.Len(t, items, 1)
	assert.Equal(t, models.ConfidenceMedium, items[0].Confidence)
	assert.InDelta(t, 17.65, items[0].AmountVariancePct, 0.01)
	assert.True(t, decimal.RequireFromString("106.25").Equal(items[0].AverageAmount))
}

func TestDetect_InputOrderDoesNotMatter(t *testing.T) {
	d, _ := newTestDetector()
	txs := monthly("NETFLIX.COM", "-15.99", day(2024, 1, 15), 12)
	reversed := make([]models.Transaction, len(txs))
	for i := range txs {
		reversed[len(txs)-1-i] = txs[i]
	}

	a, _ := d.Detect(txs)
	b, _ := d.Detect(reversed)
	assert.Equal(t, a, b)
}

func TestDetect_Invariants(t *testing.T) {
	d, _ := newTestDetector()
	rng := rand.New(rand.NewSource(42))
	merchants := []string{"ALPHA", "BRAVO", "CHARLIE", "DELTA", "ECHO", "FOXTROT"}

	for round := 0; round < 50; round++ {
		var txs []models.Transaction
		for i := 0; i < 40; i++ {
			date := day(2024, 1, 1).AddDate(0, 0, rng.Intn(365))
			amount := fmt.Sprintf("-%d.%02d", 1+rng.Intn(80), rng.Intn(100))
			txs = append(txs, tx(date, merchants[rng.Intn(len(merchants))], amount))
		}

		items, diag := d.Detect(txs)
		assert.Equal(t, len(items), diag.Detected)
		for _, it := range items {
			assert.GreaterOrEqual(t, it.DateSpanDays, MinSpanDays)
			assert.GreaterOrEqual(t, it.Occurrences, 2)
			assert.Len(t, it.Transactions, it.Occurrences)
			first := it.Transactions[len(it.Transactions)-1].Date
			last := it.Transactions[0].Date
			assert.Equal(t, int(last.Sub(first).Hours()/24), it.DateSpanDays)
			assert.False(t, it.MonthlyEquivalent.LessThan(decimal.NewFromInt(1)))
		}
	}
}

func TestDetect_EmptyInput(t *testing.T) {
	d, _ := newTestDetector()
	items, diag := d.Detect(nil)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Zero(t, diag.Groups)
}

func TestClassifyFrequency(t *testing.T) {
	tests := []struct {
		avg  float64
		n    int
		span int
		want models.Frequency
	}{
		{5, 10, 50, models.FrequencyWeekly},
		{10, 10, 90, models.FrequencyWeekly},
		{11, 10, 99, models.FrequencyIrregular},
		{12, 5, 48, models.FrequencyBiWeekly},
		{18, 5, 72, models.FrequencyBiWeekly},
		{25, 4, 75, models.FrequencyMonthly},
		{35, 4, 105, models.FrequencyMonthly},
		{45, 4, 135, models.FrequencyIrregular},
		{80, 3, 160, models.FrequencyQuarterly},
		{100, 3, 200, models.FrequencyQuarterly},
		{350, 2, 350, models.FrequencyAnnual},
		{400, 2, 400, models.FrequencyAnnual},
		{320, 2, 320, models.FrequencyAnnual},
		{160, 3, 320, models.FrequencyIrregular},
		{0, 1, 0, models.FrequencyOneTime},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("avg=%v n=%d", tt.avg, tt.n), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFrequency(tt.avg, tt.n, tt.span))
		})
	}
}

func TestItemID_Stable(t *testing.T) {
	assert.Equal(t, ItemID("NETFLIX.COM"), ItemID("NETFLIX.COM"))
	assert.NotEqual(t, ItemID("NETFLIX.COM"), ItemID("HULU"))
	assert.Len(t, ItemID("X"), 36)
}
