// Package recurring finds charges that repeat on a regular schedule.
//
// Transactions are grouped by normalized merchant key. Each group is then
// judged on its time span, clustering, amount consistency and interval
// regularity before a confidence tier and a frequency are assigned.
package recurring

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fjacquet/spendscope/internal/dateutils"
	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/merchant"
	"fjacquet/spendscope/internal/models"
)

// Detection thresholds.
const (
	MinOccurrences       = 2
	MinSpanDays          = 45
	MinAbsoluteSpanDays  = 14
	ClusterWindowDays    = 7
	MaxAmountVariancePct = 50.0
	MaxIntervalCV        = 0.7
	MinMonthlyEquivalent = 1
	daysPerMonth         = 30.0
)

var incomeNoise = regexp.MustCompile(`\b(PAYROLL|SALARY|PAYCHECK|DIRECT DEP|DIR DEP|DEPOSIT|TRANSFER FROM|TRANSFER IN|ZELLE FROM)`)

// Detector finds recurring charges in a transaction set. It is stateless and
// safe to reuse.
type Detector struct {
	logger logging.Logger
}

// NewDetector creates a Detector.
func NewDetector(logger logging.Logger) *Detector {
	return &Detector{logger: logging.OrDefault(logger)}
}

// groupStats are the per-group measurements used to judge a candidate.
type groupStats struct {
	n              int
	spanDays       int
	avgInterval    float64
	stdDevInterval float64
	intervalCV     float64
	clustered      int
	mean           decimal.Decimal
	variancePct    float64
}

// Detect returns the recurring charges found in txs, sorted by monthly
// equivalent descending, together with a record of why other groups were
// dropped.
func (d *Detector) Detect(txs []models.Transaction) ([]models.RecurringTransaction, *models.DetectionDiagnostics) {
	diag := models.NewDetectionDiagnostics()
	diag.Transactions = len(txs)

	var keys []string
	groups := make(map[string][]models.Transaction)
	for _, tx := range txs {
		if tx.IsInflow() && incomeNoise.MatchString(strings.ToUpper(tx.Description)) {
			diag.Reject(models.RejectIncomeNoise)
			continue
		}
		key := merchant.Normalize(tx.Description)
		if !merchant.IsUsableKey(key) {
			diag.Reject(models.RejectUnusableKey)
			continue
		}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], tx)
	}
	diag.Groups = len(keys)

	items := make([]models.RecurringTransaction, 0)
	for _, key := range keys {
		item, reason := d.evaluate(key, groups[key])
		if reason != "" {
			diag.Reject(reason)
			d.logger.Debug("Merchant group is not recurring",
				logging.Field{Key: logging.FieldMerchant, Value: key},
				logging.Field{Key: logging.FieldReason, Value: reason},
				logging.Field{Key: logging.FieldCount, Value: len(groups[key])})
			continue
		}
		items = append(items, item)
	}
	diag.Detected = len(items)

	sort.SliceStable(items, func(i, j int) bool {
		if c := items[i].MonthlyEquivalent.Cmp(items[j].MonthlyEquivalent); c != 0 {
			return c > 0
		}
		return items[i].Merchant < items[j].Merchant
	})

	diag.LogSummary(d.logger)
	return items, diag
}

// evaluate judges one merchant group. A non-empty reason means rejection.
func (d *Detector) evaluate(key string, members []models.Transaction) (models.RecurringTransaction, string) {
	if len(members) < MinOccurrences {
		return models.RecurringTransaction{}, models.RejectSingleOccurrence
	}

	sorted := make([]models.Transaction, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	st := measure(sorted)
	if !meetsMinimums(st) {
		return models.RecurringTransaction{}, models.RejectShortSpan
	}
	if st.clustered*2 > st.n {
		return models.RecurringTransaction{}, models.RejectClustered
	}
	if st.variancePct > MaxAmountVariancePct {
		return models.RecurringTransaction{}, models.RejectAmountVariance
	}
	if st.avgInterval > 0 && st.intervalCV > MaxIntervalCV {
		return models.RecurringTransaction{}, models.RejectErraticInterval
	}

	confidence, ok := assignConfidence(st)
	if !ok {
		return models.RecurringTransaction{}, models.RejectNoConfidence
	}

	freq := ClassifyFrequency(st.avgInterval, st.n, st.spanDays)
	avg := st.mean.Round(2)
	monthly := freq.MonthlyEquivalent(avg)
	if freq != models.FrequencyOneTime && monthly.LessThan(decimal.NewFromInt(MinMonthlyEquivalent)) {
		return models.RecurringTransaction{}, models.RejectBelowFloor
	}

	newestFirst := make([]models.Transaction, len(sorted))
	for i, tx := range sorted {
		newestFirst[len(sorted)-1-i] = tx
	}

	return models.RecurringTransaction{
		ID:                 ItemID(key),
		Merchant:           key,
		DisplayName:        merchant.DisplayName(key),
		Frequency:          freq,
		AverageAmount:      avg,
		Occurrences:        st.n,
		MonthlyEquivalent:  monthly,
		Transactions:       newestFirst,
		Confidence:         confidence,
		DateSpanDays:       st.spanDays,
		AvgIntervalDays:    round2(st.avgInterval),
		IntervalStdDevDays: round2(st.stdDevInterval),
		AmountVariancePct:  round2(st.variancePct),
	}, ""
}

// measure computes group statistics over members sorted by date ascending.
func measure(sorted []models.Transaction) groupStats {
	n := len(sorted)
	st := groupStats{n: n}
	st.spanDays = dateutils.DaysBetween(sorted[0].Date, sorted[n-1].Date)

	intervals := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		intervals = append(intervals, float64(dateutils.DaysBetween(sorted[i-1].Date, sorted[i].Date)))
	}
	st.avgInterval, st.stdDevInterval = meanStdDev(intervals)
	if st.avgInterval > 0 {
		st.intervalCV = st.stdDevInterval / st.avgInterval
	}

	// Sorted order means the nearest other transaction is always an
	// adjacent one.
	for i := range sorted {
		near := false
		if i > 0 && dateutils.DaysBetween(sorted[i-1].Date, sorted[i].Date) < ClusterWindowDays {
			near = true
		}
		if i < n-1 && dateutils.DaysBetween(sorted[i].Date, sorted[i+1].Date) < ClusterWindowDays {
			near = true
		}
		if near {
			st.clustered++
		}
	}

	sum := decimal.Zero
	for _, tx := range sorted {
		sum = sum.Add(tx.AbsAmount())
	}
	st.mean = sum.Div(decimal.NewFromInt(int64(n)))

	if st.mean.IsPositive() {
		maxDev := decimal.Zero
		for _, tx := range sorted {
			if dev := tx.AbsAmount().Sub(st.mean).Abs(); dev.GreaterThan(maxDev) {
				maxDev = dev
			}
		}
		st.variancePct = maxDev.Div(st.mean).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return st
}

// meetsMinimums holds regardless of the order the other checks run in.
func meetsMinimums(st groupStats) bool {
	return st.n >= MinOccurrences && st.spanDays >= MinAbsoluteSpanDays && st.spanDays >= MinSpanDays
}

func assignConfidence(st groupStats) (models.Confidence, bool) {
	if !meetsMinimums(st) {
		return "", false
	}
	months := float64(st.spanDays) / daysPerMonth
	switch {
	case st.n >= 6 && months >= 6 && st.variancePct < 15 && st.intervalCV < 0.30:
		return models.ConfidenceHigh, true
	case st.n >= 3 && months >= 3 && st.variancePct < 30:
		return models.ConfidenceMedium, true
	case st.n >= 2 && months >= 2:
		return models.ConfidenceLow, true
	}
	return "", false
}

// ClassifyFrequency maps an average interval to a frequency. Ranges are
// inclusive. Sparse pairs spanning most of a year count as annual.
func ClassifyFrequency(avgIntervalDays float64, occurrences, spanDays int) models.Frequency {
	switch {
	case occurrences < 2:
		return models.FrequencyOneTime
	case avgIntervalDays >= 5 && avgIntervalDays <= 10:
		return models.FrequencyWeekly
	case avgIntervalDays >= 12 && avgIntervalDays <= 18:
		return models.FrequencyBiWeekly
	case avgIntervalDays >= 25 && avgIntervalDays <= 35:
		return models.FrequencyMonthly
	case avgIntervalDays >= 80 && avgIntervalDays <= 100:
		return models.FrequencyQuarterly
	case avgIntervalDays >= 350 && avgIntervalDays <= 400:
		return models.FrequencyAnnual
	case occurrences <= 2 && spanDays >= 300:
		return models.FrequencyAnnual
	}
	return models.FrequencyIrregular
}

// ItemID derives a stable id from a merchant key.
func ItemID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("spendscope:recurring:"+key)).String()
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
