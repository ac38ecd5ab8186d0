// Package summary folds categorized transactions and recurring items into
// display totals.
package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"fjacquet/spendscope/internal/currencyutils"
	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/models"
)

// DefaultMaxCategories is how many categories are shown before the rest
// collapse into Other.
const DefaultMaxCategories = 8

// nonSpending categories never count toward spending totals.
var nonSpending = map[string]bool{
	models.CategoryIncome:    true,
	models.CategoryTransfers: true,
}

// Aggregator computes category breakdowns and recurring totals.
type Aggregator struct {
	maxCategories int
	logger        logging.Logger
}

// NewAggregator creates an Aggregator. maxCategories <= 0 uses the default.
func NewAggregator(maxCategories int, logger logging.Logger) *Aggregator {
	if maxCategories <= 0 {
		maxCategories = DefaultMaxCategories
	}
	return &Aggregator{maxCategories: maxCategories, logger: logging.OrDefault(logger)}
}

// AggregateCategories returns spending per category, largest first. Only
// outflows count, and Income and Transfers & Payments are left out. Categories
// beyond the top maxCategories are summed into a single Other entry.
func (a *Aggregator) AggregateCategories(txs []models.CategorizedTransaction) []models.CategoryBreakdown {
	totals := make(map[string]decimal.Decimal)
	colors := make(map[string]string)
	pool := decimal.Zero

	for _, tx := range txs {
		if !tx.Amount.IsNegative() || nonSpending[tx.Category.Name] {
			continue
		}
		name := tx.Category.Name
		if name == "" {
			name = models.CategoryNeedsReview
		}
		abs := tx.Amount.Abs()
		totals[name] = totals[name].Add(abs)
		if _, ok := colors[name]; !ok {
			colors[name] = tx.Category.Color
		}
		pool = pool.Add(abs)
	}

	out := make([]models.CategoryBreakdown, 0, len(totals))
	if pool.IsZero() {
		return out
	}

	for name, total := range totals {
		out = append(out, models.CategoryBreakdown{
			Category:   name,
			Color:      colors[name],
			Total:      total,
			Percentage: currencyutils.Percentage(total, pool),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})

	if len(out) > a.maxCategories {
		other := models.CategoryBreakdown{Category: models.CategoryOther, Color: models.ColorOther}
		for _, b := range out[a.maxCategories:] {
			other.Total = other.Total.Add(b.Total)
			other.Percentage = other.Percentage.Add(b.Percentage)
		}
		out = append(out[:a.maxCategories], other)
	}

	a.logger.Debug("Aggregated categories",
		logging.Field{Key: logging.FieldCount, Value: len(out)},
		logging.Field{Key: "spending_total", Value: pool.StringFixed(2)})
	return out
}

// AggregateRecurring totals the monthly cost of active recurring items by
// frequency. Excluded and one-time items are ignored. Buckets appear in
// models.Frequencies order and only when non-empty.
func (a *Aggregator) AggregateRecurring(items []models.RecurringTransaction) models.RecurringSummary {
	buckets := make(map[models.Frequency]*models.FrequencyBucket)
	summary := models.RecurringSummary{TotalMonthly: decimal.Zero, Buckets: []models.FrequencyBucket{}}

	for _, it := range items {
		if it.IsExcluded || it.Frequency == models.FrequencyOneTime {
			continue
		}
		b, ok := buckets[it.Frequency]
		if !ok {
			b = &models.FrequencyBucket{Frequency: it.Frequency, Monthly: decimal.Zero}
			buckets[it.Frequency] = b
		}
		b.Count++
		b.Monthly = b.Monthly.Add(it.MonthlyEquivalent)
	}

	for _, f := range models.Frequencies {
		b, ok := buckets[f]
		if !ok {
			continue
		}
		summary.Buckets = append(summary.Buckets, *b)
		summary.Count += b.Count
		summary.TotalMonthly = summary.TotalMonthly.Add(b.Monthly)
	}

	a.logger.Debug("Aggregated recurring items",
		logging.Field{Key: logging.FieldCount, Value: summary.Count},
		logging.Field{Key: "total_monthly", Value: summary.TotalMonthly.StringFixed(2)})
	return summary
}
