// Package categorizer assigns spending categories to transactions through an
// ordered cascade of matchers: learned rules, structural shapes, income
// tokens, catalog keywords and loose fallbacks. The first claim wins and
// unclaimed transactions get the Needs Review sentinel.
package categorizer

import (
	"github.com/shopspring/decimal"

	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/models"
)

// Categorizer runs the matcher cascade. It holds no mutable state of its own;
// results only change when the rule source does.
type Categorizer struct {
	matchers []Matcher
	logger   logging.Logger
}

// NewCategorizer creates a Categorizer with the standard cascade, consulting
// rules first. rules may be nil.
func NewCategorizer(rules RuleMatcher, logger logging.Logger) *Categorizer {
	return NewCategorizerWithMatchers(logger,
		NewLearnedMatcher(rules),
		NewStructuralMatcher(),
		NewIncomeMatcher(),
		NewKeywordMatcher(),
		NewFallbackMatcher(),
	)
}

// NewCategorizerWithMatchers creates a Categorizer with a custom cascade.
func NewCategorizerWithMatchers(logger logging.Logger, matchers ...Matcher) *Categorizer {
	return &Categorizer{
		matchers: matchers,
		logger:   logging.OrDefault(logger),
	}
}

// Matchers returns the cascade names in evaluation order.
func (c *Categorizer) Matchers() []string {
	names := make([]string, len(c.matchers))
	for i, m := range c.matchers {
		names[i] = m.Name()
	}
	return names
}

// Categorize returns the category for a transaction description and signed amount.
func (c *Categorizer) Categorize(description string, amount decimal.Decimal) models.Category {
	for _, m := range c.matchers {
		if name, ok := m.TryMatch(description, amount); ok {
			c.logger.Debug("Transaction categorized",
				logging.Field{Key: logging.FieldStrategy, Value: m.Name()},
				logging.Field{Key: logging.FieldDescription, Value: description},
				logging.Field{Key: logging.FieldCategory, Value: name})
			return CategoryFor(name)
		}
	}
	return NeedsReview()
}

// Explain evaluates the cascade like Categorize and reports every matcher
// consulted.
func (c *Categorizer) Explain(description string, amount decimal.Decimal) StrategyResults {
	var results StrategyResults
	for _, m := range c.matchers {
		name, ok := m.TryMatch(description, amount)
		r := StrategyResult{Strategy: m.Name(), Found: ok}
		if ok {
			r.Category = CategoryFor(name)
			results.Results = append(results.Results, r)
			results.Final = r.Category
			return results
		}
		results.Results = append(results.Results, r)
	}
	results.Final = NeedsReview()
	return results
}

// CategorizeAll categorizes every transaction, preserving order.
func (c *Categorizer) CategorizeAll(txs []models.Transaction) ([]models.CategorizedTransaction, Stats) {
	stats := NewStats()
	out := make([]models.CategorizedTransaction, len(txs))
	for i, tx := range txs {
		res := c.Explain(tx.Description, tx.Amount)
		stats.record(res.Winner())
		out[i] = models.CategorizedTransaction{Transaction: tx, Category: res.Final}
	}
	stats.LogSummary(c.logger)
	return out, *stats
}
