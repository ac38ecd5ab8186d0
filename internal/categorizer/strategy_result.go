package categorizer

import (
	"fmt"
	"strings"

	"fjacquet/spendscope/internal/models"
)

// StrategyResult records what one matcher said about a transaction.
type StrategyResult struct {
	Strategy string
	Category models.Category
	Found    bool
}

// StrategyResults is the trace of one cascade evaluation, in order. It stops
// at the first matcher that claimed the transaction.
type StrategyResults struct {
	Results []StrategyResult
	Final   models.Category
}

// Winner returns the name of the matcher that decided the category, or ""
// when the sentinel was used.
func (sr StrategyResults) Winner() string {
	for _, r := range sr.Results {
		if r.Found {
			return r.Strategy
		}
	}
	return ""
}

// Summary returns a human-readable summary of all strategy attempts
func (sr StrategyResults) Summary() string {
	parts := make([]string, 0, len(sr.Results)+1)
	for _, r := range sr.Results {
		if r.Found {
			parts = append(parts, fmt.Sprintf("%s:%s", r.Strategy, r.Category.Name))
		} else {
			parts = append(parts, fmt.Sprintf("%s:no_match", r.Strategy))
		}
	}
	if sr.Winner() == "" {
		parts = append(parts, "default:"+sr.Final.Name)
	}
	return strings.Join(parts, ", ")
}
