package categorizer

import (
	"sort"

	"fjacquet/spendscope/internal/logging"
)

// Stats tracks statistics for one CategorizeAll run.
type Stats struct {
	Total       int
	Categorized int
	NeedsReview int
	ByStrategy  map[string]int
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{ByStrategy: make(map[string]int)}
}

func (s *Stats) record(strategy string) {
	s.Total++
	if strategy == "" {
		s.NeedsReview++
		return
	}
	s.Categorized++
	if s.ByStrategy == nil {
		s.ByStrategy = make(map[string]int)
	}
	s.ByStrategy[strategy]++
}

// SuccessRate is the categorized share as a percentage.
func (s Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Categorized) / float64(s.Total) * 100
}

// LogSummary logs a summary of categorization statistics
func (s Stats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	names := make([]string, 0, len(s.ByStrategy))
	for n := range s.ByStrategy {
		names = append(names, n)
	}
	sort.Strings(names)

	fields := []logging.Field{
		{Key: "total_transactions", Value: s.Total},
		{Key: "categorized", Value: s.Categorized},
		{Key: "needs_review", Value: s.NeedsReview},
		{Key: "success_rate", Value: s.SuccessRate()},
	}
	for _, n := range names {
		fields = append(fields, logging.Field{Key: "by_" + n, Value: s.ByStrategy[n]})
	}
	logger.Debug("Categorization summary", fields...)
}
