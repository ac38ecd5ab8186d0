package models

import (
	"sort"

	"fjacquet/spendscope/internal/logging"
)

// Reasons a merchant group is not reported as recurring.
const (
	RejectIncomeNoise      = "income_noise"
	RejectUnusableKey      = "unusable_key"
	RejectSingleOccurrence = "single_occurrence"
	RejectShortSpan        = "short_span"
	RejectClustered        = "clustered"
	RejectAmountVariance   = "amount_variance"
	RejectErraticInterval  = "erratic_interval"
	RejectNoConfidence     = "no_confidence_tier"
	RejectBelowFloor       = "below_monthly_floor"
)

// DetectionDiagnostics tracks what happened during one recurrence detection run.
type DetectionDiagnostics struct {
	Transactions int            `json:"transactions" yaml:"transactions"` // Transactions received
	Groups       int            `json:"groups" yaml:"groups"`             // Merchant groups formed
	Detected     int            `json:"detected" yaml:"detected"`         // Groups reported as recurring
	Rejected     map[string]int `json:"rejected" yaml:"rejected"`         // Groups or transactions dropped, by reason
}

// NewDetectionDiagnostics creates an empty DetectionDiagnostics.
func NewDetectionDiagnostics() *DetectionDiagnostics {
	return &DetectionDiagnostics{Rejected: make(map[string]int)}
}

// Reject counts one rejection for reason.
func (d *DetectionDiagnostics) Reject(reason string) {
	if d.Rejected == nil {
		d.Rejected = make(map[string]int)
	}
	d.Rejected[reason]++
}

// RejectedTotal sums all rejection counts.
func (d DetectionDiagnostics) RejectedTotal() int {
	total := 0
	for _, n := range d.Rejected {
		total += n
	}
	return total
}

// LogSummary logs a one-line summary at debug level.
func (d DetectionDiagnostics) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	reasons := make([]string, 0, len(d.Rejected))
	for r := range d.Rejected {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)

	fields := []logging.Field{
		{Key: "transactions", Value: d.Transactions},
		{Key: "groups", Value: d.Groups},
		{Key: "detected", Value: d.Detected},
	}
	for _, r := range reasons {
		fields = append(fields, logging.Field{Key: "rejected_" + r, Value: d.Rejected[r]})
	}
	logger.Debug("Recurrence detection summary", fields...)
}
