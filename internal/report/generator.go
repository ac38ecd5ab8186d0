// Package report renders analysis results as text, JSON or YAML.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"fjacquet/spendscope/internal/currencyutils"
	"fjacquet/spendscope/internal/dateutils"
	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/models"
	"fjacquet/spendscope/internal/validation"
)

// ReportGenerator renders analyses in the supported output formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{logger: logging.OrDefault(logger)}
}

// GenerateReport renders a full analysis in format (text, json or yaml).
func (g *ReportGenerator) GenerateReport(a *models.Analysis, format string) ([]byte, error) {
	if strings.EqualFold(format, validation.FormatText) {
		var buf bytes.Buffer
		if err := WriteAnalysis(&buf, a); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return g.Marshal(a, format)
}

// Marshal encodes v as JSON or YAML.
func (g *ReportGenerator) Marshal(v interface{}, format string) ([]byte, error) {
	if err := validation.IsValidOutputFormat(format); err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case validation.FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return append(out, '\n'), nil
	case validation.FormatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("format %q has no structured encoding", format)
}

// WriteAnalysis writes the human readable report.
func WriteAnalysis(w io.Writer, a *models.Analysis) error {
	if period := formatPeriod(a.Period); period != "" {
		if _, err := fmt.Fprintf(w, "Period: %s\n", period); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Transactions: %d\n\n", len(a.Transactions)); err != nil {
		return err
	}
	if err := WriteCategories(w, a.Categories); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return WriteRecurring(w, a.Recurring, a.Summary)
}

// WriteCategories writes the spending-by-category table.
func WriteCategories(w io.Writer, categories []models.CategoryBreakdown) error {
	if _, err := fmt.Fprintln(w, "Spending by category"); err != nil {
		return err
	}
	if len(categories) == 0 {
		_, err := fmt.Fprintln(w, "  no spending")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range categories {
		fmt.Fprintf(tw, "  %s\t%s\t%s%%\n", c.Category, currencyutils.FormatAmount(c.Total), currencyutils.FormatAmount(c.Percentage))
	}
	return tw.Flush()
}

// WriteRecurring writes the recurring items table followed by the monthly
// totals per frequency.
func WriteRecurring(w io.Writer, items []models.RecurringTransaction, summary models.RecurringSummary) error {
	if _, err := fmt.Fprintln(w, "Recurring charges"); err != nil {
		return err
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "  none detected")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  MERCHANT\tFREQUENCY\tAVERAGE\tMONTHLY\tCONFIDENCE\tSEEN\tNEXT")
	for _, it := range items {
		name := it.DisplayName
		if name == "" {
			name = it.Merchant
		}
		if it.IsExcluded {
			name += " (excluded)"
		}
		next := dateutils.ToISODate(it.NextExpected())
		if next == "" {
			next = "-"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			name, it.Frequency, currencyutils.FormatAmount(it.AverageAmount), currencyutils.FormatAmount(it.MonthlyEquivalent),
			it.Confidence, it.Occurrences, next)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, b := range summary.Buckets {
		fmt.Fprintf(tw, "  %s\t%d\t%s/month\n", b.Frequency, b.Count, currencyutils.FormatAmount(b.Monthly))
	}
	fmt.Fprintf(tw, "  total\t%d\t%s/month\n", summary.Count, currencyutils.FormatAmount(summary.TotalMonthly))
	return tw.Flush()
}

// WriteTransactions writes one line per categorized transaction.
func WriteTransactions(w io.Writer, txs []models.CategorizedTransaction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			dateutils.ToISODate(tx.Date), tx.Description, currencyutils.FormatAmount(tx.Amount), tx.Category.Name)
	}
	return tw.Flush()
}

func formatPeriod(r models.DateRange) string {
	if r.Start.IsZero() || r.End.IsZero() {
		return ""
	}
	return dateutils.ToISODate(r.Start) + " to " + dateutils.ToISODate(r.End)
}
