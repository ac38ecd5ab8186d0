// Package recurring handles the recurring charge detection command
package recurring

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	cmdcommon "fjacquet/spendscope/cmd/common"
	"fjacquet/spendscope/cmd/root"
	"fjacquet/spendscope/internal/container"
	"fjacquet/spendscope/internal/models"
	"fjacquet/spendscope/internal/report"
)

// Options configures one recurring run.
type Options struct {
	Inputs      []string
	Frequencies []string
	Excluded    []string
	Diagnostics bool
	Format      string
}

var flags Options

// Cmd represents the recurring command
var Cmd = &cobra.Command{
	Use:   "recurring",
	Short: "Detect subscriptions and other recurring charges",
	Long: `Detect recurring charges in the input files and estimate their monthly cost.

Detected frequencies can be corrected and items excluded from the totals:
  spendscope recurring -i 2024.csv --frequency "ADOBE=annual" --exclude "CITY PARKING"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := flags
		opts.Inputs = root.SharedFlags.Inputs
		opts.Format = root.OutputFormat()
		return Run(root.AppContainer, cmd.OutOrStdout(), opts)
	},
}

func init() {
	Cmd.Flags().StringArrayVar(&flags.Frequencies, "frequency", nil, "Override a frequency, as MERCHANT=frequency (repeatable)")
	Cmd.Flags().StringArrayVar(&flags.Excluded, "exclude", nil, "Exclude a merchant from the totals (repeatable)")
	Cmd.Flags().BoolVar(&flags.Diagnostics, "diagnostics", false, "Show why merchant groups were rejected")
}

// Result is the structured output of the command.
type Result struct {
	Items       []models.RecurringTransaction `json:"items" yaml:"items"`
	Summary     models.RecurringSummary       `json:"summary" yaml:"summary"`
	Diagnostics *models.DetectionDiagnostics  `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Run executes the recurring command.
func Run(c *container.Container, w io.Writer, opts Options) error {
	overrides, err := cmdcommon.ParseOverrides(opts.Frequencies, opts.Excluded)
	if err != nil {
		return err
	}
	txs, err := cmdcommon.LoadInputs(c, opts.Inputs)
	if err != nil {
		return err
	}

	items, diag := c.GetDetector().Detect(txs)
	overrides.Apply(items, c.GetLogger())

	res := Result{Items: items, Summary: c.GetAggregator().AggregateRecurring(items)}
	if opts.Diagnostics {
		res.Diagnostics = diag
	}

	if handled, err := cmdcommon.WriteStructured(c, w, res, opts.Format); handled {
		return err
	}
	if err := report.WriteRecurring(w, res.Items, res.Summary); err != nil {
		return err
	}
	if opts.Diagnostics {
		return writeDiagnostics(w, diag)
	}
	return nil
}

func writeDiagnostics(w io.Writer, d *models.DetectionDiagnostics) error {
	if _, err := fmt.Fprintf(w, "\n%d transactions in %d merchant groups, %d detected, %d rejected\n",
		d.Transactions, d.Groups, d.Detected, d.RejectedTotal()); err != nil {
		return err
	}
	reasons := make([]string, 0, len(d.Rejected))
	for r := range d.Rejected {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		if _, err := fmt.Fprintf(w, "  %s: %d\n", r, d.Rejected[r]); err != nil {
			return err
		}
	}
	return nil
}
