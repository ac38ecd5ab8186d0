// Package summary handles the full analysis report command
package summary

import (
	"io"

	"github.com/spf13/cobra"

	cmdcommon "fjacquet/spendscope/cmd/common"
	"fjacquet/spendscope/cmd/root"
	"fjacquet/spendscope/internal/container"
)

// Options configures one summary run.
type Options struct {
	Inputs      []string
	Frequencies []string
	Excluded    []string
	Format      string
}

var flags Options

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Report spending by category and recurring costs",
	Long: `Categorize every transaction of the input files, detect recurring charges
and report spending by category together with the monthly recurring total.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := flags
		opts.Inputs = root.SharedFlags.Inputs
		opts.Format = root.OutputFormat()
		return Run(root.AppContainer, cmd.OutOrStdout(), opts)
	},
}

func init() {
	Cmd.Flags().StringArrayVar(&flags.Frequencies, "frequency", nil, "Override a recurring frequency, as MERCHANT=frequency (repeatable)")
	Cmd.Flags().StringArrayVar(&flags.Excluded, "exclude", nil, "Exclude a recurring merchant from the totals (repeatable)")
}

// Run executes the summary command.
func Run(c *container.Container, w io.Writer, opts Options) error {
	overrides, err := cmdcommon.ParseOverrides(opts.Frequencies, opts.Excluded)
	if err != nil {
		return err
	}
	txs, err := cmdcommon.LoadInputs(c, opts.Inputs)
	if err != nil {
		return err
	}

	categorized, _ := c.GetCategorizer().CategorizeAll(txs)
	items, _ := c.GetDetector().Detect(txs)
	overrides.Apply(items, c.GetLogger())
	analysis := c.Summarize(categorized, items)

	format := opts.Format
	if format == "" {
		format = "text"
	}
	out, err := c.GetReportGenerator().GenerateReport(&analysis, format)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
