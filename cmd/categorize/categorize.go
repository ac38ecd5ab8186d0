// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	cmdcommon "fjacquet/spendscope/cmd/common"
	"fjacquet/spendscope/cmd/root"
	"fjacquet/spendscope/internal/categorizer"
	"fjacquet/spendscope/internal/common"
	"fjacquet/spendscope/internal/container"
	"fjacquet/spendscope/internal/currencyutils"
	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/models"
	"fjacquet/spendscope/internal/report"
)

// Options configures one categorize run.
type Options struct {
	Description string
	Amount      string
	Explain     bool
	Inputs      []string
	Export      string
	Format      string
}

var flags Options

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize [DESCRIPTION]",
	Short: "Categorize transactions",
	Long: `Categorize a single transaction description, or every transaction of the
input files.

Examples:
  spendscope categorize "NETFLIX.COM" --amount -15.99 --explain
  spendscope categorize -i january.csv -i february.csv --export categorized.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := flags
		if len(args) == 1 {
			opts.Description = args[0]
		}
		opts.Inputs = root.SharedFlags.Inputs
		opts.Format = root.OutputFormat()
		return Run(root.AppContainer, cmd.OutOrStdout(), opts)
	},
}

func init() {
	Cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Signed transaction amount (negative for spending)")
	Cmd.Flags().BoolVarP(&flags.Explain, "explain", "x", false, "Show which rule decided the category")
	Cmd.Flags().StringVarP(&flags.Export, "export", "e", "", "Write categorized transactions to this CSV file")
}

// Run executes the categorize command.
func Run(c *container.Container, w io.Writer, opts Options) error {
	if opts.Description != "" {
		return categorizeOne(c, w, opts)
	}

	txs, err := cmdcommon.LoadInputs(c, opts.Inputs)
	if err != nil {
		return err
	}

	categorized, stats := c.GetCategorizer().CategorizeAll(txs)
	c.GetLogger().Info("Categorized transactions",
		logging.Field{Key: logging.FieldCount, Value: stats.Total},
		logging.Field{Key: "needs_review", Value: stats.NeedsReview})

	if opts.Export != "" {
		if err := common.WriteCategorizedFile(opts.Export, categorized, c.CSVOptions(), c.GetLogger()); err != nil {
			return err
		}
	}

	if handled, err := cmdcommon.WriteStructured(c, w, categorized, opts.Format); handled {
		return err
	}
	if err := report.WriteTransactions(w, categorized); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n%d transactions, %d categorized (%.1f%%), %d need review\n",
		stats.Total, stats.Categorized, stats.SuccessRate(), stats.NeedsReview)
	return err
}

type result struct {
	Description string          `json:"description" yaml:"description"`
	Category    models.Category `json:"category" yaml:"category"`
	Trace       string          `json:"trace,omitempty" yaml:"trace,omitempty"`
}

func categorizeOne(c *container.Container, w io.Writer, opts Options) error {
	amount := decimal.Zero
	if strings.TrimSpace(opts.Amount) != "" {
		a, err := currencyutils.ParseAmount(opts.Amount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", opts.Amount, err)
		}
		amount = a
	}

	var res result
	res.Description = opts.Description
	if opts.Explain {
		trace := c.GetCategorizer().Explain(opts.Description, amount)
		res.Category = trace.Final
		res.Trace = trace.Summary()
	} else {
		res.Category = c.GetCategorizer().Categorize(opts.Description, amount)
	}

	if handled, err := cmdcommon.WriteStructured(c, w, res, opts.Format); handled {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\t%s\n", res.Category.Name, res.Category.Color); err != nil {
		return err
	}
	if res.Trace != "" {
		if _, err := fmt.Fprintf(w, "trace: %s\n", res.Trace); err != nil {
			return err
		}
	}
	if res.Category.Name == categorizer.NeedsReview().Name {
		_, err := fmt.Fprintln(w, `hint: teach it with "spendscope rules add PATTERN CATEGORY"`)
		return err
	}
	return nil
}
