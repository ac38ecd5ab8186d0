// Package rules handles the learned categorization rule commands
package rules

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	cmdcommon "fjacquet/spendscope/cmd/common"
	"fjacquet/spendscope/cmd/root"
	"fjacquet/spendscope/internal/categorizer"
	"fjacquet/spendscope/internal/container"
	"fjacquet/spendscope/internal/dateutils"
	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/store"
)

var fromDescription bool

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage learned categorization rules",
	Long: `Learned rules map a merchant pattern to a category. A transaction whose
description contains the pattern (case-insensitive) gets that category before
any built-in rule is consulted.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List learned rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return List(root.AppContainer, cmd.OutOrStdout(), root.OutputFormat())
	},
}

var addCmd = &cobra.Command{
	Use:   "add PATTERN CATEGORY",
	Short: "Teach a category for a merchant pattern",
	Example: `  spendscope rules add "BLUE BOTTLE" "Food & Dining"
  spendscope rules add --from-description "SQ *BLUE BOTTLE 0412 OAKLAND" "Food & Dining"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Add(root.AppContainer, cmd.OutOrStdout(), args[0], args[1], fromDescription)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove PATTERN",
	Short: "Forget a learned rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Remove(root.AppContainer, cmd.OutOrStdout(), args[0])
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every learned rule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Clear(root.AppContainer, cmd.OutOrStdout())
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest DESCRIPTION",
	Short: "Suggest a pattern to teach for a transaction description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Suggest(root.AppContainer, cmd.OutOrStdout(), args[0])
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories a rule can assign",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Categories(cmd.OutOrStdout())
	},
}

func init() {
	addCmd.Flags().BoolVar(&fromDescription, "from-description", false, "Treat PATTERN as a full description and extract the pattern from it")
	Cmd.AddCommand(listCmd, addCmd, removeCmd, clearCmd, suggestCmd, categoriesCmd)
}

// List prints the learned rules in storage order.
func List(c *container.Container, w io.Writer, format string) error {
	rules := c.GetPatternStore().Get()
	if handled, err := cmdcommon.WriteStructured(c, w, rules, format); handled {
		return err
	}
	if len(rules) == 0 {
		_, err := fmt.Fprintln(w, "no learned rules")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tCATEGORY\tADDED")
	for _, r := range rules {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Pattern, r.Category, dateutils.ToISODate(r.AddedAt))
	}
	return tw.Flush()
}

// Add stores a rule. The category must be a teachable catalog category.
func Add(c *container.Container, w io.Writer, pattern, category string, extract bool) error {
	name, ok := categorizer.CanonicalTeachable(category)
	if !ok {
		return fmt.Errorf("unknown category %q, choose one of: %s",
			category, strings.Join(categorizer.TeachableCategories(), ", "))
	}
	if extract {
		pattern = store.ExtractPattern(pattern)
	}
	pattern = store.NormalizePattern(pattern)
	if pattern == "" {
		return fmt.Errorf("pattern must not be empty")
	}

	if err := c.GetPatternStore().Upsert(pattern, name); err != nil {
		return fmt.Errorf("rule is active for this run but could not be saved: %w", err)
	}
	c.GetLogger().Info("Learned rule saved",
		logging.Field{Key: logging.FieldPattern, Value: pattern},
		logging.Field{Key: logging.FieldCategory, Value: name})
	_, err := fmt.Fprintf(w, "%s -> %s\n", pattern, name)
	return err
}

// Remove deletes the rule for pattern.
func Remove(c *container.Container, w io.Writer, pattern string) error {
	pattern = store.NormalizePattern(pattern)
	found := false
	for _, r := range c.GetPatternStore().Get() {
		if r.Pattern == pattern {
			found = true
			break
		}
	}
	if !found {
		_, err := fmt.Fprintf(w, "no rule for %s\n", pattern)
		return err
	}
	if err := c.GetPatternStore().Remove(pattern); err != nil {
		return fmt.Errorf("failed to save rules: %w", err)
	}
	_, err := fmt.Fprintf(w, "removed %s\n", pattern)
	return err
}

// Clear deletes every learned rule.
func Clear(c *container.Container, w io.Writer) error {
	n := len(c.GetPatternStore().Get())
	if err := c.GetPatternStore().Clear(); err != nil {
		return fmt.Errorf("failed to clear rules: %w", err)
	}
	_, err := fmt.Fprintf(w, "removed %d rules\n", n)
	return err
}

// Suggest prints the pattern that would be taught for description along with
// the category it currently receives.
func Suggest(c *container.Container, w io.Writer, description string) error {
	pattern := store.ExtractPattern(description)
	current := c.GetCategorizer().Explain(description, decimal.Zero)
	_, err := fmt.Fprintf(w, "pattern:  %s\ncurrent:  %s (%s)\n", pattern, current.Final.Name, current.Summary())
	return err
}

// Categories prints the teachable categories.
func Categories(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range categorizer.TeachableCategories() {
		cat := categorizer.CategoryFor(name)
		fmt.Fprintf(tw, "%s\t%s\n", cat.Name, cat.Color)
	}
	return tw.Flush()
}
