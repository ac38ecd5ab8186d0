// Package main provides the entry point for the spendscope CLI application.
package main

import (
	"fmt"
	"os"

	"fjacquet/spendscope/cmd/categorize"
	"fjacquet/spendscope/cmd/recurring"
	"fjacquet/spendscope/cmd/root"
	"fjacquet/spendscope/cmd/rules"
	"fjacquet/spendscope/cmd/summary"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(recurring.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
