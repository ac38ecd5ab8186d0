// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/spendscope/internal/config"
	"fjacquet/spendscope/internal/container"
	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/validation"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Inputs     []string
	Format     string
	ConfigFile string
	StoreDir   string
	Backend    string
	Ephemeral  bool
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// AppContainer is built before any subcommand runs.
	AppContainer *container.Container

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "spendscope",
		Short: "Categorize bank transactions and find recurring charges.",
		Long: `spendscope reads normalized transaction exports (date, description, amount),
assigns each transaction a spending category, detects subscriptions and other
recurring charges, and summarizes where the money goes.

Categories you teach with "spendscope rules add" are remembered and take
precedence over the built-in rules.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				_ = AppContainer.Close()
			}
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringSliceVarP(&SharedFlags.Inputs, "input", "i", nil, "Transaction CSV file (repeatable)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "", "Output format: text, json or yaml")
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches $HOME/.spendscope, .spendscope, .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.StoreDir, "store-dir", "", "Directory holding learned rules")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Backend, "store-backend", "", "Rule store backend: file or sqlite")
	Cmd.PersistentFlags().BoolVar(&SharedFlags.Ephemeral, "ephemeral", false, "Keep learned rules in memory only")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
}

func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfigWithFile(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if err := ApplyFlags(cfg, SharedFlags); err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()
	logging.SetLogger(Log)
	return nil
}

// ApplyFlags overrides configuration values with explicitly set flags.
func ApplyFlags(cfg *config.Config, flags CommonFlags) error {
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.Format != "" {
		if err := validation.IsValidOutputFormat(flags.Format); err != nil {
			return err
		}
		cfg.Output.Format = flags.Format
	}
	if flags.StoreDir != "" {
		cfg.Store.Directory = flags.StoreDir
	}
	if flags.Backend != "" {
		cfg.Store.Backend = flags.Backend
	}
	if flags.Ephemeral {
		cfg.Store.Ephemeral = true
	}
	return nil
}

// OutputFormat returns the effective output format.
func OutputFormat() string {
	if AppContainer == nil {
		return validation.FormatText
	}
	return AppContainer.GetConfig().Output.Format
}
