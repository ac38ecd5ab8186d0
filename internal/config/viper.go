// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/spendscope/internal/fileutils"
	"fjacquet/spendscope/internal/validation"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "SPENDSCOPE"

// Config represents the complete application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	CSV     CSVConfig     `mapstructure:"csv" yaml:"csv"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Summary SummaryConfig `mapstructure:"summary" yaml:"summary"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	// DateFormat uses YYYY, MM, DD and YY tokens, e.g. "DD.MM.YYYY".
	DateFormat string `mapstructure:"date_format" yaml:"date_format"`
}

type StoreConfig struct {
	// Directory holding learned rules. Empty means the per-user default.
	Directory string `mapstructure:"directory" yaml:"directory"`
	RulesKey  string `mapstructure:"rules_key" yaml:"rules_key"`
	// Backend is "file" (one YAML file per key) or "sqlite".
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Ephemeral keeps rules in memory only.
	Ephemeral bool `mapstructure:"ephemeral" yaml:"ephemeral"`
}

type SummaryConfig struct {
	MaxCategories int `mapstructure:"max_categories" yaml:"max_categories"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// DelimiterRune returns the configured delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r := []rune(c.CSV.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

var dateTokens = strings.NewReplacer("YYYY", "2006", "YY", "06", "MM", "01", "DD", "02")

// DateLayout converts the configured date format to a Go time layout.
func (c *Config) DateLayout() string {
	return dateTokens.Replace(c.CSV.DateFormat)
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
func InitializeConfig() (*Config, error) {
	return InitializeConfigWithFile("")
}

// InitializeConfigWithFile loads configuration from configFile when set,
// otherwise from config.yaml in the standard search paths.
func InitializeConfigWithFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		if !fileutils.FileExists(configFile) {
			return nil, fmt.Errorf("config file %s does not exist", configFile)
		}
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.spendscope")
		v.AddConfigPath(".spendscope")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicitly given)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.date_format", "YYYY-MM-DD")

	v.SetDefault("store.directory", "")
	v.SetDefault("store.rules_key", "learned-category-rules")
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.ephemeral", false)

	v.SetDefault("summary.max_categories", 8)

	v.SetDefault("output.format", validation.FormatText)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if err := validation.IsValidDelimiter(config.CSV.Delimiter); err != nil {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", config.CSV.Delimiter)
	}

	if strings.TrimSpace(config.CSV.DateFormat) == "" {
		return fmt.Errorf("csv.date_format must not be empty")
	}

	if strings.TrimSpace(config.Store.RulesKey) == "" {
		return fmt.Errorf("store.rules_key must not be empty")
	}

	if config.Store.Backend != "file" && config.Store.Backend != "sqlite" {
		return fmt.Errorf("invalid store.backend: %s (must be 'file' or 'sqlite')", config.Store.Backend)
	}

	if config.Summary.MaxCategories < 1 {
		return fmt.Errorf("summary.max_categories must be positive, got: %d", config.Summary.MaxCategories)
	}

	if err := validation.IsValidOutputFormat(config.Output.Format); err != nil {
		return err
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
