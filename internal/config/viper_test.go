package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"SPENDSCOPE_LOG_LEVEL",
	"SPENDSCOPE_LOG_FORMAT",
	"SPENDSCOPE_CSV_DELIMITER",
	"SPENDSCOPE_CSV_DATE_FORMAT",
	"SPENDSCOPE_STORE_DIRECTORY",
	"SPENDSCOPE_STORE_RULES_KEY",
	"SPENDSCOPE_STORE_EPHEMERAL",
	"SPENDSCOPE_SUMMARY_MAX_CATEGORIES",
	"SPENDSCOPE_OUTPUT_FORMAT",
}

// clearTestEnvVars unsets the prefixed variables for the duration of the test.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range testEnvVars {
		if old, ok := os.LookupEnv(name); ok {
			t.Cleanup(func() { _ = os.Setenv(name, old) })
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

// inTempDir runs the test from an empty directory so no config.yaml is found.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	t.Setenv("HOME", dir)
	return dir
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	inTempDir(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "YYYY-MM-DD", config.CSV.DateFormat)
	assert.Equal(t, "2006-01-02", config.DateLayout())
	assert.Equal(t, "", config.Store.Directory)
	assert.Equal(t, "learned-category-rules", config.Store.RulesKey)
	assert.False(t, config.Store.Ephemeral)
	assert.Equal(t, "file", config.Store.Backend)
	assert.Equal(t, 8, config.Summary.MaxCategories)
	assert.Equal(t, "text", config.Output.Format)
	assert.Equal(t, config, Default())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	inTempDir(t)

	t.Setenv("SPENDSCOPE_LOG_LEVEL", "debug")
	t.Setenv("SPENDSCOPE_LOG_FORMAT", "json")
	t.Setenv("SPENDSCOPE_CSV_DELIMITER", ";")
	t.Setenv("SPENDSCOPE_STORE_EPHEMERAL", "true")
	t.Setenv("SPENDSCOPE_SUMMARY_MAX_CATEGORIES", "5")
	t.Setenv("SPENDSCOPE_OUTPUT_FORMAT", "yaml")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ';', config.DelimiterRune())
	assert.True(t, config.Store.Ephemeral)
	assert.Equal(t, 5, config.Summary.MaxCategories)
	assert.Equal(t, "yaml", config.Output.Format)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	dir := inTempDir(t)

	content := `
log:
  level: "warn"
csv:
  delimiter: "|"
  date_format: "DD.MM.YYYY"
summary:
  max_categories: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
	t.Setenv("SPENDSCOPE_LOG_LEVEL", "error")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, "02.01.2006", config.DateLayout())
	assert.Equal(t, 4, config.Summary.MaxCategories)
}

func TestInitializeConfigWithFile(t *testing.T) {
	clearTestEnvVars(t)
	dir := inTempDir(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: json\n"), 0600))

	config, err := InitializeConfigWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "json", config.Output.Format)

	_, err = InitializeConfigWithFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestInitializeConfig_InvalidFileValue(t *testing.T) {
	clearTestEnvVars(t)
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output:\n  format: xml\n"), 0600))

	_, err := InitializeConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{"invalid log level", func(c *Config) { c.Log.Level = "invalid" }, "invalid log level"},
		{"invalid log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"invalid CSV delimiter", func(c *Config) { c.CSV.Delimiter = "abc" }, "CSV delimiter must be a single character"},
		{"empty date format", func(c *Config) { c.CSV.DateFormat = " " }, "csv.date_format"},
		{"empty rules key", func(c *Config) { c.Store.RulesKey = "" }, "store.rules_key"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"zero max categories", func(c *Config) { c.Summary.MaxCategories = 0 }, "summary.max_categories must be positive"},
		{"invalid output format", func(c *Config) { c.Output.Format = "csv" }, "output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			require.NoError(t, validateConfig(config))

			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := Default()
	config.Log.Level = "debug"
	config.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	config.Log.Level = "bogus"
	config.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestLoadEnvFrom(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SPENDSCOPE_TEST_ONLY=loaded\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("SPENDSCOPE_TEST_ONLY") })

	assert.Equal(t, "", loadEnvFrom(filepath.Join(dir, "absent.env")))
	assert.Equal(t, envFile, loadEnvFrom(filepath.Join(dir, "absent.env"), envFile))
	assert.Equal(t, "loaded", os.Getenv("SPENDSCOPE_TEST_ONLY"))
}
