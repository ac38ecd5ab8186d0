// Package container provides dependency injection for the spendscope application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/spendscope/internal/batch"
	"fjacquet/spendscope/internal/categorizer"
	"fjacquet/spendscope/internal/common"
	"fjacquet/spendscope/internal/config"
	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/models"
	"fjacquet/spendscope/internal/recurring"
	"fjacquet/spendscope/internal/report"
	"fjacquet/spendscope/internal/store"
	"fjacquet/spendscope/internal/summary"
)

// Container holds all application dependencies and provides methods to access them.
// Container is immutable after creation.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	kv          store.KeyValueStore
	patterns    *store.PatternStore
	categorizer *categorizer.Categorizer
	detector    *recurring.Detector
	aggregator  *summary.Aggregator
	merger      *batch.Merger
	reports     *report.ReportGenerator
}

// NewContainer creates and wires all application dependencies. Learned rules
// live in memory when cfg.Store.Ephemeral is set, otherwise on disk under
// cfg.Store.Directory (or the per-user default) in the configured backend.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

	kv, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	return NewContainerWithStore(cfg, kv, logger)
}

func openStore(cfg config.StoreConfig) (store.KeyValueStore, error) {
	if cfg.Ephemeral {
		return store.NewMemoryKV(), nil
	}
	dir := cfg.Directory
	if dir == "" {
		dir = store.DefaultDirectory()
	}
	if cfg.Backend == "sqlite" {
		kv, err := store.NewSQLiteKV(filepath.Join(dir, store.SQLiteFileName))
		if err != nil {
			return nil, fmt.Errorf("failed to open rule store: %w", err)
		}
		return kv, nil
	}
	return store.NewFileKV(dir), nil
}

// NewContainerWithStore wires the application around an existing key-value
// store and logger.
func NewContainerWithStore(cfg *config.Config, kv store.KeyValueStore, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	patterns := store.NewPatternStore(kv, cfg.Store.RulesKey, logger)
	c := &Container{
		logger:      logger,
		config:      cfg,
		kv:          kv,
		patterns:    patterns,
		categorizer: categorizer.NewCategorizer(patterns, logger),
		detector:    recurring.NewDetector(logger),
		aggregator:  summary.NewAggregator(cfg.Summary.MaxCategories, logger),
		reports:     report.NewReportGenerator(logger),
	}
	c.merger = batch.NewMerger(c.CSVOptions(), logger)

	logger.Debug("Container initialized",
		logging.Field{Key: "matchers", Value: c.categorizer.Matchers()},
		logging.Field{Key: "ephemeral", Value: cfg.Store.Ephemeral})
	return c, nil
}

// CSVOptions returns the CSV settings derived from configuration.
func (c *Container) CSVOptions() common.CSVOptions {
	return common.CSVOptions{Delimiter: c.config.DelimiterRune(), DateLayout: c.config.DateLayout()}
}

// LoadTransactions reads and merges the given CSV files.
func (c *Container) LoadTransactions(paths []string) ([]models.Transaction, error) {
	return c.merger.MergeFiles(paths)
}

// Analyze categorizes txs, detects recurring charges and aggregates both.
func (c *Container) Analyze(txs []models.Transaction) models.Analysis {
	categorized, _ := c.categorizer.CategorizeAll(txs)
	items, _ := c.detector.Detect(txs)
	return c.Summarize(categorized, items)
}

// Summarize builds an Analysis from already categorized transactions and
// recurring items. Used after overrides have been applied to items.
func (c *Container) Summarize(categorized []models.CategorizedTransaction, items []models.RecurringTransaction) models.Analysis {
	plain := make([]models.Transaction, len(categorized))
	for i, tx := range categorized {
		plain[i] = tx.Transaction
	}
	return models.Analysis{
		Period:       batch.CalculateDateRange(plain),
		Transactions: categorized,
		Recurring:    items,
		Categories:   c.aggregator.AggregateCategories(categorized),
		Summary:      c.aggregator.AggregateRecurring(items),
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the key-value store backing learned rules.
func (c *Container) GetStore() store.KeyValueStore {
	return c.kv
}

// GetPatternStore returns the learned rule store.
func (c *Container) GetPatternStore() *store.PatternStore {
	return c.patterns
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetDetector returns the recurrence detector.
func (c *Container) GetDetector() *recurring.Detector {
	return c.detector
}

// GetAggregator returns the summary aggregator.
func (c *Container) GetAggregator() *summary.Aggregator {
	return c.aggregator
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	if closer, ok := c.kv.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
