// Package batch merges transactions from several CSV exports into one
// chronological stream.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/spendscope/internal/common"
	"fjacquet/spendscope/internal/dateutils"
	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/models"
	"fjacquet/spendscope/internal/parsererror"
)

// ReadFunc loads the transactions of one file.
type ReadFunc func(path string) ([]models.Transaction, error)

// Merger combines transaction files.
type Merger struct {
	logger logging.Logger
	read   ReadFunc
}

// NewMerger creates a Merger that reads CSV files with opts.
func NewMerger(opts common.CSVOptions, logger logging.Logger) *Merger {
	logger = logging.OrDefault(logger)
	return NewMergerWithReader(func(path string) ([]models.Transaction, error) {
		return common.ReadTransactionsFile(path, opts, logger)
	}, logger)
}

// NewMergerWithReader creates a Merger using a custom file reader.
func NewMergerWithReader(read ReadFunc, logger logging.Logger) *Merger {
	return &Merger{logger: logging.OrDefault(logger), read: read}
}

// MergeFiles reads every file and returns all transactions in chronological
// order. Files that fail to read are logged and skipped; an error is returned
// only when no file could be read or nothing was found.
func (m *Merger) MergeFiles(paths []string) ([]models.Transaction, error) {
	var (
		sets    [][]models.Transaction
		sources []string
		lastErr error
	)

	for _, path := range paths {
		txs, err := m.read(path)
		if err != nil {
			lastErr = err
			m.logger.WithError(err).Error("Failed to read file",
				logging.Field{Key: logging.FieldFile, Value: path})
			continue
		}
		m.logger.Debug("Loaded transactions from file",
			logging.Field{Key: logging.FieldCount, Value: len(txs)},
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(path)})
		sets = append(sets, txs)
		sources = append(sources, filepath.Base(path))
	}

	if len(sets) == 0 && lastErr != nil {
		return nil, fmt.Errorf("no input file could be read: %w", lastErr)
	}

	merged := m.Merge(sets...)
	if len(merged) == 0 {
		return nil, parsererror.ErrNoTransactions
	}

	m.logger.Info("Merged transactions",
		logging.Field{Key: logging.FieldCount, Value: len(merged)},
		logging.Field{Key: "source_files", Value: strings.Join(sources, ", ")})
	return merged, nil
}

// Merge concatenates transaction sets, sorts them chronologically and logs
// likely duplicates. All transactions are kept.
func (m *Merger) Merge(sets ...[]models.Transaction) []models.Transaction {
	var all []models.Transaction
	for _, set := range sets {
		all = append(all, set...)
	}
	SortChronologically(all)
	m.logDuplicates(all)
	return all
}

// SortChronologically orders transactions by date. Same-day transactions keep
// their relative order.
func SortChronologically(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return dateutils.CompareDates(txs[i].Date, txs[j].Date) < 0
	})
}

func duplicateKey(tx models.Transaction) string {
	return dateutils.ToISODate(tx.Date) + "|" + tx.Amount.String() + "|" +
		strings.ToLower(strings.TrimSpace(tx.Description))
}

// logDuplicates warns about transactions sharing date, amount and description.
func (m *Merger) logDuplicates(txs []models.Transaction) int {
	seen := make(map[string]bool, len(txs))
	count := 0
	for _, tx := range txs {
		key := duplicateKey(tx)
		if !seen[key] {
			seen[key] = true
			continue
		}
		count++
		m.logger.Warn("Potential duplicate transaction",
			logging.Field{Key: "date", Value: dateutils.ToISODate(tx.Date)},
			logging.Field{Key: "amount", Value: tx.Amount.String()},
			logging.Field{Key: logging.FieldDescription, Value: tx.Description})
	}

	if count > 0 {
		m.logger.Warn("Found potential duplicate transactions",
			logging.Field{Key: logging.FieldCount, Value: count})
	}
	return count
}

// CalculateDateRange returns the span covered by txs.
func CalculateDateRange(txs []models.Transaction) models.DateRange {
	if len(txs) == 0 {
		return models.DateRange{}
	}
	r := models.DateRange{Start: txs[0].Date, End: txs[0].Date}
	for _, tx := range txs[1:] {
		r = r.Merge(models.DateRange{Start: tx.Date, End: tx.Date})
	}
	return r
}
