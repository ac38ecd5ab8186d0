// Package common provides the CSV reading and writing shared by the commands.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"fjacquet/spendscope/internal/currencyutils"
	"fjacquet/spendscope/internal/dateutils"
	"fjacquet/spendscope/internal/fileutils"
	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/models"
	"fjacquet/spendscope/internal/parsererror"
)

const parserName = "csv"

var requiredColumns = []string{"date", "description", "amount"}

// TransactionRow is one row of a normalized transaction export. Header names
// are matched case-insensitively.
type TransactionRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
}

// CategorizedRow is one row of a categorized export.
type CategorizedRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Category    string `csv:"category"`
}

// CSVOptions controls how transaction files are read and written.
type CSVOptions struct {
	Delimiter  rune
	DateLayout string
}

// DefaultCSVOptions returns comma-separated ISO-dated options.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', DateLayout: dateutils.DateLayoutISO}
}

func (o CSVOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// headerNormalizer lower-cases the header record so gocsv tags match any casing.
type headerNormalizer struct {
	r      *csv.Reader
	header bool
}

func (h *headerNormalizer) Read() ([]string, error) {
	rec, err := h.r.Read()
	if err != nil || h.header {
		return rec, err
	}
	h.header = true
	seen := make(map[string]bool, len(rec))
	for i, name := range rec {
		rec[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		seen[rec[i]] = true
	}
	for _, col := range requiredColumns {
		if !seen[col] {
			return nil, &parsererror.InvalidFormatError{
				ExpectedFormat: strings.Join(requiredColumns, ", "),
				Msg:            fmt.Sprintf("missing column %q", col),
			}
		}
	}
	return rec, nil
}

func (h *headerNormalizer) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		rec, err := h.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

func newReader(r io.Reader, opts CSVOptions) gocsv.CSVReader {
	cr := csv.NewReader(r)
	cr.Comma = opts.delimiter()
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return &headerNormalizer{r: cr}
}

// ReadTransactions decodes transactions from CSV data. Rows with an unparseable
// date or amount, or an empty description, are skipped with a warning. The
// returned count is the number of skipped rows.
func ReadTransactions(r io.Reader, opts CSVOptions, logger logging.Logger) ([]models.Transaction, int, error) {
	logger = logging.OrDefault(logger)

	var rows []TransactionRow
	if err := gocsv.UnmarshalCSV(newReader(r, opts), &rows); err != nil {
		return nil, 0, fmt.Errorf("error parsing CSV: %w", err)
	}

	transactions := make([]models.Transaction, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		tx, err := row.toTransaction(i+2, opts)
		if err != nil {
			skipped++
			logger.WithError(err).Warn("Skipping malformed row",
				logging.Field{Key: logging.FieldLine, Value: i + 2})
			continue
		}
		transactions = append(transactions, tx)
	}

	logger.Debug("Read transactions from CSV",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: "skipped", Value: skipped})
	return transactions, skipped, nil
}

// ReadTransactionsFile reads a transaction CSV from disk.
func ReadTransactionsFile(filePath string, opts CSVOptions, logger logging.Logger) ([]models.Transaction, error) {
	logger = logging.OrDefault(logger)
	logger.Info("Reading transactions", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := fileutils.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	transactions, skipped, err := ReadTransactions(file, opts, logger)
	if err != nil {
		var formatErr *parsererror.InvalidFormatError
		if errors.As(err, &formatErr) {
			formatErr.FilePath = filePath
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	if skipped > 0 {
		logger.Warn("Some rows could not be read",
			logging.Field{Key: logging.FieldFile, Value: filePath},
			logging.Field{Key: "skipped", Value: skipped})
	}
	return transactions, nil
}

func (row TransactionRow) toTransaction(line int, opts CSVOptions) (models.Transaction, error) {
	date, _, err := dateutils.ParseDateWithLayout(row.Date, opts.DateLayout)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Parser: parserName, Line: line, Field: "date", Value: row.Date, Err: err,
		}
	}

	amount, err := currencyutils.ParseAmount(row.Amount)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Parser: parserName, Line: line, Field: "amount", Value: row.Amount, Err: err,
		}
	}

	description := strings.TrimSpace(row.Description)
	if description == "" {
		return models.Transaction{}, &parsererror.ParseError{
			Parser: parserName, Line: line, Field: "description", Value: row.Description,
			Err: fmt.Errorf("empty description"),
		}
	}

	return models.NewTransaction(date, description, amount), nil
}

// WriteCategorized writes categorized transactions as CSV with ISO dates and
// two-decimal amounts.
func WriteCategorized(w io.Writer, txs []models.CategorizedTransaction, opts CSVOptions) error {
	rows := make([]CategorizedRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, CategorizedRow{
			Date:        dateutils.ToISODate(tx.Date),
			Description: tx.Description,
			Amount:      currencyutils.FormatAmount(tx.Amount),
			Category:    tx.Category.Name,
		})
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = opts.delimiter()
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteCategorizedFile writes categorized transactions to filePath, creating
// parent directories as needed.
func WriteCategorizedFile(filePath string, txs []models.CategorizedTransaction, opts CSVOptions, logger logging.Logger) error {
	logger = logging.OrDefault(logger)

	file, err := fileutils.CreateFile(filePath)
	if err != nil {
		return err
	}
	if err := WriteCategorized(file, txs, opts); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", filePath, err)
	}

	logger.Info("Wrote categorized transactions",
		logging.Field{Key: logging.FieldOutputFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return nil
}
