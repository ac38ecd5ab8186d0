// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/spendscope/internal/container"
	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/models"
	"fjacquet/spendscope/internal/recurring"
	"fjacquet/spendscope/internal/validation"
)

// Overrides are user corrections applied to detected recurring items.
type Overrides struct {
	Frequencies map[string]models.Frequency
	Excluded    []string
}

// ParseOverrides parses "MERCHANT=frequency" pairs and excluded merchant names.
func ParseOverrides(frequencies, excluded []string) (Overrides, error) {
	o := Overrides{Frequencies: make(map[string]models.Frequency), Excluded: excluded}
	for _, pair := range frequencies {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return Overrides{}, fmt.Errorf("invalid frequency override %q, expected MERCHANT=frequency", pair)
		}
		f, err := models.ParseFrequency(value)
		if err != nil {
			return Overrides{}, err
		}
		o.Frequencies[name] = f
	}
	return o, nil
}

// Apply applies the overrides to items. Names that match no item are logged.
func (o Overrides) Apply(items []models.RecurringTransaction, logger logging.Logger) {
	logger = logging.OrDefault(logger)
	for name, f := range o.Frequencies {
		if !recurring.SetFrequency(items, name, f) {
			logger.Warn("No recurring item matches override",
				logging.Field{Key: logging.FieldMerchant, Value: name},
				logging.Field{Key: logging.FieldFrequency, Value: string(f)})
		}
	}
	for _, name := range o.Excluded {
		if !recurring.SetExcluded(items, name, true) {
			logger.Warn("No recurring item matches exclusion",
				logging.Field{Key: logging.FieldMerchant, Value: name})
		}
	}
}

// LoadInputs reads and merges the input files.
func LoadInputs(c *container.Container, inputs []string) ([]models.Transaction, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input file given, use --input")
	}
	return c.LoadTransactions(inputs)
}

// WriteStructured writes v as JSON or YAML when format asks for it and
// reports whether it did. Text output is left to the caller.
func WriteStructured(c *container.Container, w io.Writer, v interface{}, format string) (bool, error) {
	if format == "" || strings.EqualFold(format, validation.FormatText) {
		return false, nil
	}
	out, err := c.GetReportGenerator().Marshal(v, format)
	if err != nil {
		return true, err
	}
	_, err = w.Write(out)
	return true, err
}
