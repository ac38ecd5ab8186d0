// Package validation checks user-supplied options before they reach the core.
package validation

import (
	"fmt"
	"strings"

	"fjacquet/spendscope/internal/parsererror"
)

// Output formats understood by the report generator.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// OutputFormats lists the supported output formats.
var OutputFormats = []string{FormatText, FormatJSON, FormatYAML}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	for _, f := range OutputFormats {
		if strings.EqualFold(format, f) {
			return nil
		}
	}
	return &parsererror.ValidationError{
		Subject: "output format",
		Reason:  fmt.Sprintf("unsupported format %q, supported formats are %s", format, strings.Join(OutputFormats, ", ")),
	}
}

// IsValidDelimiter checks that a CSV delimiter is a single character other than a quote or newline.
func IsValidDelimiter(delim string) error {
	r := []rune(delim)
	if len(r) != 1 || r[0] == '"' || r[0] == '\n' || r[0] == '\r' {
		return &parsererror.ValidationError{Subject: "csv delimiter", Reason: fmt.Sprintf("invalid delimiter %q", delim)}
	}
	return nil
}
