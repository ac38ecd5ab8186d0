package store

import (
	"regexp"
	"strings"

	"fjacquet/spendscope/internal/textutils"
)

const (
	suggestedTokens    = 3
	fallbackPatternLen = 30
)

var refToken = regexp.MustCompile(`^#\S*$`)

// ExtractPattern suggests a pattern to teach for description: trailing
// reference numbers, dates and #refs are dropped, then the first three
// non-numeric tokens longer than one character are kept.
func ExtractPattern(description string) string {
	upper := textutils.CollapseWhitespace(strings.ToUpper(description))
	tokens := strings.Fields(upper)

	for len(tokens) > 0 && isTrailingNoise(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	cleaned := strings.Join(tokens, " ")
	if cleaned == "" {
		cleaned = upper
	}

	picked := make([]string, 0, suggestedTokens)
	for _, tok := range tokens {
		if len(picked) == suggestedTokens {
			break
		}
		if textutils.IsNumeric(tok) || len([]rune(tok)) <= 1 {
			continue
		}
		picked = append(picked, tok)
	}
	if len(picked) > 0 {
		return strings.Join(picked, " ")
	}
	return strings.TrimSpace(textutils.Truncate(cleaned, fallbackPatternLen))
}

func isTrailingNoise(tok string) bool {
	if textutils.IsNumeric(tok) && len(tok) >= 4 {
		return true
	}
	return textutils.IsDateToken(tok) || refToken.MatchString(tok)
}
