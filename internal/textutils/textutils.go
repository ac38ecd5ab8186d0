// Package textutils provides small text helpers shared by the normalizer and the pattern store.
package textutils

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRun  = regexp.MustCompile(`\s+`)
	dateToken = regexp.MustCompile(`^\d{1,2}/\d{1,2}(/\d{2,4})?$`)
)

// CollapseWhitespace trims s and replaces every whitespace run with one space.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// FirstTokens returns at most n space-separated tokens of s, rejoined by single spaces.
func FirstTokens(s string, n int) string {
	if n <= 0 {
		return ""
	}
	tokens := strings.Fields(s)
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return strings.Join(tokens, " ")
}

// IsNumeric reports whether s is non-empty and made only of digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsDateToken reports whether s looks like M/D, MM/DD/YY or MM/DD/YYYY.
func IsDateToken(s string) bool {
	return dateToken.MatchString(s)
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
