// Package merchant reduces noisy transaction descriptions to stable merchant keys.
//
// Normalization is an ordered pipeline of pure string transforms. It is
// deliberately conservative: two genuinely different merchants must never
// end up with the same key, so anything uncertain is left in place.
package merchant

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fjacquet/spendscope/internal/textutils"
)

// MaxTokens is the number of leading tokens kept in a merchant key.
const MaxTokens = 4

// MinKeyLength is the shortest key usable for grouping.
const MinKeyLength = 2

// Step is one transform of the normalization pipeline.
type Step struct {
	Name  string
	Apply func(string) string
}

// knownPrefixes are payment-processor and point-of-sale prefixes. At most one
// is stripped, longest first.
var knownPrefixes = []string{
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"RECURRING PAYMENT ",
	"POS PURCHASE ",
	"POS DEBIT ",
	"CHECKCARD ",
	"PAYPAL *",
	"PAYPAL*",
	"SQ *",
	"SQU*",
	"TST* ",
	"TST*",
	"SP * ",
	"SP *",
	"DD *",
	"PP*",
	"POS ",
}

func init() {
	sort.SliceStable(knownPrefixes, func(i, j int) bool {
		return len(knownPrefixes[i]) > len(knownPrefixes[j])
	})
}

var (
	datePattern      = regexp.MustCompile(`\b\d{1,2}/\d{1,2}(/\d{2,4})?\b`)
	storeNumber      = regexp.MustCompile(`\bSTORE\s*#?\s*\d+\b`)
	hashReference    = regexp.MustCompile(`#\s*\d+`)
	asteriskCode     = regexp.MustCompile(`\*\s*[A-Z0-9]*\d[A-Z0-9]*`)
	longNumber       = regexp.MustCompile(`\d{6,}`)
	trailingStoreNum = regexp.MustCompile(`\s+\d{4,5}$`)

	stateZip      = regexp.MustCompile(`\s+[A-Z]{2}\s+\d{5}(-\d{4})?$`)
	bareState     = regexp.MustCompile(`\s+(AL|AK|AZ|AR|CA|CO|CT|DE|DC|FL|GA|HI|ID|IL|IN|IA|KS|KY|LA|ME|MD|MA|MI|MN|MS|MO|MT|NE|NV|NH|NJ|NM|NY|NC|ND|OH|OK|OR|PA|RI|SC|SD|TN|TX|UT|VT|VA|WA|WV|WI|WY)$`)
	countryToken  = regexp.MustCompile(`\s+(US|USA|CAN|GB|GBR|UK)$`)
	streetAddress = regexp.MustCompile(`\s+\d{1,6}\s+([A-Z0-9]+\s+){0,3}(ST|STREET|AVE|AVENUE|RD|ROAD|BLVD|DR|DRIVE|LN|LANE|HWY|WAY|PKWY|CT)\.?$`)

	edgePunctuation = " -.,:;/*#"
)

var pipeline = []Step{
	{Name: "uppercase", Apply: func(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }},
	{Name: "strip_prefix", Apply: StripPrefix},
	{Name: "strip_noise", Apply: stripNoise},
	{Name: "strip_suffixes", Apply: stripSuffixes},
	{Name: "collapse", Apply: collapse},
	{Name: "truncate", Apply: func(s string) string { return textutils.FirstTokens(s, MaxTokens) }},
}

// Steps returns a copy of the normalization pipeline in execution order.
func Steps() []Step {
	out := make([]Step, len(pipeline))
	copy(out, pipeline)
	return out
}

// Normalize returns the canonical merchant key for description.
// The result may be empty or too short to use; see IsUsableKey.
func Normalize(description string) string {
	s := description
	for _, step := range pipeline {
		s = step.Apply(s)
	}
	return s
}

// IsUsableKey reports whether key is long enough to group on.
func IsUsableKey(key string) bool {
	return len([]rune(strings.TrimSpace(key))) >= MinKeyLength
}

// StripPrefix removes the first known processor prefix s starts with.
// s must already be uppercase.
func StripPrefix(s string) string {
	for _, p := range knownPrefixes {
		if strings.HasPrefix(s, p) {
			return strings.TrimSpace(s[len(p):])
		}
	}
	return s
}

func stripNoise(s string) string {
	s = datePattern.ReplaceAllString(s, " ")
	s = storeNumber.ReplaceAllString(s, " ")
	s = hashReference.ReplaceAllString(s, " ")
	s = asteriskCode.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "*", " ")
	s = longNumber.ReplaceAllString(s, " ")
	s = textutils.CollapseWhitespace(s)
	return trailingStoreNum.ReplaceAllString(s, "")
}

// stripSuffixes removes location tails until nothing more matches.
func stripSuffixes(s string) string {
	s = textutils.CollapseWhitespace(s)
	for {
		before := s
		for _, re := range []*regexp.Regexp{stateZip, streetAddress, countryToken, bareState, trailingStoreNum} {
			s = re.ReplaceAllString(s, "")
		}
		if s == before {
			return s
		}
	}
}

func collapse(s string) string {
	return strings.Trim(textutils.CollapseWhitespace(s), edgePunctuation)
}

// DisplayName turns a merchant key into a human-friendly title.
func DisplayName(key string) string {
	return cases.Title(language.English).String(strings.ToLower(key))
}
