package categorizer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/spendscope/internal/merchant"
	"fjacquet/spendscope/internal/models"
)

// Matcher names, in cascade order.
const (
	MatcherLearned    = "Learned"
	MatcherStructural = "Structural"
	MatcherIncome     = "Income"
	MatcherKeyword    = "Keyword"
	MatcherFallback   = "Fallback"
)

// LearnedMatcher consults user-taught rules.
type LearnedMatcher struct {
	rules RuleMatcher
}

// NewLearnedMatcher creates a LearnedMatcher. A nil rules source never matches.
func NewLearnedMatcher(rules RuleMatcher) *LearnedMatcher {
	return &LearnedMatcher{rules: rules}
}

func (m *LearnedMatcher) Name() string { return MatcherLearned }

func (m *LearnedMatcher) TryMatch(description string, _ decimal.Decimal) (string, bool) {
	if m.rules == nil || strings.TrimSpace(description) == "" {
		return "", false
	}
	return m.rules.Match(description)
}

// pattern pairs a description shape with the category it implies.
type pattern struct {
	re       *regexp.Regexp
	category string
}

// StructuralMatcher recognises description shapes that pre-empt keyword
// scanning, such as marketplace order ids and bank fee lines.
type StructuralMatcher struct {
	patterns []pattern
}

// NewStructuralMatcher returns the matcher with the built-in shapes.
func NewStructuralMatcher() *StructuralMatcher {
	return &StructuralMatcher{patterns: []pattern{
		{regexp.MustCompile(`AMZN MKTP|AMAZON MKTPL|AMAZON\.COM\*|AMZN MKTPLACE`), models.CategoryShopping},
		{regexp.MustCompile(`^TST\*|\bTOAST\b`), models.CategoryFoodDining},
		{regexp.MustCompile(`APPLE\.COM/BILL|\bITUNES\b|^GOOGLE \*|GOOGLE PLAY|^MICROSOFT\s?\*|^MSFT\s?\*`), models.CategorySubscriptions},
		{regexp.MustCompile(`\b(SERVICE|MAINTENANCE|ACCOUNT|MONTHLY|OVERDRAFT|ANNUAL|LATE) (FEE|CHARGE)\b`), models.CategoryUtilities},
		{regexp.MustCompile(`\bATM\b|\bWITHDRAWAL\b|\bCHECK\s*#|^CHECK\s+\d+|^CHK\b`), models.CategoryTransfers},
	}}
}

func (m *StructuralMatcher) Name() string { return MatcherStructural }

func (m *StructuralMatcher) TryMatch(description string, _ decimal.Decimal) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(description))
	for _, p := range m.patterns {
		if p.re.MatchString(upper) {
			return p.category, true
		}
	}
	return "", false
}

var payrollTokens = regexp.MustCompile(`\b(PAYROLL|DIRECT DEP|DIR DEP|SALARY|PAYCHECK)`)

// IncomeMatcher classifies inflows carrying payroll tokens or any Income
// keyword. It never claims outflows.
type IncomeMatcher struct {
	keywords []string
}

// NewIncomeMatcher creates an IncomeMatcher using the catalog's Income keywords.
func NewIncomeMatcher() *IncomeMatcher {
	def, _ := Lookup(models.CategoryIncome)
	return &IncomeMatcher{keywords: def.Keywords}
}

func (m *IncomeMatcher) Name() string { return MatcherIncome }

func (m *IncomeMatcher) TryMatch(description string, amount decimal.Decimal) (string, bool) {
	if !amount.IsPositive() {
		return "", false
	}
	if payrollTokens.MatchString(strings.ToUpper(description)) {
		return models.CategoryIncome, true
	}
	lower := strings.ToLower(description)
	for _, kw := range m.keywords {
		if strings.Contains(lower, kw) {
			return models.CategoryIncome, true
		}
	}
	return "", false
}

// KeywordMatcher scans the catalog in order, skipping Income. Keywords are
// matched against the raw description and against the description with its
// processor prefix removed.
type KeywordMatcher struct {
	definitions []models.CategoryDefinition
}

// NewKeywordMatcher creates a KeywordMatcher over the built-in catalog.
func NewKeywordMatcher() *KeywordMatcher {
	defs := make([]models.CategoryDefinition, 0, len(catalog))
	for _, def := range catalog {
		if def.Name != models.CategoryIncome {
			defs = append(defs, def)
		}
	}
	return &KeywordMatcher{definitions: defs}
}

func (m *KeywordMatcher) Name() string { return MatcherKeyword }

func (m *KeywordMatcher) TryMatch(description string, _ decimal.Decimal) (string, bool) {
	raw := strings.ToLower(description)
	cleaned := strings.ToLower(merchant.StripPrefix(strings.ToUpper(strings.TrimSpace(description))))

	for _, def := range m.definitions {
		for _, kw := range def.Keywords {
			if strings.Contains(raw, kw) || strings.Contains(cleaned, kw) {
				return def.Name, true
			}
		}
	}
	return "", false
}

// FallbackMatcher applies loose marketplace and point-of-sale guesses once
// keyword scanning found nothing.
type FallbackMatcher struct {
	marketplace *regexp.Regexp
	exceptions  *regexp.Regexp // Amazon-billed services that are not retail purchases
	pointOfSale *regexp.Regexp
}

// NewFallbackMatcher returns the matcher with the built-in fallbacks.
func NewFallbackMatcher() *FallbackMatcher {
	return &FallbackMatcher{
		marketplace: regexp.MustCompile(`\bAMAZON\b|\bAMZN\b`),
		exceptions:  regexp.MustCompile(`\bAWS\b|AMAZON WEB SERVICES|PRIME VIDEO|\bKINDLE\b|\bAUDIBLE\b`),
		pointOfSale: regexp.MustCompile(`^SQU?\s?\*`),
	}
}

func (m *FallbackMatcher) Name() string { return MatcherFallback }

func (m *FallbackMatcher) TryMatch(description string, _ decimal.Decimal) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(description))
	if m.marketplace.MatchString(upper) && !m.exceptions.MatchString(upper) {
		return models.CategoryShopping, true
	}
	if m.pointOfSale.MatchString(upper) {
		return models.CategoryFoodDining, true
	}
	return "", false
}
