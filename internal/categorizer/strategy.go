package categorizer

import "github.com/shopspring/decimal"

// Matcher is one stage of the categorization cascade.
type Matcher interface {
	// TryMatch returns the category name and true if this stage claims the
	// transaction.
	TryMatch(description string, amount decimal.Decimal) (string, bool)

	// Name returns the name of this matcher for logging and explanations.
	Name() string
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc struct {
	Label string
	Fn    func(description string, amount decimal.Decimal) (string, bool)
}

func (m MatcherFunc) Name() string { return m.Label }

func (m MatcherFunc) TryMatch(description string, amount decimal.Decimal) (string, bool) {
	return m.Fn(description, amount)
}
