package categorizer

// RuleMatcher looks up user-taught rules. store.PatternStore implements it.
type RuleMatcher interface {
	Match(description string) (string, bool)
}
