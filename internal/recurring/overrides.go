package recurring

import (
	"strings"

	"fjacquet/spendscope/internal/models"
)

// find returns the index of the item whose merchant key, display name or id
// equals name, ignoring case.
func find(items []models.RecurringTransaction, name string) int {
	name = strings.TrimSpace(name)
	for i, it := range items {
		if strings.EqualFold(it.Merchant, name) || strings.EqualFold(it.DisplayName, name) || it.ID == name {
			return i
		}
	}
	return -1
}

// SetFrequency overrides the frequency of the named item in place.
// It reports false when no item matches.
func SetFrequency(items []models.RecurringTransaction, name string, f models.Frequency) bool {
	i := find(items, name)
	if i < 0 {
		return false
	}
	items[i].SetFrequency(f)
	return true
}

// SetExcluded toggles exclusion of the named item in place.
// It reports false when no item matches.
func SetExcluded(items []models.RecurringTransaction, name string, excluded bool) bool {
	i := find(items, name)
	if i < 0 {
		return false
	}
	items[i].SetExcluded(excluded)
	return true
}
