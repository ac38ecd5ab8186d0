package models

import "time"

// Category is the result of categorizing a transaction.
type Category struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// CategoryDefinition is an entry of the static category catalog.
// Keywords are lowercase substrings matched against descriptions.
type CategoryDefinition struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Color    string   `yaml:"color"`
}

// Category returns the display category for this definition.
func (d CategoryDefinition) Category() Category {
	return Category{Name: d.Name, Color: d.Color}
}

// LearnedCategoryRule maps a user-taught merchant pattern to a category.
// Pattern is stored trimmed and uppercase and is unique within a store.
type LearnedCategoryRule struct {
	Pattern  string    `json:"pattern" yaml:"pattern"`
	Category string    `json:"category" yaml:"category"`
	AddedAt  time.Time `json:"addedAt" yaml:"addedAt"`
}
