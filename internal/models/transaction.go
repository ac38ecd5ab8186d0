// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a normalized bank transaction. Negative amounts are outflows,
// positive amounts are inflows. Values are treated as immutable once parsed.
type Transaction struct {
	Date        time.Time       `json:"date" yaml:"date"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
}

// NewTransaction creates a Transaction.
func NewTransaction(date time.Time, description string, amount decimal.Decimal) Transaction {
	return Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
	}
}

// IsOutflow returns true if money left the account.
func (t Transaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}

// IsInflow returns true if money entered the account.
func (t Transaction) IsInflow() bool {
	return t.Amount.IsPositive()
}

// AbsAmount returns the unsigned amount.
func (t Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// CategorizedTransaction pairs a transaction with the category assigned to it.
type CategorizedTransaction struct {
	Transaction `yaml:",inline"`
	Category    Category `json:"category" yaml:"category"`
}

// IsCategorized returns true unless the transaction still needs review.
func (ct CategorizedTransaction) IsCategorized() bool {
	return ct.Category.Name != "" && ct.Category.Name != CategoryNeedsReview
}
