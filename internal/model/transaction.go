// Package model holds the ledger's value types.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense entry.
//
// Category is a snapshot copied at assignment time, not a reference. The
// category store refuses edits to categories that are still referenced so the
// copies cannot drift from the canonical record.
type Transaction struct {
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Amount      decimal.Decimal `json:"amount"` // magnitude; sign comes from Category.Status
	Category    Category        `json:"category"`
	ID          string          `json:"id"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
}

// Validate checks the transaction invariants against the given clock reading.
func (t Transaction) Validate(now time.Time) error {
	if strings.TrimSpace(t.ID) == "" {
		return common.Validationf("transaction: missing id")
	}
	if t.Amount.IsNegative() {
		return common.Validationf("transaction %s: amount %s is negative", t.ID, t.Amount)
	}
	if t.Date.IsZero() {
		return common.Validationf("transaction %s: missing date", t.ID)
	}
	if t.Date.After(now) {
		return common.Validationf("transaction %s: date %s is in the future", t.ID, t.Date.Format(time.DateOnly))
	}
	if err := t.Category.Validate(); err != nil {
		return fmt.Errorf("transaction %s: %w", t.ID, err)
	}
	return nil
}

// IsIncome reports whether the embedded category is an income category.
func (t Transaction) IsIncome() bool {
	return t.Category.Status == CategoryTypeIncome
}

// IsExpense reports whether the embedded category is an expense category.
func (t Transaction) IsExpense() bool {
	return t.Category.Status == CategoryTypeExpense
}

// SignedAmount returns the amount with the sign implied by the category.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Neg()
	}
	return t.Amount
}
