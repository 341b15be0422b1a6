package model

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
)

// CategoryType indicates whether a category is for income or expense.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
)

// ParseCategoryType validates a user supplied status literal.
func ParseCategoryType(s string) (CategoryType, error) {
	ct := CategoryType(strings.ToLower(strings.TrimSpace(s)))
	if !ct.IsValid() {
		return "", common.Validationf("category status %q must be income or expense", s)
	}
	return ct, nil
}

// IsValid reports whether the type is one of the allowed literals.
func (c CategoryType) IsValid() bool {
	return c == CategoryTypeIncome || c == CategoryTypeExpense
}

func (c CategoryType) String() string {
	return string(c)
}

// Category is a user defined label for transactions. Color and Icon are
// presentation only.
type Category struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Status CategoryType `json:"status"`
	Color  string       `json:"color"`
	Icon   string       `json:"icon"`
}

// Validate checks required fields and the status enum.
func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return common.Validationf("category: missing id")
	}
	if strings.TrimSpace(c.Name) == "" {
		return common.Validationf("category %s: missing name", c.ID)
	}
	if !c.Status.IsValid() {
		return common.Validationf("category %s: invalid status %q", c.ID, c.Status)
	}
	return nil
}

// SameContent reports whether two versions of a category carry identical
// name, status, color and icon.
func (c Category) SameContent(other Category) bool {
	return c.Name == other.Name &&
		c.Status == other.Status &&
		c.Color == other.Color &&
		c.Icon == other.Icon
}

func (c Category) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Status)
}
