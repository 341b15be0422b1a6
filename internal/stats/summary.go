package stats

import (
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// Totals summarizes a transaction set.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal // Income - Expense
	Count   int
}

// Summarize totals income and expense over txns.
func Summarize(txns []model.Transaction) Totals {
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txns {
		switch {
		case t.IsIncome():
			totals.Income = totals.Income.Add(t.Amount)
		case t.IsExpense():
			totals.Expense = totals.Expense.Add(t.Amount)
		}
		totals.Count++
	}
	totals.Balance = totals.Income.Sub(totals.Expense)
	return totals
}
