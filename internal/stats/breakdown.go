package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// CategorySlice is one category's share of an income or expense total.
type CategorySlice struct {
	Name       string
	Color      string // first color seen for this name
	Amount     decimal.Decimal
	Percentage float64 // of the same type's total, rounded to 2 places
	Count      int
}

// CategoryBreakdown splits a period's totals by category name.
type CategoryBreakdown struct {
	Income       []CategorySlice
	Expense      []CategorySlice
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Breakdown groups the period's transactions by category name, separately for
// income and expense. Slices are ordered by amount descending, then name.
func Breakdown(txns []model.Transaction, p Period, now time.Time) CategoryBreakdown {
	var income, expense []model.Transaction
	for _, t := range FilterPeriod(txns, p, now) {
		switch {
		case t.IsIncome():
			income = append(income, t)
		case t.IsExpense():
			expense = append(expense, t)
		}
	}

	incomeSlices, incomeTotal := group(income)
	expenseSlices, expenseTotal := group(expense)
	return CategoryBreakdown{
		Income:       incomeSlices,
		Expense:      expenseSlices,
		IncomeTotal:  incomeTotal,
		ExpenseTotal: expenseTotal,
	}
}

func group(txns []model.Transaction) ([]CategorySlice, decimal.Decimal) {
	total := decimal.Zero
	index := make(map[string]int)
	var slicesOut []CategorySlice

	for _, t := range txns {
		total = total.Add(t.Amount)
		i, ok := index[t.Category.Name]
		if !ok {
			i = len(slicesOut)
			index[t.Category.Name] = i
			slicesOut = append(slicesOut, CategorySlice{
				Name:   t.Category.Name,
				Color:  t.Category.Color,
				Amount: decimal.Zero,
			})
		}
		slicesOut[i].Amount = slicesOut[i].Amount.Add(t.Amount)
		slicesOut[i].Count++
	}

	for i := range slicesOut {
		if total.IsPositive() {
			slicesOut[i].Percentage = slicesOut[i].Amount.Mul(hundred).Div(total).Round(2).InexactFloat64()
		}
	}

	slices.SortStableFunc(slicesOut, func(a, b CategorySlice) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return slicesOut, total
}
