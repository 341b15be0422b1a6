package stats

import (
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// MonthTotal is one bucket of the monthly expense series.
type MonthTotal struct {
	Month  time.Time
	Label  string // e.g. "Jan 2025"
	Amount decimal.Decimal
}

// TrendPoint is one bucket of the income/expense trend.
type TrendPoint struct {
	Month          time.Time
	Label          string
	Income         decimal.Decimal
	Expense        decimal.Decimal
	Net            decimal.Decimal // Income - Expense
	RunningBalance decimal.Decimal
}

// DayTotal is one bucket of the daily expense series.
type DayTotal struct {
	Day    time.Time
	Amount decimal.Decimal
}

// MonthlyExpenses sums expenses per calendar month of the period. Every month
// from the start month through now's month has a bucket, zero when empty.
func MonthlyExpenses(txns []model.Transaction, p Period, now time.Time) []MonthTotal {
	months := monthStarts(p.StartDate(now), now)
	out := make([]MonthTotal, len(months))
	for i, m := range months {
		out[i] = MonthTotal{Month: m, Label: m.Format(monthLabelStyle), Amount: decimal.Zero}
	}

	for _, t := range FilterPeriod(txns, p, now) {
		if !t.IsExpense() {
			continue
		}
		if i := monthIndex(months[0], t.Date); i >= 0 && i < len(out) {
			out[i].Amount = out[i].Amount.Add(t.Amount)
		}
	}
	return out
}

// Trend sums income and expense per calendar month of the period, using the
// same buckets as MonthlyExpenses.
func Trend(txns []model.Transaction, p Period, now time.Time) []TrendPoint {
	months := monthStarts(p.StartDate(now), now)
	out := make([]TrendPoint, len(months))
	for i, m := range months {
		out[i] = TrendPoint{
			Month:   m,
			Label:   m.Format(monthLabelStyle),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}

	for _, t := range FilterPeriod(txns, p, now) {
		i := monthIndex(months[0], t.Date)
		if i < 0 || i >= len(out) {
			continue
		}
		switch {
		case t.IsIncome():
			out[i].Income = out[i].Income.Add(t.Amount)
		case t.IsExpense():
			out[i].Expense = out[i].Expense.Add(t.Amount)
		}
	}

	balance := decimal.Zero
	for i := range out {
		out[i].Net = out[i].Income.Sub(out[i].Expense)
		balance = balance.Add(out[i].Net)
		out[i].RunningBalance = balance
	}
	return out
}

// DailyExpenses sums expenses per calendar day from the period start through
// today, zero-filled.
func DailyExpenses(txns []model.Transaction, p Period, now time.Time) []DayTotal {
	start := p.StartDate(now)
	var out []DayTotal
	for d := start; !d.After(now); d = d.AddDate(0, 0, 1) {
		out = append(out, DayTotal{Day: d, Amount: decimal.Zero})
	}

	for _, t := range FilterPeriod(txns, p, now) {
		if !t.IsExpense() {
			continue
		}
		y, m, d := t.Date.In(start.Location()).Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, start.Location())
		i := int(day.Sub(start).Hours()+12) / 24
		if i >= 0 && i < len(out) {
			out[i].Amount = out[i].Amount.Add(t.Amount)
		}
	}
	return out
}
