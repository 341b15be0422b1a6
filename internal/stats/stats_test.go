package stats

import (
	"bytes"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/testutil"
	"github.com/Veraticus/spice-ledger/internal/testutil/categories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 20, 15, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func txn(id, amount string, name categories.CategoryName, date time.Time) model.Transaction {
	return testutil.NewTransaction(id).
		WithAmount(amount).
		WithCategory(categories.Category(name)).
		On(date).
		Build()
}

func sample() []model.Transaction {
	return []model.Transaction{
		txn("a", "50", categories.CategoryFood, now.AddDate(0, 0, -1)),
		txn("b", "25.50", categories.CategoryFood, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)),
		txn("c", "1000", categories.CategorySalary, time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)),
		txn("d", "120", categories.CategoryTransport, time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)),
		txn("e", "80", categories.CategoryFood, time.Date(2025, time.January, 31, 23, 0, 0, 0, time.UTC)),
		txn("f", "900", categories.CategorySalary, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)),
		txn("g", "70", categories.CategoryHousing, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}
}

func TestPeriod_StartDate(t *testing.T) {
	tests := []struct {
		want   time.Time
		period Period
	}{
		{period: PeriodMonth, want: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{period: PeriodQuarter, want: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{period: PeriodYear, want: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.period.String(), func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.period.StartDate(now)))
		})
	}

	// Crossing a year boundary.
	feb := time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)
	assert.True(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC).Equal(PeriodQuarter.StartDate(feb)))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("3Months")
	require.NoError(t, err)
	assert.Equal(t, PeriodQuarter, p)

	p, err = ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, p)

	_, err = ParsePeriod("decade")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestMonthlyExpenses_ZeroFilledBuckets(t *testing.T) {
	tests := []struct {
		period  Period
		buckets int
	}{
		{period: PeriodMonth, buckets: 1},
		{period: PeriodQuarter, buckets: 3},
		{period: PeriodYear, buckets: 3},
	}
	for _, tt := range tests {
		t.Run(tt.period.String(), func(t *testing.T) {
			got := MonthlyExpenses(nil, tt.period, now)
			require.Len(t, got, tt.buckets)
			for _, b := range got {
				assert.True(t, b.Amount.IsZero())
			}
		})
	}

	december := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	assert.Len(t, MonthlyExpenses(nil, PeriodYear, december), 12)
}

func TestMonthlyExpenses_Sums(t *testing.T) {
	got := MonthlyExpenses(sample(), PeriodQuarter, now)
	require.Len(t, got, 3)

	assert.Equal(t, "Jan 2025", got[0].Label)
	assert.True(t, dec("80").Equal(got[0].Amount), got[0].Amount.String())
	assert.True(t, dec("120").Equal(got[1].Amount), got[1].Amount.String())
	assert.True(t, dec("75.50").Equal(got[2].Amount), got[2].Amount.String())
}

func TestTrend(t *testing.T) {
	got := Trend(sample(), PeriodQuarter, now)
	require.Len(t, got, 3)

	assert.True(t, dec("900").Equal(got[0].Income))
	assert.True(t, dec("80").Equal(got[0].Expense))
	assert.True(t, dec("820").Equal(got[0].Net))

	assert.True(t, got[1].Income.IsZero())
	assert.True(t, dec("-120").Equal(got[1].Net))
	assert.True(t, dec("700").Equal(got[1].RunningBalance))

	assert.True(t, dec("1000").Equal(got[2].Income))
	assert.True(t, dec("75.5").Equal(got[2].Expense))
	assert.True(t, dec("1624.5").Equal(got[2].RunningBalance))
}

func TestDailyExpenses(t *testing.T) {
	got := DailyExpenses(sample(), PeriodMonth, now)
	require.Len(t, got, 20)
	assert.True(t, dec("25.50").Equal(got[0].Amount))
	assert.True(t, dec("50").Equal(got[18].Amount))
	assert.True(t, got[19].Amount.IsZero())
}

func TestBreakdown(t *testing.T) {
	extra := txn("h", "24.50", categories.CategoryTransport, now.AddDate(0, 0, -2))
	got := Breakdown(append(sample(), extra), PeriodMonth, now)

	require.Len(t, got.Income, 1)
	assert.Equal(t, "Salary", got.Income[0].Name)
	assert.InDelta(t, 100.0, got.Income[0].Percentage, 0.001)

	require.Len(t, got.Expense, 2)
	assert.Equal(t, "Food", got.Expense[0].Name)
	assert.Equal(t, categories.Category(categories.CategoryFood).Color, got.Expense[0].Color)
	assert.Equal(t, 2, got.Expense[0].Count)
	assert.True(t, dec("75.50").Equal(got.Expense[0].Amount))
	assert.InDelta(t, 75.5, got.Expense[0].Percentage, 0.001)
	assert.Equal(t, "Transport", got.Expense[1].Name)
	assert.InDelta(t, 24.5, got.Expense[1].Percentage, 0.001)
	assert.True(t, dec("100").Equal(got.ExpenseTotal))
}

func TestBreakdown_TiesOrderByName(t *testing.T) {
	txns := []model.Transaction{
		txn("1", "10", categories.CategoryTransport, now),
		txn("2", "10", categories.CategoryFood, now),
	}
	got := Breakdown(txns, PeriodMonth, now)
	require.Len(t, got.Expense, 2)
	assert.Equal(t, "Food", got.Expense[0].Name)
	assert.Empty(t, got.Income)
}

func TestSummarize(t *testing.T) {
	totals := Summarize(sample())
	assert.Equal(t, 7, totals.Count)
	assert.True(t, dec("1900").Equal(totals.Income))
	assert.True(t, dec("345.50").Equal(totals.Expense))
	assert.True(t, dec("1554.50").Equal(totals.Balance))
}

func TestWriteCSV(t *testing.T) {
	txns := sample()[:3]

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txns, true))
	assert.Equal(t, "Date,Category,Type,Amount\n"+
		"2025-03-19,Food,expense,50.00\n"+
		"2025-03-01,Food,expense,25.50\n"+
		"2025-03-05,Salary,income,1000.00\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, txns[:1], false))
	assert.Equal(t, "2025-03-19,Food,expense,50.00\n", buf.String())
}

func TestAggregationIsPure(t *testing.T) {
	txns := sample()
	first := Breakdown(txns, PeriodYear, now)
	second := Breakdown(txns, PeriodYear, now)
	assert.Equal(t, first, second)
	assert.Equal(t, "a", txns[0].ID)
}
