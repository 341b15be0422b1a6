package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/stats"
	"github.com/Veraticus/spice-ledger/internal/testutil"
	"github.com/Veraticus/spice-ledger/internal/testutil/categories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTransactions(t *testing.T) {
	txns := []model.Transaction{
		testutil.NewTransaction("t1").WithAmount("12.5").
			WithCategory(categories.Category(categories.CategoryFood)).
			WithDescription("Lunch").
			On(time.Date(2025, time.May, 2, 9, 0, 0, 0, time.UTC)).Build(),
		testutil.NewTransaction("t2").WithAmount("1000").
			WithCategory(categories.Category(categories.CategorySalary)).Build(),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txns))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Description")
	assert.Contains(t, lines[2], "2025-05-02")
	assert.Contains(t, lines[2], "-12.50")
	assert.Contains(t, lines[2], "Lunch")
	assert.Contains(t, lines[3], "+1000.00")
}

func TestWriteCategories(t *testing.T) {
	cats := categories.NewBuilder(t).WithFixture(categories.FixtureMinimal).Build()

	var buf bytes.Buffer
	require.NoError(t, WriteCategories(&buf, cats))
	out := buf.String()
	for _, c := range cats {
		assert.Contains(t, out, c.ID)
		assert.Contains(t, out, c.Status.String())
	}
	assert.Less(t, strings.Index(out, "Salary"), strings.Index(out, "Transport"))
}

func TestWriteBreakdown_EmptySections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBreakdown(&buf, stats.CategoryBreakdown{
		Expense: []stats.CategorySlice{{
			Name:       "Food",
			Amount:     decimal.RequireFromString("75.5"),
			Percentage: 75.5,
			Count:      2,
		}},
		ExpenseTotal: decimal.RequireFromString("100"),
	}))

	out := buf.String()
	assert.Contains(t, out, "nothing in this period")
	assert.Contains(t, out, "Expenses (100.00)")
	assert.Contains(t, out, "75.50%")
}

func TestWriteTrend(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTrend(&buf, []stats.TrendPoint{{
		Label:          "Jan 2025",
		Income:         decimal.NewFromInt(900),
		Expense:        decimal.NewFromInt(80),
		Net:            decimal.NewFromInt(820),
		RunningBalance: decimal.NewFromInt(820),
	}}))
	assert.Contains(t, buf.String(), "Jan 2025")
	assert.Contains(t, buf.String(), "820.00")
}

func TestTable_PadsShortRows(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, "A", "B", "C")
	table.Row("only")
	require.NoError(t, table.Flush())
	assert.Contains(t, buf.String(), "only")
}
