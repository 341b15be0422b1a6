package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/stats"
	"github.com/charmbracelet/lipgloss"
)

// Table writes aligned columns with a styled header row.
type Table struct {
	w    *tabwriter.Writer
	cols int
}

// NewTable starts a table on out with the given column headers.
func NewTable(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:    tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		cols: len(headers),
	}
	styled := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = TableHeaderStyle.Render(h)
		rules[i] = strings.Repeat("-", max(len(h), 4))
	}
	fmt.Fprintln(t.w, strings.Join(styled, "\t"))
	fmt.Fprintln(t.w, strings.Join(rules, "\t"))
	return t
}

// Row adds one row. Missing cells are left blank.
func (t *Table) Row(cells ...string) {
	for len(cells) < t.cols {
		cells = append(cells, "")
	}
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

// Flush writes the table out.
func (t *Table) Flush() error {
	return t.w.Flush()
}

// FormatAmount renders a transaction's amount with its sign, colored by type.
func FormatAmount(txn model.Transaction) string {
	s := txn.SignedAmount().StringFixed(2)
	if txn.IsIncome() {
		return IncomeStyle.Render("+" + s)
	}
	return ExpenseStyle.Render(s)
}

// CategoryLabel renders a category name in its own color.
func CategoryLabel(c model.Category) string {
	if c.Color == "" {
		return c.Name
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(c.Name)
}

// WriteCategories renders categories in their stored order.
func WriteCategories(out io.Writer, cats []model.Category) error {
	t := NewTable(out, "ID", "Name", "Type", "Color", "Icon")
	for _, c := range cats {
		t.Row(c.ID, CategoryLabel(c), c.Status.String(), c.Color, c.Icon)
	}
	return t.Flush()
}

// WriteTransactions renders transactions in the given order.
func WriteTransactions(out io.Writer, txns []model.Transaction) error {
	t := NewTable(out, "ID", "Date", "Category", "Amount", "Description")
	for _, txn := range txns {
		t.Row(txn.ID, txn.Date.Format("2006-01-02"), CategoryLabel(txn.Category), FormatAmount(txn), txn.Description)
	}
	return t.Flush()
}

// WriteTotals renders a summary block.
func WriteTotals(out io.Writer, title string, totals stats.Totals) error {
	content := fmt.Sprintf("Income:       %s\nExpense:      %s\nBalance:      %s\nTransactions: %d",
		IncomeStyle.Render(totals.Income.StringFixed(2)),
		ExpenseStyle.Render(totals.Expense.StringFixed(2)),
		totals.Balance.StringFixed(2),
		totals.Count)
	_, err := fmt.Fprintln(out, RenderBox(title, content))
	return err
}

// WriteMonthTotals renders one expense bucket per month.
func WriteMonthTotals(out io.Writer, months []stats.MonthTotal) error {
	t := NewTable(out, "Month", "Expenses")
	for _, m := range months {
		t.Row(m.Label, m.Amount.StringFixed(2))
	}
	return t.Flush()
}

// WriteTrend renders monthly income, expense and the running balance.
func WriteTrend(out io.Writer, points []stats.TrendPoint) error {
	t := NewTable(out, "Month", "Income", "Expense", "Net", "Balance")
	for _, p := range points {
		t.Row(p.Label,
			p.Income.StringFixed(2),
			p.Expense.StringFixed(2),
			p.Net.StringFixed(2),
			p.RunningBalance.StringFixed(2))
	}
	return t.Flush()
}

// WriteBreakdown renders the income and expense shares per category.
func WriteBreakdown(out io.Writer, b stats.CategoryBreakdown) error {
	sections := []struct {
		title  string
		slices []stats.CategorySlice
		total  string
	}{
		{"Income", b.Income, b.IncomeTotal.StringFixed(2)},
		{"Expenses", b.Expense, b.ExpenseTotal.StringFixed(2)},
	}
	for _, s := range sections {
		if _, err := fmt.Fprintln(out, TitleStyle.Render(fmt.Sprintf("%s %s (%s)", ChartIcon, s.title, s.total))); err != nil {
			return err
		}
		if len(s.slices) == 0 {
			if _, err := fmt.Fprintln(out, SubtleStyle.Render("  nothing in this period")); err != nil {
				return err
			}
			continue
		}
		t := NewTable(out, "Category", "Amount", "Share", "Count")
		for _, slice := range s.slices {
			name := slice.Name
			if slice.Color != "" {
				name = lipgloss.NewStyle().Foreground(lipgloss.Color(slice.Color)).Render(name)
			}
			t.Row(name, slice.Amount.StringFixed(2), fmt.Sprintf("%.2f%%", slice.Percentage), fmt.Sprintf("%d", slice.Count))
		}
		if err := t.Flush(); err != nil {
			return err
		}
	}
	return nil
}
