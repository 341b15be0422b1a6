package main

import (
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/stats"
	"github.com/spf13/cobra"
)

func (a *app) statsCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summaries of income and expenses",
		Long: `Aggregate transactions over the current month, the last three months, or
the current year.`,
	}
	cmd.PersistentFlags().StringVar(&period, "period", string(stats.DefaultPeriod), "month, 3months or year")

	// withPeriod opens the ledger and resolves --period for a subcommand.
	withPeriod := func(run func(cmd *cobra.Command, l *ledger.Ledger, p stats.Period) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			p, err := stats.ParsePeriod(period)
			if err != nil {
				return err
			}
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)
			return run(cmd, l, p)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Income, expense and balance for the period",
		Args:  cobra.NoArgs,
		RunE: withPeriod(func(cmd *cobra.Command, l *ledger.Ledger, p stats.Period) error {
			totals := stats.Summarize(stats.FilterPeriod(l.Transactions.List(), p, a.now()))
			return cli.WriteTotals(cmd.OutOrStdout(), fmt.Sprintf("%s Summary (%s)", cli.ChartIcon, p), totals)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "monthly",
		Short: "Expenses per month",
		Args:  cobra.NoArgs,
		RunE: withPeriod(func(cmd *cobra.Command, l *ledger.Ledger, p stats.Period) error {
			return cli.WriteMonthTotals(cmd.OutOrStdout(), stats.MonthlyExpenses(l.Transactions.List(), p, a.now()))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "trend",
		Short: "Monthly income against expenses with a running balance",
		Args:  cobra.NoArgs,
		RunE: withPeriod(func(cmd *cobra.Command, l *ledger.Ledger, p stats.Period) error {
			return cli.WriteTrend(cmd.OutOrStdout(), stats.Trend(l.Transactions.List(), p, a.now()))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "breakdown",
		Short: "Share of each category in income and expenses",
		Args:  cobra.NoArgs,
		RunE: withPeriod(func(cmd *cobra.Command, l *ledger.Ledger, p stats.Period) error {
			return cli.WriteBreakdown(cmd.OutOrStdout(), stats.Breakdown(l.Transactions.List(), p, a.now()))
		}),
	})

	return cmd
}
