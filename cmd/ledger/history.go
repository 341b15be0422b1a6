package main

import (
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/history"
	"github.com/spf13/cobra"
)

func (a *app) historyCmd() *cobra.Command {
	var (
		search     string
		filterType string
		sortBy     string
		cats       []string
		page       int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse transactions with filters",
		Long: `Browse the transaction history. Filters combine: a transaction must match the
search text, the type, and one of the selected categories. Results are shown
newest first, one page at a time; --page N shows the first N pages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ft, err := history.ParseFilterType(filterType)
			if err != nil {
				return err
			}
			sf, err := history.ParseSortField(sortBy)
			if err != nil {
				return err
			}

			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			ids := make([]string, 0, len(cats))
			for _, ref := range cats {
				c, err := resolveCategory(l, ref)
				if err != nil {
					return err
				}
				ids = append(ids, c.ID)
			}

			state := history.NewState().
				WithSearch(search).
				WithType(ft).
				WithSortBy(sf).
				WithCategories(ids...)
			for i := 0; i < page-1; i++ {
				state = state.NextPage()
			}

			view, err := history.Apply(l.Transactions.List(), state, a.cfg.HistoryPageSize)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if view.Total == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No transactions match."))
				return nil
			}
			if err := cli.WriteTransactions(out, view.Items); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("Showing %d of %d", len(view.Items), view.Total)))
			if view.HasMore {
				fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("More available: --page %d", view.Page+1)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text to find in descriptions")
	cmd.Flags().StringVarP(&filterType, "type", "t", "all", "all, income or expense")
	cmd.Flags().StringVar(&sortBy, "sort", "date", "date, amount or updated")
	cmd.Flags().StringSliceVarP(&cats, "category", "c", nil, "category id or name (repeatable)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "number of pages to show")
	return cmd
}
