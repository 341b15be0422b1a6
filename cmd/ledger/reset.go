package main

import (
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/spf13/cobra"
)

func (a *app) resetCmd() *cobra.Command {
	var (
		includeCategories bool
		force             bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all transactions",
		Long: `Delete every transaction. With --categories the categories go too, and the
defaults are not recreated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			out := cmd.OutOrStdout()
			if !force {
				what := fmt.Sprintf("Delete all %d transaction(s)", l.Transactions.Len())
				if includeCategories {
					what += fmt.Sprintf(" and %d categor(ies)", len(l.Categories.List()))
				}
				ok, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(cmd.Context(), what+"?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.FormatWarning("Reset canceled"))
					return nil
				}
			}

			if err := l.Reset(cmd.Context(), includeCategories); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess("Ledger reset"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeCategories, "categories", false, "also delete all categories")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
