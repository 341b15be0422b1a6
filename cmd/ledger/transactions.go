package main

import (
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/spf13/cobra"
)

func (a *app) transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record and edit transactions",
	}

	cmd.AddCommand(a.addTransactionCmd())
	cmd.AddCommand(a.updateTransactionCmd())
	cmd.AddCommand(a.deleteTransactionCmd())
	cmd.AddCommand(a.duplicateTransactionCmd())
	cmd.AddCommand(a.recentTransactionsCmd())
	cmd.AddCommand(a.showTransactionCmd())

	return cmd
}

func (a *app) addTransactionCmd() *cobra.Command {
	var (
		category    string
		date        string
		description string
		image       string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a transaction",
		Long: `Record an income or expense. Amounts are always positive; the category
decides whether it is money in or out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			cat, err := resolveCategory(l, category)
			if err != nil {
				return err
			}

			txn := model.Transaction{
				Amount:      amount,
				Category:    cat,
				Description: description,
				Image:       image,
				Date:        a.now(),
			}
			if date != "" {
				if txn.Date, err = parseDate(date); err != nil {
					return err
				}
			}

			created, err := l.Transactions.Add(cmd.Context(), txn)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s %s (ID: %s)", cli.FormatAmount(created), cat.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name (required)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&description, "description", "m", "", "free text description")
	cmd.Flags().StringVar(&image, "image", "", "receipt image URI")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (a *app) updateTransactionCmd() *cobra.Command {
	var (
		amount      string
		category    string
		date        string
		description string
		image       string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			txn, err := l.Transactions.Get(args[0])
			if err != nil {
				return err
			}

			changed := false
			if flags.Changed("amount") {
				if txn.Amount, err = parseAmount(amount); err != nil {
					return err
				}
				changed = true
			}
			if flags.Changed("category") {
				if txn.Category, err = resolveCategory(l, category); err != nil {
					return err
				}
				changed = true
			}
			if flags.Changed("date") {
				if txn.Date, err = parseDate(date); err != nil {
					return err
				}
				changed = true
			}
			if flags.Changed("description") {
				txn.Description = description
				changed = true
			}
			if flags.Changed("image") {
				txn.Image = image
				changed = true
			}
			if !changed {
				return common.NewUserError("nothing to update; pass at least one field flag", common.ErrValidation)
			}

			if _, err := l.Transactions.Update(cmd.Context(), txn); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated transaction %s", txn.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category id or name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "new date as YYYY-MM-DD")
	cmd.Flags().StringVarP(&description, "description", "m", "", "new description")
	cmd.Flags().StringVar(&image, "image", "", "new receipt image URI")
	return cmd
}

func (a *app) deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			if err := l.Transactions.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted transaction %s", args[0])))
			return nil
		},
	}
}

func (a *app) duplicateTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a transaction under a new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			dup, err := l.Transactions.Duplicate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Duplicated %s as %s", args[0], dup.ID)))
			return nil
		},
	}
}

func (a *app) recentTransactionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "Show the most recently changed transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			recent := l.Transactions.Recent()
			if len(recent) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No transactions yet. Use 'ledger tx add' to record one."))
				return nil
			}
			return cli.WriteTransactions(cmd.OutOrStdout(), recent)
		},
	}
}

func (a *app) showTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			txn, err := l.Transactions.Get(args[0])
			if err != nil {
				return err
			}

			content := fmt.Sprintf("Amount:      %s\nCategory:    %s (%s)\nDate:        %s\nDescription: %s\nCreated:     %s\nUpdated:     %s",
				cli.FormatAmount(txn),
				cli.CategoryLabel(txn.Category), txn.Category.Status,
				txn.Date.Format("Jan 2, 2006"),
				txn.Description,
				txn.CreatedAt.Format("2006-01-02 15:04:05"),
				txn.UpdatedAt.Format("2006-01-02 15:04:05"))
			if txn.Image != "" {
				content += "\nImage:       " + txn.Image
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Transaction "+txn.ID, content))
			return err
		},
	}
}
