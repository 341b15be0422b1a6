package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/stats"
	"github.com/spf13/cobra"
)

type exportFlags struct {
	from           string
	to             string
	output         string
	noTransactions bool
	noCategories   bool
	noHeader       bool
}

func (f *exportFlags) options() (ledger.ExportOptions, error) {
	opts := ledger.ExportOptions{
		IncludeTransactions: !f.noTransactions,
		IncludeCategories:   !f.noCategories,
	}
	if f.from != "" {
		d, err := parseDate(f.from)
		if err != nil {
			return opts, err
		}
		opts.MinDate = &d
	}
	if f.to != "" {
		d, err := parseDate(f.to)
		if err != nil {
			return opts, err
		}
		opts.MaxDate = &d
	}
	return opts, nil
}

// writer returns stdout or the --output file.
func (f *exportFlags) writer(cmd *cobra.Command) (io.Writer, func() error, error) {
	if f.output == "" || f.output == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	file, err := os.OpenFile(f.output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", f.output, err)
	}
	return file, file.Close, nil
}

func (a *app) exportCmd() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export ledger data",
		Long: `Export transactions and categories. --from and --to select whole calendar
days, both inclusive.`,
	}
	cmd.PersistentFlags().StringVar(&flags.from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVar(&flags.to, "to", "", "last day to include (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "", "write to a file instead of stdout")

	jsonCmd := &cobra.Command{
		Use:   "json",
		Short: "Export a JSON snapshot that 'ledger import json' can read back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}

			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			w, closeFn, err := flags.writer(cmd)
			if err != nil {
				return err
			}
			if err := l.WriteExportJSON(w, opts); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}
	jsonCmd.Flags().BoolVar(&flags.noTransactions, "no-transactions", false, "leave transactions out")
	jsonCmd.Flags().BoolVar(&flags.noCategories, "no-categories", false, "leave categories out")

	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Export transactions as Date,Category,Type,Amount rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			opts.IncludeTransactions, opts.IncludeCategories = true, false

			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			w, closeFn, err := flags.writer(cmd)
			if err != nil {
				return err
			}
			if err := stats.WriteCSV(w, l.ExportData(opts).Transactions, !flags.noHeader); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}
	csvCmd.Flags().BoolVar(&flags.noHeader, "no-header", false, "omit the header row")

	cmd.AddCommand(jsonCmd, csvCmd)
	return cmd
}
