package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/ofx"
	"github.com/spf13/cobra"
)

// previewRows is how many records an import preview prints.
const previewRows = 5

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from files",
	}

	cmd.AddCommand(a.importJSONCmd())
	cmd.AddCommand(a.importOFXCmd())
	return cmd
}

func (a *app) importJSONCmd() *cobra.Command {
	var (
		replace bool
		yes     bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "json <file|->",
		Short: "Import a JSON transaction array or export snapshot",
		Long: `Import transactions from JSON. The file is validated as a whole and a preview
is shown before anything changes.

By default imported transactions are added next to the existing ones and a
transaction whose id already exists is skipped. With --replace the imported
file becomes the entire transaction list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			preview, err := l.PreviewImportJSON(data)
			if err != nil {
				return err
			}
			return a.confirmAndImport(cmd, l, preview, replace, yes, dryRun)
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "replace all existing transactions")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the preview and stop")
	return cmd
}

func (a *app) importOFXCmd() *cobra.Command {
	var (
		incomeRef  string
		expenseRef string
		yes        bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "ofx <files...>",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Import transactions from OFX or QFX files exported from your bank.

Money in is filed under --income-category and money out under
--expense-category. Statement ids are kept, so importing the same statement
twice adds nothing the second time.

Examples:
  ledger import ofx ~/Downloads/checking_jan.qfx -i Salary -e Food
  ledger import ofx ~/Downloads/*.qfx -i Salary -e Food`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			income, err := resolveCategory(l, incomeRef)
			if err != nil {
				return err
			}
			expense, err := resolveCategory(l, expenseRef)
			if err != nil {
				return err
			}

			parser := ofx.NewParser()
			var entries []ofx.Entry
			seen := make(map[string]struct{})
			progress := cli.NewImportProgress(cmd.ErrOrStderr(), len(files), "Reading statements...")

			for _, path := range files {
				parsed, err := parseStatement(cmd, parser, path)
				progress.Add(1)
				if err != nil {
					slog.Error("Failed to parse OFX file", "file", path, "error", err)
					continue
				}
				added := 0
				for _, e := range parsed {
					// Overlapping statements repeat FITIDs; entries without one
					// are kept and numbered by ToTransactions.
					if e.FITID != "" {
						if _, dup := seen[e.Key()]; dup {
							continue
						}
						seen[e.Key()] = struct{}{}
					}
					entries = append(entries, e)
					added++
				}
				slog.Info("Processed file",
					"file", filepath.Base(path),
					"transactions_found", len(parsed),
					"added", added,
					"duplicates", len(parsed)-added)
			}
			progress.Finish()

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No transactions found in any file"))
				return nil
			}
			slog.Info("Statements read", "accounts", ofx.Accounts(entries), "entries", len(entries))

			txns, err := ofx.ToTransactions(entries, income, expense)
			if err != nil {
				return err
			}
			preview, err := l.PreviewTransactions(txns)
			if err != nil {
				return err
			}
			return a.confirmAndImport(cmd, l, preview, false, yes, dryRun)
		},
	}

	cmd.Flags().StringVarP(&incomeRef, "income-category", "i", "", "category for money in (required)")
	cmd.Flags().StringVarP(&expenseRef, "expense-category", "e", "", "category for money out (required)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the preview and stop")
	_ = cmd.MarkFlagRequired("income-category")
	_ = cmd.MarkFlagRequired("expense-category")
	return cmd
}

// confirmAndImport prints a preview, asks for confirmation unless yes is
// set, then applies it.
func (a *app) confirmAndImport(cmd *cobra.Command, l *ledger.Ledger, preview *ledger.ImportPreview, replace, yes, dryRun bool) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d transaction(s) and %d categor(ies) ready to import",
		len(preview.Transactions), len(preview.Categories))))
	if len(preview.Transactions) > 0 {
		if err := cli.WriteTransactions(out, preview.Transactions[:min(previewRows, len(preview.Transactions))]); err != nil {
			return err
		}
	}
	if dryRun {
		return nil
	}

	if !yes {
		question := "Add these to the ledger?"
		if replace {
			question = fmt.Sprintf("Replace all %d existing transaction(s)?", l.Transactions.Len())
		}
		ok, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(cmd.Context(), question)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, cli.FormatWarning("Import canceled; nothing changed"))
			return nil
		}
	}

	result, err := l.ConfirmImport(cmd.Context(), preview, replace)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Imported %d transaction(s)", result.Added)
	if result.Skipped > 0 {
		msg += fmt.Sprintf(", skipped %d already present", result.Skipped)
	}
	if result.Replace {
		msg += fmt.Sprintf(", replaced %d", result.ReplacedPrevious)
	}
	if result.CategoriesAdded > 0 {
		msg += fmt.Sprintf(", added %d categor(ies)", result.CategoriesAdded)
	}
	fmt.Fprintln(out, cli.FormatSuccess(msg))
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("cannot read %s", path), err)
	}
	return data, nil
}

func parseStatement(cmd *cobra.Command, parser *ofx.Parser, path string) ([]ofx.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseFile(cmd.Context(), f)
}

// expandFiles resolves glob patterns; a pattern with no match is used as a
// plain path if it exists.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", common.ErrNotFound)
	}
	return files, nil
}
