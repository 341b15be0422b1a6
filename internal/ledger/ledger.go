package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"golang.org/x/sync/errgroup"
)

// Ledger wires a CategoryStore and a TransactionStore to one StateStore.
// Construct it once per process and pass it to consumers.
type Ledger struct {
	Categories   *CategoryStore
	Transactions *TransactionStore
	state        service.StateStore
	cfg          Config
}

// New builds both stores. The category store's in-use guard counts usage in
// the transaction store.
func New(state service.StateStore, opts ...Option) *Ledger {
	txns := NewTransactionStore(state, opts...)
	return &Ledger{
		Categories:   NewCategoryStore(state, txns, opts...),
		Transactions: txns,
		state:        state,
		cfg:          newConfig(opts),
	}
}

// Load hydrates both stores concurrently, then seeds default categories on
// first run when seeding is enabled.
func (l *Ledger) Load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.Categories.Load(gctx) })
	g.Go(func() error { return l.Transactions.Load(gctx) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	if l.cfg.SeedDefaults {
		if _, err := l.Categories.SeedDefaults(ctx, l.cfg.DefaultCategories); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
	}
	return nil
}

// PreviewImportJSON validates an import payload. See TransactionStore.PreviewImportJSON.
func (l *Ledger) PreviewImportJSON(data []byte) (*ImportPreview, error) {
	return l.Transactions.PreviewImportJSON(data)
}

// PreviewTransactions validates decoded transactions for import.
func (l *Ledger) PreviewTransactions(txns []model.Transaction) (*ImportPreview, error) {
	return l.Transactions.PreviewTransactions(txns)
}

// ConfirmImport applies a preview to the transaction store and merges any
// categories it carries, keeping existing categories on id collision.
// Persistence failures from either store are joined; the in-memory changes
// stay applied.
func (l *Ledger) ConfirmImport(ctx context.Context, preview *ImportPreview, replace bool) (ImportResult, error) {
	result, txErr := l.Transactions.ConfirmImport(ctx, preview, replace)
	if txErr != nil && !errors.Is(txErr, common.ErrPersistence) {
		return result, txErr
	}

	added, catErr := l.Categories.Merge(ctx, preview.Categories)
	result.CategoriesAdded = added
	return result, errors.Join(txErr, catErr)
}

// Reset empties the transaction store and, if asked, the category store.
func (l *Ledger) Reset(ctx context.Context, includeCategories bool) error {
	err := l.Transactions.ClearAll(ctx)
	if includeCategories {
		err = errors.Join(err, l.Categories.Clear(ctx))
	}
	if err == nil {
		slog.Info("Reset ledger", "categories", includeCategories)
	}
	return err
}

// Close releases the underlying StateStore.
func (l *Ledger) Close() error {
	return l.state.Close()
}
