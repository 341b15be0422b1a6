package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/storage"
	"github.com/shopspring/decimal"
)

// envKeyReplacer maps storage.backend to LEDGER_STORAGE_BACKEND.
var envKeyReplacer = strings.NewReplacer(".", "_")

// openLedger opens the configured storage and loads the ledger from it.
func (a *app) openLedger(ctx context.Context) (*ledger.Ledger, error) {
	state, err := storage.Open(ctx, a.cfg.StorageBackend, a.cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	l := ledger.New(state, ledger.WithClock(a.now))
	if err := l.Load(ctx); err != nil {
		_ = l.Close()
		return nil, err
	}
	return l, nil
}

func closeLedger(l *ledger.Ledger) {
	if err := l.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
}

// resolveCategory finds a category by id, or failing that by
// case-insensitive name.
func resolveCategory(l *ledger.Ledger, ref string) (model.Category, error) {
	if c, err := l.Categories.Get(ref); err == nil {
		return c, nil
	}
	for _, c := range l.Categories.List() {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return model.Category{}, common.NotFoundf("category %q", ref)
}

func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, common.Validationf("date %q must look like 2006-01-02", s)
	}
	return d, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, common.Validationf("amount %q is not a number", s)
	}
	return d, nil
}
