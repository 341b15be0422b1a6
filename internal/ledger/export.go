package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// ExportOptions selects what ExportData includes. The date bounds are
// calendar days, inclusive, and only filter transactions.
type ExportOptions struct {
	MinDate             *time.Time
	MaxDate             *time.Time
	IncludeTransactions bool
	IncludeCategories   bool
}

// Snapshot is the export document. It is also accepted by import.
type Snapshot struct {
	Transactions []model.Transaction `json:"transactions,omitempty"`
	Categories   []model.Category    `json:"categories,omitempty"`
}

// MarshalJSON writes every non-nil collection, so an included but empty
// collection still round-trips through import.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	type document struct {
		Transactions *[]model.Transaction `json:"transactions,omitempty"`
		Categories   *[]model.Category    `json:"categories,omitempty"`
	}
	var doc document
	if s.Transactions != nil {
		doc.Transactions = &s.Transactions
	}
	if s.Categories != nil {
		doc.Categories = &s.Categories
	}
	return json.Marshal(doc)
}

// dateRange turns the optional bounds into an inclusive range covering the
// whole first and last day.
func (o ExportOptions) dateRange() service.DateRange {
	r := service.DateRange{
		Start: time.Time{},
		End:   time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	if o.MinDate != nil {
		y, m, d := o.MinDate.Date()
		r.Start = time.Date(y, m, d, 0, 0, 0, 0, o.MinDate.Location())
	}
	if o.MaxDate != nil {
		y, m, d := o.MaxDate.Date()
		r.End = time.Date(y, m, d+1, 0, 0, 0, 0, o.MaxDate.Location()).Add(-time.Nanosecond)
	}
	return r
}

// ExportData builds a snapshot from the current state.
func (l *Ledger) ExportData(opts ExportOptions) Snapshot {
	var snap Snapshot
	if opts.IncludeTransactions {
		snap.Transactions = []model.Transaction{}
		r := opts.dateRange()
		for _, t := range l.Transactions.List() {
			if r.Contains(t.Date) {
				snap.Transactions = append(snap.Transactions, t)
			}
		}
	}
	if opts.IncludeCategories {
		snap.Categories = append([]model.Category{}, l.Categories.List()...)
	}
	return snap
}

// WriteExportJSON writes the snapshot as indented JSON.
func (l *Ledger) WriteExportJSON(w io.Writer, opts ExportOptions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l.ExportData(opts)); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
