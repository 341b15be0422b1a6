package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// ImportPreview holds validated candidates from an import payload. Nothing
// is applied until it is confirmed, so abandoning a preview is free.
type ImportPreview struct {
	Transactions []model.Transaction
	// Categories is only filled when the payload was an export snapshot.
	Categories []model.Category
}

// ImportResult summarizes a confirmed import.
type ImportResult struct {
	Added            int
	Skipped          int
	CategoriesAdded  int
	ReplacedPrevious int
	Replace          bool
}

// PreviewImportJSON parses and validates an import payload without touching
// the store. The payload is either a JSON array of transactions or an export
// snapshot object. Malformed JSON fails with common.ErrParse; a payload of
// the wrong shape or with invalid records fails with common.ErrValidation.
func (s *TransactionStore) PreviewImportJSON(data []byte) (*ImportPreview, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", common.ErrParse)
	}
	if !json.Valid(trimmed) {
		var doc any
		err := json.Unmarshal(trimmed, &doc)
		return nil, fmt.Errorf("%w: %w", common.ErrParse, err)
	}

	preview := &ImportPreview{}
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &preview.Transactions); err != nil {
			return nil, common.Validationf("transactions: %v", err)
		}
	case '{':
		snap, err := decodeSnapshot(trimmed)
		if err != nil {
			return nil, err
		}
		preview.Transactions = snap.Transactions
		preview.Categories = snap.Categories
	default:
		return nil, common.Validationf("payload must be a transaction array or an export object")
	}

	if err := s.validatePreview(preview); err != nil {
		return nil, err
	}
	slog.Debug("Previewed import",
		"transactions", len(preview.Transactions),
		"categories", len(preview.Categories))
	return preview, nil
}

// decodeSnapshot decodes an export object. Unknown keys are rejected, and so
// is an object naming neither collection, since confirming such a preview
// with replace would wipe the store.
func decodeSnapshot(data []byte) (Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Snapshot{}, common.Validationf("snapshot: %v", err)
	}
	_, hasTxns := fields["transactions"]
	_, hasCats := fields["categories"]
	if !hasTxns && !hasCats {
		return Snapshot{}, common.Validationf("snapshot must contain transactions or categories")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return Snapshot{}, common.Validationf("snapshot: %v", err)
	}
	return snap, nil
}

// PreviewTransactions validates already decoded transactions, such as those
// read from a bank statement, for a later ConfirmImport.
func (s *TransactionStore) PreviewTransactions(txns []model.Transaction) (*ImportPreview, error) {
	preview := &ImportPreview{Transactions: slices.Clone(txns)}
	if err := s.validatePreview(preview); err != nil {
		return nil, err
	}
	return preview, nil
}

// validatePreview fills missing timestamps and checks every record.
func (s *TransactionStore) validatePreview(preview *ImportPreview) error {
	now := s.cfg.Now()
	seen := make(map[string]struct{}, len(preview.Transactions))
	for i := range preview.Transactions {
		t := &preview.Transactions[i]
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if t.UpdatedAt.IsZero() {
			t.UpdatedAt = t.CreatedAt
		}
		if err := t.Validate(now); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[t.ID]; dup {
			return common.Validationf("record %d: transaction id %q appears twice", i, t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	catSeen := make(map[string]struct{}, len(preview.Categories))
	for i, c := range preview.Categories {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("category %d: %w", i, err)
		}
		if _, dup := catSeen[c.ID]; dup {
			return common.Validationf("category %d: id %q appears twice", i, c.ID)
		}
		catSeen[c.ID] = struct{}{}
	}

	return nil
}

// ConfirmImport applies a preview. With replace the collection becomes
// exactly the previewed transactions. Otherwise previewed transactions are
// added to the existing ones, and an id that already exists keeps the
// existing record and counts as skipped.
func (s *TransactionStore) ConfirmImport(ctx context.Context, preview *ImportPreview, replace bool) (ImportResult, error) {
	if preview == nil {
		return ImportResult{}, common.Validationf("nothing to import")
	}

	result := ImportResult{Replace: replace}

	s.mu.Lock()
	if replace {
		result.ReplacedPrevious = len(s.items)
		result.Added = len(preview.Transactions)
		s.items = slices.Clone(preview.Transactions)
	} else {
		incoming := make([]model.Transaction, 0, len(preview.Transactions))
		for _, t := range preview.Transactions {
			if s.indexLocked(t.ID) >= 0 {
				result.Skipped++
				continue
			}
			incoming = append(incoming, t)
		}
		result.Added = len(incoming)
		s.items = append(incoming, s.items...)
	}
	sortByUpdated(s.items)
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Info("Imported transactions",
		"replace", replace,
		"added", result.Added,
		"skipped", result.Skipped)
	return result, s.publish(ctx, gen, snapshot)
}
