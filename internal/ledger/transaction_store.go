package ledger

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// RecentLimit is the number of transactions Recent returns.
const RecentLimit = 5

// TransactionStore owns the canonical transaction collection, kept sorted by
// UpdatedAt descending.
//
// Every mutator applies its change in memory, then persists. A persistence
// failure is returned wrapped in common.ErrPersistence but the in-memory
// change stays applied. Callers combining a CategoryStore check with a
// TransactionStore mutation must serialize those calls themselves.
type TransactionStore struct {
	persist   *persister[transactionsState]
	observers observers[model.Transaction]
	cfg       Config
	items     []model.Transaction
	gen       uint64
	mu        sync.RWMutex
}

// NewTransactionStore creates an empty store. Call Load to hydrate it.
func NewTransactionStore(state service.StateStore, opts ...Option) *TransactionStore {
	cfg := newConfig(opts)
	return &TransactionStore{
		persist: newPersister[transactionsState](state, TransactionsKey, cfg.Retry),
		cfg:     cfg,
	}
}

// Load replaces the in-memory collection with the persisted one, sorted by
// UpdatedAt descending. A missing, unreadable or corrupt document leaves the
// store empty.
func (s *TransactionStore) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	st, _, err := s.persist.load(ctx)
	if err != nil {
		slog.Warn("Failed to load transactions, starting empty", "error", err)
		st = transactionsState{}
	}

	items := slices.Clone(st.Transactions)
	sortByUpdated(items)

	s.mu.Lock()
	s.items = items
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("Loaded transactions", "count", len(snapshot))
	s.observers.notify(gen, snapshot)
	return nil
}

// Add inserts a transaction. Missing ids and timestamps are assigned, so a
// new record lands at the front of the collection.
func (s *TransactionStore) Add(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	now := s.cfg.Now()
	if t.ID == "" {
		t.ID = s.cfg.NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if err := t.Validate(now); err != nil {
		return model.Transaction{}, err
	}

	s.mu.Lock()
	if s.indexLocked(t.ID) >= 0 {
		s.mu.Unlock()
		return model.Transaction{}, common.Validationf("transaction id %q already exists", t.ID)
	}
	s.items = slices.Insert(s.items, 0, t)
	sortByUpdated(s.items)
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("Added transaction", "id", t.ID, "amount", t.Amount.String(), "category", t.Category.Name)
	return t, s.publish(ctx, gen, snapshot)
}

// Update replaces the transaction with the same id, keeping its CreatedAt and
// refreshing UpdatedAt.
func (s *TransactionStore) Update(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	now := s.cfg.Now()

	s.mu.Lock()
	idx := s.indexLocked(t.ID)
	if idx < 0 {
		s.mu.Unlock()
		return model.Transaction{}, common.NotFoundf("transaction %q", t.ID)
	}
	t.CreatedAt = s.items[idx].CreatedAt
	t.UpdatedAt = now
	if err := t.Validate(now); err != nil {
		s.mu.Unlock()
		return model.Transaction{}, err
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	s.items = slices.Insert(s.items, 0, t)
	sortByUpdated(s.items)
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("Updated transaction", "id", t.ID)
	return t, s.publish(ctx, gen, snapshot)
}

// Delete removes the transaction with the given id.
func (s *TransactionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return common.NotFoundf("transaction %q", id)
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("Deleted transaction", "id", id)
	return s.publish(ctx, gen, snapshot)
}

// Duplicate copies a transaction under a new id with fresh timestamps.
func (s *TransactionStore) Duplicate(ctx context.Context, id string) (model.Transaction, error) {
	now := s.cfg.Now()

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return model.Transaction{}, common.NotFoundf("transaction %q", id)
	}
	dup := s.items[idx]
	dup.ID = s.cfg.NewID()
	dup.CreatedAt = now
	dup.UpdatedAt = now
	if s.indexLocked(dup.ID) >= 0 {
		s.mu.Unlock()
		return model.Transaction{}, common.Validationf("generated id %q already exists", dup.ID)
	}
	s.items = slices.Insert(s.items, 0, dup)
	sortByUpdated(s.items)
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("Duplicated transaction", "source", id, "id", dup.ID)
	return dup, s.publish(ctx, gen, snapshot)
}

// ClearAll empties the collection.
func (s *TransactionStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Info("Cleared all transactions")
	return s.publish(ctx, gen, snapshot)
}

// Recent returns up to RecentLimit transactions, most recently updated first.
func (s *TransactionStore) Recent() []model.Transaction {
	items := s.List()
	sortByUpdated(items)
	if len(items) > RecentLimit {
		items = items[:RecentLimit]
	}
	return items
}

// List returns the collection in canonical order.
func (s *TransactionStore) List() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Len returns the number of transactions.
func (s *TransactionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns the transaction with the given id.
func (s *TransactionStore) Get(id string) (model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexLocked(id); idx >= 0 {
		return s.items[idx], nil
	}
	return model.Transaction{}, common.NotFoundf("transaction %q", id)
}

// CategoryUsage counts transactions whose embedded category has the given id.
func (s *TransactionStore) CategoryUsage(categoryID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.items {
		if t.Category.ID == categoryID {
			n++
		}
	}
	return n
}

// Subscribe registers fn to receive the collection after every change.
func (s *TransactionStore) Subscribe(fn Listener[model.Transaction]) (unsubscribe func()) {
	return s.observers.subscribe(fn)
}

func (s *TransactionStore) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(t model.Transaction) bool { return t.ID == id })
}

func (s *TransactionStore) commitLocked() (uint64, []model.Transaction) {
	s.gen++
	return s.gen, slices.Clone(s.items)
}

func (s *TransactionStore) publish(ctx context.Context, gen uint64, snapshot []model.Transaction) error {
	s.observers.notify(gen, snapshot)
	if snapshot == nil {
		snapshot = []model.Transaction{}
	}
	return s.persist.flush(ctx, gen, transactionsState{Transactions: snapshot})
}

// sortByUpdated orders by UpdatedAt descending, then CreatedAt descending,
// then id.
func sortByUpdated(items []model.Transaction) {
	slices.SortStableFunc(items, func(a, b model.Transaction) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
