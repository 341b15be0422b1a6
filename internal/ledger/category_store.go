package ledger

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// UsageCounter reports how many transactions embed a category.
type UsageCounter interface {
	CategoryUsage(categoryID string) int
}

// CategoryStore is the source of truth for categories.
//
// Transactions embed a copy of their category, so a category that is still
// referenced cannot be renamed, recolored, retyped or deleted. That guard is
// the only thing keeping the copies consistent with the canonical record.
type CategoryStore struct {
	usage     UsageCounter
	persist   *persister[categoriesState]
	observers observers[model.Category]
	cfg       Config
	items     []model.Category
	gen       uint64
	mu        sync.RWMutex
	persisted bool
}

// NewCategoryStore creates an empty store. Call Load to hydrate it.
func NewCategoryStore(state service.StateStore, usage UsageCounter, opts ...Option) *CategoryStore {
	cfg := newConfig(opts)
	return &CategoryStore{
		usage:   usage,
		persist: newPersister[categoriesState](state, CategoriesKey, cfg.Retry),
		cfg:     cfg,
	}
}

// Load replaces the in-memory collection with the persisted one. A missing,
// unreadable or corrupt document leaves the store empty.
func (s *CategoryStore) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	st, found, err := s.persist.load(ctx)
	if err != nil {
		slog.Warn("Failed to load categories, starting empty", "error", err)
		st = categoriesState{}
	}

	s.mu.Lock()
	s.items = slices.Clone(st.Categories)
	s.persisted = found
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("Loaded categories", "count", len(snapshot), "persisted", found)
	s.observers.notify(gen, snapshot)
	return nil
}

// SeedDefaults installs defaults when nothing has ever been persisted.
// It reports whether seeding happened.
func (s *CategoryStore) SeedDefaults(ctx context.Context, defaults []model.Category) (bool, error) {
	for _, c := range defaults {
		if err := c.Validate(); err != nil {
			return false, err
		}
	}

	s.mu.Lock()
	if s.persisted || len(s.items) > 0 || len(defaults) == 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.items = slices.Clone(defaults)
	s.persisted = true
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Info("Seeded default categories", "count", len(snapshot))
	return true, s.publish(ctx, gen, snapshot)
}

// Add inserts a category, assigning an id when none is given.
func (s *CategoryStore) Add(ctx context.Context, c model.Category) (model.Category, error) {
	if c.ID == "" {
		c.ID = s.cfg.NewID()
	}
	if err := c.Validate(); err != nil {
		return model.Category{}, err
	}

	s.mu.Lock()
	if s.indexLocked(c.ID) >= 0 {
		s.mu.Unlock()
		return model.Category{}, common.Validationf("category id %q already exists", c.ID)
	}
	s.items = append(s.items, c)
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("Added category", "id", c.ID, "name", c.Name)
	return c, s.publish(ctx, gen, snapshot)
}

// Update replaces the category with the same id. An unchanged payload is a
// no-op; a changed payload for a category in use fails with
// *common.CategoryInUseError and leaves the store untouched.
func (s *CategoryStore) Update(ctx context.Context, c model.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.indexLocked(c.ID)
	if idx < 0 {
		s.mu.Unlock()
		return common.NotFoundf("category %q", c.ID)
	}
	current := s.items[idx]
	if current.SameContent(c) {
		s.mu.Unlock()
		return nil
	}
	if err := s.guardLocked(current); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items[idx] = c
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("Updated category", "id", c.ID, "name", c.Name)
	return s.publish(ctx, gen, snapshot)
}

// Delete removes a category that no transaction references.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return common.NotFoundf("category %q", id)
	}
	if err := s.guardLocked(s.items[idx]); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("Deleted category", "id", id)
	return s.publish(ctx, gen, snapshot)
}

// UpdateOrder reorders the collection. ordered must name every current
// category exactly once; only the order is taken from it.
func (s *CategoryStore) UpdateOrder(ctx context.Context, ordered []model.Category) error {
	s.mu.Lock()
	if len(ordered) != len(s.items) {
		s.mu.Unlock()
		return common.Validationf("reorder lists %d categories, store has %d", len(ordered), len(s.items))
	}

	next := make([]model.Category, 0, len(ordered))
	seen := make(map[string]struct{}, len(ordered))
	for _, c := range ordered {
		if _, dup := seen[c.ID]; dup {
			s.mu.Unlock()
			return common.Validationf("reorder lists category %q twice", c.ID)
		}
		seen[c.ID] = struct{}{}

		idx := s.indexLocked(c.ID)
		if idx < 0 {
			s.mu.Unlock()
			return common.Validationf("reorder lists unknown category %q", c.ID)
		}
		next = append(next, s.items[idx])
	}
	s.items = next
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	return s.publish(ctx, gen, snapshot)
}

// Merge adds every category whose id is not already present and reports how
// many were added. Existing categories win on collision.
func (s *CategoryStore) Merge(ctx context.Context, categories []model.Category) (int, error) {
	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	added := 0
	for _, c := range categories {
		if s.indexLocked(c.ID) >= 0 {
			continue
		}
		s.items = append(s.items, c)
		added++
	}
	if added == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	return added, s.publish(ctx, gen, snapshot)
}

// Clear removes every category without consulting the usage guard.
func (s *CategoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	gen, snapshot := s.commitLocked()
	s.mu.Unlock()

	return s.publish(ctx, gen, snapshot)
}

// List returns the categories in display order.
func (s *CategoryStore) List() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Get returns the category with the given id.
func (s *CategoryStore) Get(id string) (model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexLocked(id); idx >= 0 {
		return s.items[idx], nil
	}
	return model.Category{}, common.NotFoundf("category %q", id)
}

// ByStatus returns the categories of one type in display order.
func (s *CategoryStore) ByStatus(status model.CategoryType) []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Category
	for _, c := range s.items {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// Subscribe registers fn to receive the collection after every change.
func (s *CategoryStore) Subscribe(fn Listener[model.Category]) (unsubscribe func()) {
	return s.observers.subscribe(fn)
}

func (s *CategoryStore) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(c model.Category) bool { return c.ID == id })
}

func (s *CategoryStore) guardLocked(c model.Category) error {
	if s.usage == nil {
		return nil
	}
	if n := s.usage.CategoryUsage(c.ID); n > 0 {
		return &common.CategoryInUseError{CategoryID: c.ID, Name: c.Name, Transactions: n}
	}
	return nil
}

func (s *CategoryStore) commitLocked() (uint64, []model.Category) {
	s.gen++
	return s.gen, slices.Clone(s.items)
}

func (s *CategoryStore) publish(ctx context.Context, gen uint64, snapshot []model.Category) error {
	s.observers.notify(gen, snapshot)
	if snapshot == nil {
		snapshot = []model.Category{}
	}
	return s.persist.flush(ctx, gen, categoriesState{Categories: snapshot})
}
