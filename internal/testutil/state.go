// Package testutil provides test utilities for the ledger: state backends
// with failure injection and a fluent transaction builder.
package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/Veraticus/spice-ledger/internal/storage"
)

// ErrInjected is returned by FlakyState when a failure is armed.
var ErrInjected = errors.New("injected storage failure")

// SetupSQLiteState creates a migrated in-memory SQLite StateStore that is
// closed when the test ends.
func SetupSQLiteState(t *testing.T) service.StateStore {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SeedDocument writes raw bytes under key, failing the test on error.
func SeedDocument(t *testing.T, store service.StateStore, key string, data string) {
	t.Helper()
	if err := store.Save(context.Background(), key, []byte(data)); err != nil {
		t.Fatalf("failed to seed %q: %v", key, err)
	}
}

// FlakyState wraps a StateStore and fails operations on demand.
type FlakyState struct {
	service.StateStore
	loadErr   error
	saveErr   error
	saves     map[string]int
	failSaves int
	mu        sync.Mutex
}

// NewFlakyState wraps inner. A nil inner gets an in-memory store.
func NewFlakyState(inner service.StateStore) *FlakyState {
	if inner == nil {
		inner = storage.NewMemoryStorage()
	}
	return &FlakyState{StateStore: inner, saves: make(map[string]int)}
}

// FailLoads makes every Load return err. A nil err disarms it.
func (f *FlakyState) FailLoads(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadErr = err
}

// FailSaves makes the next n saves fail with ErrInjected. A negative n fails
// every save until FailSaves(0) is called.
func (f *FlakyState) FailSaves(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSaves = n
	f.saveErr = ErrInjected
}

// SaveCount reports how many successful saves reached key.
func (f *FlakyState) SaveCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves[key]
}

// Load implements service.StateStore.
func (f *FlakyState) Load(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	err := f.loadErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.StateStore.Load(ctx, key)
}

// Save implements service.StateStore.
func (f *FlakyState) Save(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	if f.failSaves != 0 {
		if f.failSaves > 0 {
			f.failSaves--
		}
		err := f.saveErr
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()

	if err := f.StateStore.Save(ctx, key, data); err != nil {
		return err
	}

	f.mu.Lock()
	f.saves[key]++
	f.mu.Unlock()
	return nil
}
