package storage

import (
	"context"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/common"
)

// MemoryStorage is a process-local StateStore.
type MemoryStorage struct {
	docs map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryStorage returns an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{docs: make(map[string][]byte)}
}

// Load returns a copy of the stored document.
func (m *MemoryStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateRequest(ctx, key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.docs[key]
	if !ok {
		return nil, common.NotFoundf("state key %q", key)
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of data.
func (m *MemoryStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := validateRequest(ctx, key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes key.
func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	if err := validateRequest(ctx, key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

// Close is a no-op.
func (m *MemoryStorage) Close() error {
	return nil
}
