package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open builds the configured StateStore. For the file backend path is a
// directory; for sqlite it is the database file (a directory gets ledger.db
// appended). SQLite databases are migrated before they are returned.
func Open(ctx context.Context, backend, path string) (service.StateStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile, "":
		return NewFileStorage(path)
	case BackendSQLite:
		dbPath := path
		if dbPath != ":memory:" && filepath.Ext(dbPath) == "" {
			dbPath = filepath.Join(dbPath, "ledger.db")
		}
		store, err := NewSQLiteStorage(dbPath)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return store, nil
	case BackendMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", common.ErrInvalidConfig, backend)
	}
}
