package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func backends(t *testing.T) map[string]service.StateStore {
	t.Helper()
	file, err := NewFileStorage(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return map[string]service.StateStore{
		"sqlite": createTestStorage(t),
		"file":   file,
		"memory": NewMemoryStorage(),
	}
}

func TestStateStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(ctx, "spice-ledger/categories")
			require.ErrorIs(t, err, common.ErrNotFound)

			require.NoError(t, store.Save(ctx, "spice-ledger/categories", []byte(`{"state":{},"version":0}`)))
			got, err := store.Load(ctx, "spice-ledger/categories")
			require.NoError(t, err)
			assert.JSONEq(t, `{"state":{},"version":0}`, string(got))

			require.NoError(t, store.Save(ctx, "spice-ledger/categories", []byte(`[]`)))
			got, err = store.Load(ctx, "spice-ledger/categories")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(got))

			require.NoError(t, store.Delete(ctx, "spice-ledger/categories"))
			_, err = store.Load(ctx, "spice-ledger/categories")
			require.ErrorIs(t, err, common.ErrNotFound)

			// Deleting twice is fine.
			require.NoError(t, store.Delete(ctx, "spice-ledger/categories"))
		})
	}
}

func TestStateStore_RejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "  ", "../escape", "/abs", `win\path`} {
				err := store.Save(ctx, key, []byte("x"))
				assert.Error(t, err, "key %q", key)
			}
			//nolint:staticcheck // nil context is exactly what is under test
			_, err := store.Load(nil, "k")
			assert.ErrorIs(t, err, ErrNilContext)
		})
	}
}

func TestFileStorage_WritesAtomically(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStorage(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "spice-ledger/transactions", []byte("[1]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "spice-ledger__transactions.json", entries[0].Name())

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestMemoryStorage_CopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	data := []byte("abc")
	require.NoError(t, store.Save(ctx, "k", data))
	data[0] = 'z'

	got, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "ledger.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Save(ctx, "k", []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(ctx))

	got, err := reopened.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		check   func(t *testing.T, s service.StateStore)
		name    string
		backend string
		path    string
		wantErr bool
	}{
		{
			name:    "file backend",
			backend: "file",
			path:    t.TempDir(),
			check: func(t *testing.T, s service.StateStore) {
				t.Helper()
				assert.IsType(t, &FileStorage{}, s)
			},
		},
		{
			name:    "empty backend defaults to file",
			backend: "",
			path:    t.TempDir(),
			check: func(t *testing.T, s service.StateStore) {
				t.Helper()
				assert.IsType(t, &FileStorage{}, s)
			},
		},
		{
			name:    "sqlite directory gets a database file",
			backend: "SQLite",
			path:    t.TempDir(),
			check: func(t *testing.T, s service.StateStore) {
				t.Helper()
				sq, ok := s.(*SQLiteStorage)
				require.True(t, ok)
				assert.Equal(t, "ledger.db", filepath.Base(sq.dbPath))
			},
		},
		{
			name:    "sqlite in memory",
			backend: "sqlite",
			path:    ":memory:",
			check: func(t *testing.T, s service.StateStore) {
				t.Helper()
				require.NoError(t, s.Save(ctx, "k", []byte("v")))
			},
		},
		{
			name:    "memory",
			backend: "memory",
			check: func(t *testing.T, s service.StateStore) {
				t.Helper()
				assert.IsType(t, &MemoryStorage{}, s)
			},
		},
		{
			name:    "unknown backend",
			backend: "redis",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, tt.backend, tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			defer func() { _ = store.Close() }()
			tt.check(t, store)
		})
	}
}
