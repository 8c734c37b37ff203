package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mapwalker/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	firstSnapshot  = `{"rooms":{"0":{"exits":[{"dir":"n","to":null}],"meta":{}}},"version":1}`
	secondSnapshot = `{"rooms":{"0":{"exits":[{"dir":"n","to":1}],"meta":{}},"1":{"exits":[{"dir":"s","to":0}],"meta":{}}},"version":1}`
)

// exerciseStore checks the load/save contract every adapter must honour
func exerciseStore(t *testing.T, store SnapshotStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, store.Save(ctx, []byte(firstSnapshot)))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, firstSnapshot, string(got))

	require.NoError(t, store.Save(ctx, []byte(secondSnapshot)))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, secondSnapshot, string(got))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)
	assert.Equal(t, 2, store.Saves())
}

func TestMemoryStoreCopiesData(t *testing.T) {
	store := NewMemoryStore()
	data := []byte(firstSnapshot)
	require.NoError(t, store.Save(context.Background(), data))
	data[0] = 'X'

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, firstSnapshot, string(got))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "graph.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, store)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "graph.json", entries[0].Name())
}

func TestFileStoreRequiresPath(t *testing.T) {
	_, err := NewFileStore("")
	require.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "mapwalker.db"), "graph")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestSQLiteStoreKeepsNamesApart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapwalker.db")
	ctx := context.Background()

	a, err := NewSQLiteStore(ctx, path, "a")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	b, err := NewSQLiteStore(ctx, path, "b")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.NoError(t, a.Save(ctx, []byte(firstSnapshot)))
	_, err = b.Load(ctx)
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	store, err := NewRedisStore(ctx, url, "test-"+t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.client.Del(ctx, store.key).Err()
		_ = store.Close()
	})
	_ = store.client.Del(ctx, store.key).Err()
	exerciseStore(t, store)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("PG_URL")
	if dsn == "" {
		t.Skip("PG_URL not set")
	}
	ctx := context.Background()
	store, err := NewPostgresStore(ctx, dsn, "test-"+t.Name())
	require.NoError(t, err)
	cleanup := func() {
		_, _ = store.pool.Exec(ctx, `DELETE FROM snapshots WHERE name = $1`, store.name)
	}
	cleanup()
	t.Cleanup(func() {
		cleanup()
		_ = store.Close()
	})
	exerciseStore(t, store)
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, core.SnapshotConfig{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open(ctx, core.SnapshotConfig{Driver: DriverFile, Path: filepath.Join(t.TempDir(), "g.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	store, err = Open(ctx, core.SnapshotConfig{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "g.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(ctx, core.SnapshotConfig{Driver: "floppy"})
	require.Error(t, err)

	_, err = Open(ctx, core.SnapshotConfig{Driver: DriverS3})
	require.Error(t, err, "bucket is required")
}
