package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestNewStore_Path(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseName), store.Path())
	assert.Equal(t, store.Path(), store.ResourceCache().Path())
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.ResourceCache().Put(context.Background(), "k", &domain.Resource{Data: []byte("x")}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	var version int
	require.NoError(t, reopened.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	res, err := reopened.ResourceCache().Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), res.Data)
}

func TestNewStore_InvalidDir(t *testing.T) {
	_, err := NewStore("/dev/null/cannot/create")

	assert.Error(t, err)
}

func TestResourceCache_GetMiss(t *testing.T) {
	cache := setupTestStore(t).ResourceCache()

	_, err := cache.Get(context.Background(), "https://host/img.png")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResourceCache_PutGet(t *testing.T) {
	cache := setupTestStore(t).ResourceCache()
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "attachment:5", &domain.Resource{Data: []byte{0x89, 'P', 'N', 'G'}, Extension: "png"}))

	res, err := cache.Get(ctx, "attachment:5")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, res.Data)
	assert.Equal(t, "png", res.Extension)
}

func TestResourceCache_PutReplaces(t *testing.T) {
	cache := setupTestStore(t).ResourceCache()
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "k", &domain.Resource{Data: []byte("old"), Extension: "gif"}))
	require.NoError(t, cache.Put(ctx, "k", &domain.Resource{Data: []byte("newer"), Extension: "jpg"}))

	res, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("newer"), res.Data)
	assert.Equal(t, "jpg", res.Extension)

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CacheStats{Entries: 1, Bytes: 5}, stats)
}

func TestResourceCache_PutNil(t *testing.T) {
	cache := setupTestStore(t).ResourceCache()

	err := cache.Put(context.Background(), "k", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResourceCache_Prune(t *testing.T) {
	store := setupTestStore(t)
	cache := store.ResourceCache()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return base.Add(-48 * time.Hour) }
	require.NoError(t, cache.Put(ctx, "old", &domain.Resource{Data: []byte("a")}))
	store.now = func() time.Time { return base }
	require.NoError(t, cache.Put(ctx, "fresh", &domain.Resource{Data: []byte("b")}))

	removed, err := cache.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = cache.Get(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = cache.Get(ctx, "fresh")
	assert.NoError(t, err)

	removed, err = cache.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}
