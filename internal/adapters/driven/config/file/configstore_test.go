package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDirFromEnv(t *testing.T) {
	home := filepath.Join(t.TempDir(), "docket")
	t.Setenv(HomeEnv, home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.toml"), store.Path())
	info, err := os.Stat(home)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefaultDir_Home(t *testing.T) {
	t.Setenv(HomeEnv, "")
	t.Setenv("HOME", "/tmp/someone")

	dir, err := DefaultDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/someone", ".docket"), dir)
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("render.date_layout", "2006-01-02"))
	require.NoError(t, store.Set("render.image_concurrency", 8))
	require.NoError(t, store.Set("render.sanitize", true))
	require.NoError(t, store.Set("render.strip_attributes", []string{"style", "class"}))

	assert.Equal(t, "2006-01-02", store.GetString("render.date_layout"))
	assert.Equal(t, 8, store.GetInt("render.image_concurrency"))
	assert.True(t, store.GetBool("render.sanitize"))
	assert.Equal(t, []string{"style", "class"}, store.GetStringSlice("render.strip_attributes"))

	// Wrong types and missing keys yield zero values.
	assert.Empty(t, store.GetString("render.sanitize"))
	assert.Zero(t, store.GetInt("render.date_layout"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("render.sanitize"))

	val, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("github.token", "ghp_x"))
	require.NoError(t, store.Set("render.image_concurrency", 2))
	require.NoError(t, store.Set("render.strip_attributes", []string{"style"}))
	require.NoError(t, store.Set("render.inline_images", false))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[github]")
	assert.Contains(t, string(raw), "[render]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "ghp_x", reloaded.GetString("github.token"))
	assert.Equal(t, 2, reloaded.GetInt("render.image_concurrency"))
	assert.Equal(t, []string{"style"}, reloaded.GetStringSlice("render.strip_attributes"))
	_, ok := reloaded.Get("render.inline_images")
	assert.True(t, ok)
	assert.False(t, reloaded.GetBool("render.inline_images"))
	assert.Equal(t, []string{
		"github.token",
		"render.image_concurrency",
		"render.inline_images",
		"render.strip_attributes",
	}, reloaded.Keys())
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[render]
normalize_font = true
date_layout = "02.01.2006"

[cache]
enabled = false
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.True(t, store.GetBool("render.normalize_font"))
	assert.Equal(t, "02.01.2006", store.GetString("render.date_layout"))
	_, ok := store.Get("cache.enabled")
	assert.True(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("github.token", "secret"))

	info, err := os.Stat(store.Path())

	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Load_MissingFileIsEmpty(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("a.b", "c"))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Load())

	assert.Empty(t, store.Keys())
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_Set_ConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("render", "flat"))

	err = store.Set("render.sanitize", true)

	assert.Error(t, err)
	_, ok := store.Get("render.sanitize")
	assert.False(t, ok, "failed set is rolled back")
}

func TestConfigStore_Set_WriteError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("test", "value"))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
	assert.Equal(t, "value", store.GetString("test"))
}

func TestConfigStore_Set_UnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("render.image_concurrency", n)
			_ = store.GetInt("render.image_concurrency")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("render.image_concurrency")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested, err := nestMap(map[string]any{
		"a.b.c": 1,
		"a.d":   "x",
		"e":     true,
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": 1},
			"d": "x",
		},
		"e": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b.c": 1, "a.d": "x", "e": true}, flattenMap(nested, ""))
}

func TestConfigStore_Unset(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("github.token", "ghp_x"))
	require.NoError(t, store.Set("render.sanitize", false))

	require.NoError(t, store.Unset("github.token"))
	require.NoError(t, store.Unset("github.token"), "unset of a missing key")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"render.sanitize"}, reloaded.Keys())

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ghp_x")
}

func TestConfigStore_Unset_WriteErrorRestores(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("cache.dir", "/tmp/c"))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Unset("cache.dir"))
	assert.Equal(t, "/tmp/c", store.GetString("cache.dir"))
}
