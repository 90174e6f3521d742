package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docket-cli/internal/adapters/driven/render"
	"github.com/custodia-labs/docket-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/services"
)

const testRecord = `id: "42"
title: Login fails
fields:
  - name: State
    ref: System.State
    value: Active
  - name: Description
    ref: System.Description
    type: html
    value: <p>Steps</p>
`

const testChild = `id: "43"
title: Fix cookie
`

// testEnv holds the services wired for a command test.
type testEnv struct {
	dir    string
	config *memory.ConfigStore
	cache  *fakeCache
}

// setupTestServices wires in-memory services and returns a cleanup function.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		dir:    t.TempDir(),
		config: memory.NewConfigStore(nil),
		cache:  &fakeCache{},
	}
	env.write(t, "42.yaml", testRecord)
	env.write(t, "43.yaml", testChild)

	settings := services.NewSettingsService(env.config)
	SetDependencies(Dependencies{
		Export: services.NewExportService(
			settings,
			services.NewTrackerRegistry(nil),
			nil,
			render.NewYAMLRenderer(),
			render.NewJSONRenderer(),
		),
		Settings: settings,
		Cache:    env.cache,
	})
	resetFlags()

	t.Cleanup(func() {
		SetDependencies(Dependencies{})
		resetFlags()
	})
	return env
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

func resetFlags() {
	verbose = false
	logLevel = ""
	exportTemplate, exportPrefix, exportFormat, exportTracker, exportOutput = "", "", "yaml", "", ""
	exportChildren = nil
	exportSkipHTML, exportStrict = false, false
	authToken = ""
	cacheOlderThan = 0
	versionShort = false
}

// execute runs the root command with args and returns stdout and stderr.
func execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// fakeCache is a driven.ManagedCache recording prune calls.
type fakeCache struct {
	memory.ResourceCache
	stats   domain.CacheStats
	pruned  []time.Duration
	removed int64
}

func (c *fakeCache) Stats(context.Context) (domain.CacheStats, error) {
	return c.stats, nil
}

func (c *fakeCache) Prune(_ context.Context, maxAge time.Duration) (int64, error) {
	c.pruned = append(c.pruned, maxAge)
	return c.removed, nil
}

func (c *fakeCache) Path() string {
	return "/tmp/docket/cache.db"
}
