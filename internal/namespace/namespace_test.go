package namespace

import (
	"testing"

	"github.com/docref-dev/docref/internal/config"
	"github.com/docref-dev/docref/internal/lockfile"
	"github.com/docref-dev/docref/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{Namespaces: map[string]string{"api": "src/api", "web": "src/web"}}
}

func TestAddRegistersNewNamespace(t *testing.T) {
	cfg := testConfig()

	require.NoError(t, Add(cfg, "widgets", "src/widgets/"))

	dir, ok := cfg.ResolveNamespace("widgets")
	require.True(t, ok)
	assert.Equal(t, "src/widgets", dir, "expected the directory to be normalized")
}

func TestAddRejectsExistingNamespace(t *testing.T) {
	cfg := testConfig()
	assert.Error(t, Add(cfg, "api", "src/somewhere-else"))
}

func TestRenameUpdatesConfigAndLockfileTargets(t *testing.T) {
	cfg := testConfig()
	lock := lockfile.New([]types.LockEntry{
		{Source: "docs/a.md", Target: "src/api/handler.go", Symbol: "Handle", Hash: "h1"},
		{Source: "docs/b.md", Target: "src/api", Symbol: "", Hash: "h2"},
		{Source: "docs/c.md", Target: "src/web/index.go", Symbol: "Render", Hash: "h3"},
	})

	n, err := Rename(cfg, lock, "api", "service")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "expected 2 rewritten entries")

	_, ok := cfg.Namespaces["api"]
	assert.False(t, ok, "expected old namespace key removed")

	dir, ok := cfg.ResolveNamespace("service")
	require.True(t, ok)
	assert.Equal(t, "src/api", dir)

	for _, e := range lock.Entries {
		if e.Source == "docs/c.md" {
			assert.Equal(t, "src/web/index.go", e.Target, "unrelated entry should be untouched")
		}
	}
}

func TestRenameRejectsUnknownOrExistingNamespace(t *testing.T) {
	cfg := testConfig()
	lock := lockfile.New(nil)

	_, err := Rename(cfg, lock, "ghost", "service")
	assert.Error(t, err, "expected error for unknown namespace")

	_, err = Rename(cfg, lock, "api", "web")
	assert.Error(t, err, "expected error when target namespace already exists")
}

func TestCountUnderCountsPrefixedEntries(t *testing.T) {
	cfg := testConfig()
	lock := lockfile.New([]types.LockEntry{
		{Source: "docs/a.md", Target: "src/api/handler.go", Symbol: "Handle", Hash: "h1"},
		{Source: "docs/b.md", Target: "src/web/index.go", Symbol: "Render", Hash: "h2"},
	})

	count, err := CountUnder(cfg, lock, "api")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRemoveRefusesWithoutForceWhenTracked(t *testing.T) {
	cfg := testConfig()
	lock := lockfile.New([]types.LockEntry{
		{Source: "docs/a.md", Target: "src/api/handler.go", Symbol: "Handle", Hash: "h1"},
	})

	assert.Error(t, Remove(cfg, lock, "api", false), "expected refusal without --force")
	require.NoError(t, Remove(cfg, lock, "api", true))

	_, ok := cfg.Namespaces["api"]
	assert.False(t, ok, "expected namespace removed")
}

func TestRemoveAllowsUntrackedNamespace(t *testing.T) {
	cfg := testConfig()
	lock := lockfile.New(nil)
	assert.NoError(t, Remove(cfg, lock, "web", false))
}
