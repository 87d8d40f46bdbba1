package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docref-dev/docref/internal/config"
	"github.com/docref-dev/docref/internal/lockfile"
	"github.com/docref-dev/docref/internal/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it, grounded on the teacher's own cli_test.go helper
// of the same name.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	original := os.Stdout
	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = writer
	defer func() {
		os.Stdout = original
		_ = writer.Close()
		_ = reader.Close()
	}()

	fn()

	require.NoError(t, writer.Close())
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	return string(data)
}

func withWorkingDir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(prev)
	})
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newFixtureProject(t *testing.T) string {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "docs", "guide.md"), "[Add](../src/math.go#Add)\n")
	mustWriteFile(t, filepath.Join(root, "src", "math.go"), "package math\n\nfunc Add(a, b int) int { return a + b }\n")
	return root
}

func TestRunInitCreatesConfigAndLockfile(t *testing.T) {
	root := newFixtureProject(t)
	withWorkingDir(t, root)

	cmd := &cobra.Command{}
	require.NoError(t, RunInit(cmd, nil))

	_, err := os.Stat(filepath.Join(root, ".docref.yml"))
	require.NoError(t, err)

	lock, err := lockfile.Load(root)
	require.NoError(t, err)
	require.Len(t, lock.Entries, 1)
	assert.Equal(t, "src/math.go", lock.Entries[0].Target)
	assert.Equal(t, "Add", lock.Entries[0].Symbol)
}

func TestCollectCheckResultsClassifiesFreshAndStale(t *testing.T) {
	root := newFixtureProject(t)
	withWorkingDir(t, root)

	require.NoError(t, RunInit(&cobra.Command{}, nil))

	results, err := collectCheckResults(root)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.VerdictFresh, results[0].Verdict)

	mustWriteFile(t, filepath.Join(root, "src", "math.go"), "package math\n\nfunc Add(a, b int) int { return a - b }\n")

	results, err = collectCheckResults(root)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.VerdictStale, results[0].Verdict)
}

func TestCollectCheckResultsMarksUntrackedAsStale(t *testing.T) {
	root := newFixtureProject(t)
	withWorkingDir(t, root)

	mustWriteFile(t, filepath.Join(root, ".docref.yml"), defaultConfigTemplate)

	results, err := collectCheckResults(root)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.VerdictStale, results[0].Verdict)
	assert.Empty(t, results[0].Entry.Hash)
}

func TestRunUpdateRewritesLockfileOnlyForChangedEntries(t *testing.T) {
	root := newFixtureProject(t)
	withWorkingDir(t, root)

	require.NoError(t, RunInit(&cobra.Command{}, nil))
	before, err := lockfile.Load(root)
	require.NoError(t, err)

	cmd := newUpdateCommandForTest()
	require.NoError(t, RunUpdate(cmd, nil))

	after, err := lockfile.Load(root)
	require.NoError(t, err)
	require.Len(t, after.Entries, len(before.Entries))
	assert.Equal(t, before.Entries[0].Hash, after.Entries[0].Hash)
}

func TestCollectCheckResultsMarksDisappearedReferenceAsOrphan(t *testing.T) {
	root := newFixtureProject(t)
	withWorkingDir(t, root)

	require.NoError(t, RunInit(&cobra.Command{}, nil))

	mustWriteFile(t, filepath.Join(root, "docs", "guide.md"), "no references here anymore\n")

	results, err := collectCheckResults(root)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.VerdictOrphan, results[0].Verdict)
}

func TestRunUpdateAllRemovesOrphanedEntries(t *testing.T) {
	root := newFixtureProject(t)
	withWorkingDir(t, root)

	require.NoError(t, RunInit(&cobra.Command{}, nil))

	mustWriteFile(t, filepath.Join(root, "docs", "guide.md"), "no references here anymore\n")

	cmd := newUpdateCommandForTest()
	require.NoError(t, cmd.Flags().Set("all", "true"))
	require.NoError(t, RunUpdate(cmd, nil))

	after, err := lockfile.Load(root)
	require.NoError(t, err)
	assert.Empty(t, after.Entries)
}

func TestRunUpdateByReferenceUpdatesExactlyOneEntry(t *testing.T) {
	root := newFixtureProject(t)
	withWorkingDir(t, root)

	require.NoError(t, RunInit(&cobra.Command{}, nil))
	mustWriteFile(t, filepath.Join(root, "src", "math.go"), "package math\n\nfunc Add(a, b int) int { return a - b }\n")

	cmd := newUpdateCommandForTest()
	require.NoError(t, cmd.Flags().Set("reference", "src/math.go#Add"))
	require.NoError(t, RunUpdate(cmd, nil))

	after, err := lockfile.Load(root)
	require.NoError(t, err)
	require.Len(t, after.Entries, 1)

	results, err := collectCheckResults(root)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.VerdictFresh, results[0].Verdict)
}

func TestRunUpdateByReferenceErrorsWhenUntracked(t *testing.T) {
	root := newFixtureProject(t)
	withWorkingDir(t, root)

	mustWriteFile(t, filepath.Join(root, ".docref.yml"), defaultConfigTemplate)

	cmd := newUpdateCommandForTest()
	require.NoError(t, cmd.Flags().Set("reference", "src/math.go#Add"))
	err := RunUpdate(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not tracked")
}

func TestRunFixToRewritesExactSymbol(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "docs", "guide.md"), "[Add](../src/math.go#Add)\n")
	mustWriteFile(t, filepath.Join(root, "src", "math.go"), "package math\n\nfunc Sum(a, b int) int { return a + b }\n")
	withWorkingDir(t, root)

	mustWriteFile(t, filepath.Join(root, ".docref.yml"), defaultConfigTemplate)

	cmd := newFixCommandForTest()
	require.NoError(t, cmd.Flags().Set("to", "Sum"))
	require.NoError(t, RunFix(cmd, []string{"src/math.go#Add"}))

	data, err := os.ReadFile(filepath.Join(root, "docs", "guide.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "src/math.go#Sum")
}

func TestRunFixToErrorsWhenNewSymbolDoesNotResolve(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "docs", "guide.md"), "[Add](../src/math.go#Add)\n")
	mustWriteFile(t, filepath.Join(root, "src", "math.go"), "package math\n\nfunc Sum(a, b int) int { return a + b }\n")
	withWorkingDir(t, root)

	mustWriteFile(t, filepath.Join(root, ".docref.yml"), defaultConfigTemplate)

	cmd := newFixCommandForTest()
	require.NoError(t, cmd.Flags().Set("to", "DoesNotExist"))
	err := RunFix(cmd, []string{"src/math.go#Add"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not resolve")
}

func TestRunNamespaceAddRegistersMapping(t *testing.T) {
	root := t.TempDir()
	withWorkingDir(t, root)
	mustWriteFile(t, filepath.Join(root, ".docref.yml"), defaultConfigTemplate)

	require.NoError(t, RunNamespaceAdd(&cobra.Command{}, []string{"widgets", "src/widgets"}))

	cfg, err := config.Load(root)
	require.NoError(t, err)
	dir, ok := cfg.ResolveNamespace("widgets")
	require.True(t, ok)
	assert.Equal(t, "src/widgets", dir)
}

func TestRunInfoJSONReportsCurrentState(t *testing.T) {
	root := newFixtureProject(t)
	withWorkingDir(t, root)

	require.NoError(t, RunInit(&cobra.Command{}, nil))

	cmd := newInfoCommandForTest()
	require.NoError(t, cmd.Flags().Set("json", "true"))
	out := captureStdout(t, func() {
		require.NoError(t, RunInfo(cmd, nil))
	})

	var got infoJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.CurrentState.ConfigFound)
	assert.Equal(t, 1, got.CurrentState.LockfileEntries)
	assert.Len(t, got.ExitCodes, 4)
	assert.NotEmpty(t, got.SupportedLanguages)
	hasGo := false
	for _, lang := range got.SupportedLanguages {
		if strings.Contains(lang, ".go") {
			hasGo = true
		}
	}
	assert.True(t, hasGo)
}

// newInfoCommandForTest mirrors infoCmd's flag wiring in root.go.
func newInfoCommandForTest() *cobra.Command {
	cmd := &cobra.Command{Use: "info"}
	cmd.Flags().Bool("json", false, "")
	return cmd
}

// newUpdateCommandForTest builds a bare cobra.Command carrying the flags
// RunUpdate reads, mirroring the flag wiring in root.go without requiring a
// full command tree.
func newUpdateCommandForTest() *cobra.Command {
	cmd := &cobra.Command{Use: "update"}
	cmd.Flags().String("from", "", "")
	cmd.Flags().Bool("all", false, "")
	cmd.Flags().String("reference", "", "")
	cmd.Flags().Bool("json", false, "")
	return cmd
}

// newFixCommandForTest mirrors fixCmd's flag wiring in root.go.
func newFixCommandForTest() *cobra.Command {
	cmd := &cobra.Command{Use: "fix"}
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().String("to", "", "")
	return cmd
}
