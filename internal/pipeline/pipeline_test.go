package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docref-dev/docref/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunProducesEntriesGroupedByTarget(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "math.go"), "package math\n\nfunc Add(a, b int) int { return a + b }\n\nfunc Sub(a, b int) int { return a - b }\n")

	refs := []types.Reference{
		{Source: "docs/a.md", TargetPath: "src/math.go", Query: types.Bare("Sub"), SourceLine: 2},
		{Source: "docs/a.md", TargetPath: "src/math.go", Query: types.Bare("Add"), SourceLine: 1},
	}

	p := New(root)
	results := p.Run(refs)
	require.Len(t, results, 2)
	for _, r := range results {
		require.Nil(t, r.Err)
		assert.NotEmpty(t, r.Entry.Hash)
	}
	assert.Equal(t, 1, results[0].Reference.SourceLine)
	assert.Equal(t, 2, results[1].Reference.SourceLine, "expected results ordered by source position")
}

func TestRunReportsMissingFile(t *testing.T) {
	root := t.TempDir()
	refs := []types.Reference{
		{Source: "docs/a.md", TargetPath: "src/missing.go", Query: types.Bare("Add")},
	}
	p := New(root)
	results := p.Run(refs)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Equal(t, types.ReasonFileMissing, results[0].Err.Reason)
}

func TestRunReportsBrokenNamespaceWithoutTouchingDisk(t *testing.T) {
	root := t.TempDir()
	refs := []types.Reference{
		{Source: "docs/a.md", TargetPath: "src/math.go", Query: types.Bare("Add"), BrokenNS: true},
	}
	p := New(root)
	results := p.Run(refs)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Equal(t, types.ReasonBrokenNamespace, results[0].Err.Reason)
}

func TestRunHashesWholeFileQuery(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "notes.go"), "package notes\n\n// just a file\n")
	refs := []types.Reference{
		{Source: "docs/a.md", TargetPath: "src/notes.go", Query: types.WholeFile()},
	}
	p := New(root)
	results := p.Run(refs)
	require.Len(t, results, 1)
	require.Nil(t, results[0].Err)
	assert.Equal(t, types.WholeFile().String(), results[0].Entry.Symbol)
}
