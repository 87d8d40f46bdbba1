// Package ignore prunes the Scanner's directory walk before markdown files
// are read. It is not the include/exclude prefix filter of §4.1, which lives
// in internal/config and is evaluated per-file against already-discovered
// markdown paths; this package decides which directories the walk descends
// into in the first place.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// defaultSkipPatterns covers directories that are never markdown sources:
// VCS metadata, dependency trees, and build output across the languages
// docref's grammar registry supports. Grounded on repoguide's skipDirs, with
// entries pared down to the ones docref's own supported languages and
// projects actually produce.
var defaultSkipPatterns = []string{
	".git/",
	".hg/",
	".svn/",
	"node_modules/",
	"vendor/",
	"dist/",
	"build/",
	"target/",
	"__pycache__/",
	".venv/",
	"venv/",
}

// Matcher applies gitignore syntax with last-match-wins semantics, the same
// rules `git check-ignore` evaluates.
type Matcher struct {
	gi *gitignore.GitIgnore
}

// NewMatcher builds a matcher from docref's default skip patterns, root's
// own .gitignore if one exists, and userRules (the caller's already-anchored
// cfg.Exclude prefixes). Rules are combined in that order, so a later
// negation — in .gitignore or in cfg.Exclude — overrides an earlier default.
func NewMatcher(root string, userRules []string) *Matcher {
	lines := make([]string, 0, len(defaultSkipPatterns)+len(userRules)+4)
	lines = append(lines, defaultSkipPatterns...)
	lines = append(lines, readGitignore(root)...)
	lines = append(lines, userRules...)

	gi := gitignore.CompileIgnoreLines(lines...)
	return &Matcher{gi: gi}
}

// ShouldIgnore returns true when relPath should be pruned from the walk.
// Directory paths get a trailing slash so gitignore's dir-only patterns
// (e.g. "vendor/") only match directories, never a same-named file.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	path := filepath.ToSlash(relPath)
	path = strings.TrimPrefix(path, "./")
	if isDir && path != "" && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	if m.gi == nil || path == "" {
		return false
	}
	return m.gi.MatchesPath(path)
}

// readGitignore loads root's own .gitignore, if any, so docref respects a
// project's existing ignore rules without requiring them to be duplicated
// into .docref.yml's exclude list. Grounded on repoguide's
// git-ls-files-then-.gitignore fallback, minus the git-ls-files shortcut:
// docref has no notion of "tracked", so .gitignore is read directly whenever
// it's present rather than only as a fallback.
func readGitignore(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return strings.Split(string(data), "\n")
}
