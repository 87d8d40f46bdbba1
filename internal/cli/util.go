package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docref-dev/docref/internal/config"
	"github.com/docref-dev/docref/internal/freshness"
	"github.com/docref-dev/docref/internal/grammar"
	"github.com/docref-dev/docref/internal/lockfile"
	"github.com/docref-dev/docref/internal/resolver"
	"github.com/docref-dev/docref/internal/scanner"
	"github.com/docref-dev/docref/internal/types"
	"gopkg.in/yaml.v3"
)

// splitReference splits a "target#symbol" reference string into its target
// path and symbol fragment, the inverse of SymbolQuery.String()'s encoding.
// A reference with no "#" names a whole-file target with an empty symbol.
func splitReference(ref string) (target, symbol string) {
	if idx := strings.IndexByte(ref, '#'); idx >= 0 {
		return ref[:idx], ref[idx+1:]
	}
	return ref, ""
}

func resolveWorkingDirectory() (string, error) {
	rootPath, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return rootPath, nil
}

// loadEnv reads the config and lockfile for rootPath, the pairing every
// inspect/mutate command needs before it can touch the reference pipeline.
func loadEnv(rootPath string) (*config.Config, *lockfile.Lockfile, error) {
	cfg, err := config.Load(rootPath)
	if err != nil {
		return nil, nil, err
	}
	lock, err := lockfile.Load(rootPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, lock, nil
}

func writeConfig(rootPath string, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", config.FileName, err)
	}
	path := filepath.Join(rootPath, config.FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func toSlash(path string) string {
	return filepath.ToSlash(path)
}

// collectCheckResults runs Scanner -> freshness.Checker over the project:
// every reference the current scan finds is classified Fresh/Stale/Broken
// against its lockfile entry (or a zero-hash synthetic one, for a reference
// not yet tracked), and every lockfile entry the current scan no longer
// finds is reported Orphan (§4.7). This is the shared core of `check`,
// `status`, and `watch`.
func collectCheckResults(rootPath string) ([]types.CheckResult, error) {
	cfg, lock, err := loadEnv(rootPath)
	if err != nil {
		return nil, err
	}
	refs, err := scanner.Scan(rootPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to scan markdown: %w", err)
	}

	registry := grammar.NewRegistry()
	checker := freshness.NewChecker(registry, resolver.New(registry))

	results := make([]types.CheckResult, 0, len(refs))
	for _, ref := range refs {
		entry := types.LockEntry{Source: ref.Source, Target: ref.TargetPath, Symbol: ref.Query.String()}

		if ref.BrokenNS {
			results = append(results, freshness.BrokenNamespace(entry))
			continue
		}
		if stored, tracked := lock.Find(entry.Source, entry.Target, entry.Symbol); tracked {
			entry = stored
		}
		results = append(results, checker.Check(entry, filepath.Join(rootPath, ref.TargetPath)))
	}

	for key := range orphanKeys(lock.Entries, referenceKeys(refs)) {
		for _, e := range lock.Entries {
			if e.Key() == key {
				results = append(results, types.CheckResult{Entry: e, Verdict: types.VerdictOrphan})
				break
			}
		}
	}
	return results, nil
}

// dropOrphans strips Orphan results, used by `check` since orphan detection
// is scoped to update/status by §4.7.
func dropOrphans(results []types.CheckResult) []types.CheckResult {
	out := make([]types.CheckResult, 0, len(results))
	for _, r := range results {
		if r.Verdict != types.VerdictOrphan {
			out = append(out, r)
		}
	}
	return out
}

// orphanKeys builds the set of lockfile entry keys whose originating
// Reference the current scan no longer finds, shared by collectCheckResults
// and RunUpdate's --all removal pass.
func orphanKeys(entries []types.LockEntry, currentKeys map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for _, e := range entries {
		if !currentKeys[e.Key()] {
			out[e.Key()] = true
		}
	}
	return out
}

// referenceKeys builds the (source, target, symbol) key set a batch of
// References currently resolves to, for orphan detection against the
// lockfile.
func referenceKeys(refs []types.Reference) map[string]bool {
	out := make(map[string]bool, len(refs))
	for _, ref := range refs {
		out[types.LockEntry{Source: ref.Source, Target: ref.TargetPath, Symbol: ref.Query.String()}.Key()] = true
	}
	return out
}
