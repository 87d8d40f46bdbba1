package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/docref-dev/docref/internal/freshness"
	"github.com/docref-dev/docref/internal/grammar"
	"github.com/docref-dev/docref/internal/lockfile"
	"github.com/docref-dev/docref/internal/pipeline"
	"github.com/docref-dev/docref/internal/resolver"
	"github.com/docref-dev/docref/internal/scanner"
	"github.com/docref-dev/docref/internal/types"
	"github.com/spf13/cobra"
)

// RunUpdate recomputes hashes for the project's references and rewrites
// .docref.lock: by default only references that are stale, untracked, or
// newly resolvable are rewritten; --all forces every resolvable reference to
// be rewritten; --from (or a positional source argument) restricts the run
// to one markdown file; --reference re-hashes every lock entry tracked under
// an exact "target#symbol" key (one per markdown source that links to it),
// and errors if none is tracked.
func RunUpdate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	reference, err := cmd.Flags().GetString("reference")
	if err != nil {
		return fmt.Errorf("failed to read --reference flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}
	if reference != "" {
		return runUpdateSingleReference(rootPath, reference, start, asJSON)
	}

	from, err := cmd.Flags().GetString("from")
	if err != nil {
		return fmt.Errorf("failed to read --from flag: %w", err)
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to read --all flag: %w", err)
	}
	if len(args) == 1 {
		from = args[0]
	}

	cfg, lock, err := loadEnv(rootPath)
	if err != nil {
		return err
	}

	allRefs, err := scanner.Scan(rootPath, cfg)
	if err != nil {
		return fmt.Errorf("failed to scan markdown: %w", err)
	}
	refs := allRefs
	if from != "" {
		refs = filterRefsBySource(refs, from)
	}

	pl := pipeline.New(rootPath)
	entryResults := pl.Run(refs)

	progress := newReferenceProgressReporter("update", len(entryResults), asJSON)
	next := append([]types.LockEntry{}, lock.Entries...)
	updated := 0
	broken := 0
	for i, er := range entryResults {
		progress.Update(er.Reference.Source, i+1)
		if er.Err != nil {
			broken++
			continue
		}
		stored, tracked := lock.Find(er.Entry.Source, er.Entry.Target, er.Entry.Symbol)
		if tracked && stored.Hash == er.Entry.Hash && !all {
			continue
		}
		next = append(next, er.Entry)
		updated++
	}
	progress.Done(len(entryResults))

	orphaned := 0
	// --all also sweeps entries whose originating Reference the project-wide
	// scan no longer finds (§4.7); orphan detection always runs against the
	// full scan, never the --from-filtered subset.
	if all {
		orphans := orphanKeys(next, referenceKeys(allRefs))
		if len(orphans) > 0 {
			kept := make([]types.LockEntry, 0, len(next))
			for _, e := range next {
				if orphans[e.Key()] {
					orphaned++
					continue
				}
				kept = append(kept, e)
			}
			next = kept
		}
	}

	rewritten := lockfile.New(next)
	if err := rewritten.Write(rootPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", lockfile.Path(rootPath), err)
	}

	return printUpdateSummary(updateSummaryView{
		Updated:    updated,
		Broken:     broken,
		Orphaned:   orphaned,
		DurationMS: time.Since(start).Milliseconds(),
	}, asJSON)
}

// runUpdateSingleReference re-hashes the tracked lock entries whose target
// and symbol match "target#symbol", whichever markdown source produced
// them, mirroring the original implementation's dedicated
// single-entry update path (distinct from --all/--from's markdown-source
// scoping). It errors if the reference isn't tracked, rather than silently
// adding it — that's init/update's untracked-discovery job, not this one's.
func runUpdateSingleReference(rootPath, reference string, start time.Time, asJSON bool) error {
	target, symbol := splitReference(reference)

	_, lock, err := loadEnv(rootPath)
	if err != nil {
		return err
	}

	registry := grammar.NewRegistry()
	checker := freshness.NewChecker(registry, resolver.New(registry))
	result := checker.Check(types.LockEntry{Target: target, Symbol: symbol}, filepath.Join(rootPath, target))
	if result.Verdict == types.VerdictBroken {
		return fmt.Errorf("%s: %s", reference, result.Reason)
	}

	updated := 0
	for i := range lock.Entries {
		if lock.Entries[i].Target == target && lock.Entries[i].Symbol == symbol {
			lock.Entries[i].Hash = result.NewHash
			updated++
		}
	}
	if updated == 0 {
		return fmt.Errorf("%s: not tracked in %s", reference, lockfile.FileName)
	}

	if err := lock.Write(rootPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", lockfile.Path(rootPath), err)
	}
	return printUpdateSummary(updateSummaryView{
		Updated:    updated,
		DurationMS: time.Since(start).Milliseconds(),
	}, asJSON)
}

func filterRefsBySource(refs []types.Reference, source string) []types.Reference {
	var out []types.Reference
	for _, r := range refs {
		if r.Source == source {
			out = append(out, r)
		}
	}
	return out
}
