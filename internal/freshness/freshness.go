// Package freshness implements §4.7: comparing the lockfile against live
// sources and classifying every entry as Fresh, Stale, or Broken.
package freshness

import (
	"os"

	"github.com/docref-dev/docref/internal/grammar"
	"github.com/docref-dev/docref/internal/hasher"
	"github.com/docref-dev/docref/internal/resolver"
	"github.com/docref-dev/docref/internal/types"
)

// Checker bundles the collaborators a Freshness pass needs: a grammar
// registry (for WholeFile hashing against supported languages) and a
// resolver (for symbol lookups).
type Checker struct {
	registry *grammar.Registry
	resolver *resolver.Resolver
}

func NewChecker(registry *grammar.Registry, res *resolver.Resolver) *Checker {
	return &Checker{registry: registry, resolver: res}
}

// Check classifies one LockEntry against the live source at absTarget.
func (c *Checker) Check(entry types.LockEntry, absTarget string) types.CheckResult {
	content, err := os.ReadFile(absTarget)
	if err != nil {
		return broken(entry, types.ReasonFileMissing, nil)
	}

	query := queryFromSymbol(entry.Symbol)

	resolved, resolveErr := c.resolver.Resolve(absTarget, content, query)
	if resolveErr != nil {
		return broken(entry, resolveErr.Reason, resolveErr.Candidates)
	}

	profile := c.registry.ProfileForFile(absTarget)
	var newHash string
	var hashErr error
	if query.Kind == types.QueryWholeFile {
		newHash, hashErr = hasher.HashWholeFile(profile, content)
	} else {
		newHash, hashErr = hasher.HashRange(profile, content, resolved.Range.Start, resolved.Range.End)
	}
	if hashErr != nil {
		return broken(entry, types.ReasonParseFailed, nil)
	}

	if newHash == entry.Hash {
		return types.CheckResult{Entry: entry, Verdict: types.VerdictFresh, NewHash: newHash}
	}
	return types.CheckResult{Entry: entry, Verdict: types.VerdictStale, NewHash: newHash}
}

// BrokenNamespace short-circuits the comparison when the Reference that
// produced this entry carried an unresolved namespace.
func BrokenNamespace(entry types.LockEntry) types.CheckResult {
	return broken(entry, types.ReasonBrokenNamespace, nil)
}

func broken(entry types.LockEntry, reason types.BrokenReason, candidates []string) types.CheckResult {
	return types.CheckResult{Entry: entry, Verdict: types.VerdictBroken, Reason: reason, Candidates: candidates}
}

// queryFromSymbol reverses LockEntry.Symbol's string form back into a
// SymbolQuery, matching types.SymbolQuery.String's encoding.
func queryFromSymbol(symbol string) types.SymbolQuery {
	return types.ParseSymbolQuery(symbol)
}

// Summary aggregates a batch of CheckResults into the counts `check`/
// `status` report.
type Summary struct {
	Fresh  int
	Stale  int
	Broken int
	// Orphan counts entries whose source markdown no longer contains the
	// originating Reference (§4.7). It plays no part in ExitCode: orphan
	// detection is an update/status concern, not one of check's pass/fail
	// criteria.
	Orphan int
}

func Summarize(results []types.CheckResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Verdict {
		case types.VerdictFresh:
			s.Fresh++
		case types.VerdictStale:
			s.Stale++
		case types.VerdictBroken:
			s.Broken++
		case types.VerdictOrphan:
			s.Orphan++
		}
	}
	return s
}

// ExitCode implements §6's check exit-code table.
func (s Summary) ExitCode() int {
	if s.Broken > 0 {
		return 2
	}
	if s.Stale > 0 {
		return 1
	}
	return 0
}
