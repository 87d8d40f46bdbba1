// Package pipeline wires Resolver and Hasher into the operation the CLI
// layer drives after a scan: producing fresh LockEntries (or resolve errors)
// for a batch of References.
package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/docref-dev/docref/internal/grammar"
	"github.com/docref-dev/docref/internal/hasher"
	"github.com/docref-dev/docref/internal/resolver"
	"github.com/docref-dev/docref/internal/types"
)

// Pipeline bundles the core collaborators needed to turn References into
// LockEntries.
type Pipeline struct {
	Root     string
	Registry *grammar.Registry
	Resolver *resolver.Resolver
}

func New(root string) *Pipeline {
	registry := grammar.NewRegistry()
	return &Pipeline{
		Root:     root,
		Registry: registry,
		Resolver: resolver.New(registry),
	}
}

// EntryResult is the per-reference outcome of running the pipeline: either
// a LockEntry, or a resolve error to surface as a diagnostic.
type EntryResult struct {
	Reference types.Reference
	Entry     types.LockEntry
	Err       *types.ResolveError
}

// Run groups refs by target file and resolves+hashes every reference.
// Within a group the target file is read from disk once; it is parsed again
// for every reference that resolves a symbol, and the hasher re-parses the
// resolved range. The grouping enables safe per-target-file parallelism (§5); this
// implementation processes groups sequentially but keeps them independent
// so a future caller can fan them out without touching shared state.
func (p *Pipeline) Run(refs []types.Reference) []EntryResult {
	groups := make(map[string][]types.Reference)
	var order []string
	for _, ref := range refs {
		if _, ok := groups[ref.TargetPath]; !ok {
			order = append(order, ref.TargetPath)
		}
		groups[ref.TargetPath] = append(groups[ref.TargetPath], ref)
	}
	sort.Strings(order)

	var results []EntryResult
	for _, target := range order {
		results = append(results, p.runGroup(target, groups[target])...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Reference, results[j].Reference
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.SourceLine != b.SourceLine {
			return a.SourceLine < b.SourceLine
		}
		return a.SourceCol < b.SourceCol
	})
	return results
}

func (p *Pipeline) runGroup(target string, refs []types.Reference) []EntryResult {
	results := make([]EntryResult, 0, len(refs))
	absTarget := filepath.Join(p.Root, target)
	var content []byte
	var readErr error
	read := false

	for _, ref := range refs {
		if ref.BrokenNS {
			results = append(results, EntryResult{
				Reference: ref,
				Err: &types.ResolveError{Reason: types.ReasonBrokenNamespace, Query: ref.Query, File: target},
			})
			continue
		}

		if !read {
			content, readErr = os.ReadFile(absTarget)
			read = true
		}
		if readErr != nil {
			results = append(results, EntryResult{
				Reference: ref,
				Err:       &types.ResolveError{Reason: types.ReasonFileMissing, Query: ref.Query, File: target},
			})
			continue
		}

		resolved, resolveErr := p.Resolver.Resolve(absTarget, content, ref.Query)
		if resolveErr != nil {
			results = append(results, EntryResult{Reference: ref, Err: resolveErr})
			continue
		}

		profile := p.Registry.ProfileForFile(absTarget)
		var hash string
		var hashErr error
		if ref.Query.Kind == types.QueryWholeFile {
			hash, hashErr = hasher.HashWholeFile(profile, content)
		} else {
			hash, hashErr = hasher.HashRange(profile, content, resolved.Range.Start, resolved.Range.End)
		}
		if hashErr != nil {
			results = append(results, EntryResult{
				Reference: ref,
				Err:       &types.ResolveError{Reason: types.ReasonParseFailed, Query: ref.Query, File: target},
			})
			continue
		}

		results = append(results, EntryResult{
			Reference: ref,
			Entry: types.LockEntry{
				Source: ref.Source,
				Target: target,
				Symbol: ref.Query.String(),
				Hash:   hash,
			},
		})
	}

	return results
}
