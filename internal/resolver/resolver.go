// Package resolver implements the Symbol resolver of §4.4: it locates the
// byte range that belongs to a SymbolQuery inside a parsed file, on top of
// the Grammar registry's per-language declaration collectors.
package resolver

import (
	"context"
	"os"
	"sort"

	"github.com/docref-dev/docref/internal/diagnostics"
	"github.com/docref-dev/docref/internal/grammar"
	"github.com/docref-dev/docref/internal/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// Resolver resolves SymbolQueries against source files using the Grammar
// registry. It caches nothing across calls: every pipeline run re-parses,
// matching §5's restartable-stage requirement.
type Resolver struct {
	registry *grammar.Registry
}

func New(registry *grammar.Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve implements the algorithm of §4.4. absPath must already be
// canonicalized; content is the file's raw bytes (the caller owns the read
// so WholeFile hashing and resolution share one read per file).
func (r *Resolver) Resolve(absPath string, content []byte, query types.SymbolQuery) (*types.ResolvedSymbol, *types.ResolveError) {
	if query.Kind == types.QueryWholeFile {
		return &types.ResolvedSymbol{
			TargetAbsPath: absPath,
			Query:         query,
			Range:         types.ByteRange{Start: 0, End: uint32(len(content))},
			Kind:          types.KindModule,
		}, nil
	}

	profile := r.registry.ProfileForFile(absPath)
	if profile == nil {
		return nil, &types.ResolveError{Reason: types.ReasonUnsupportedLanguage, Query: query, File: absPath}
	}

	tree, err := parseTree(profile.Language, content)
	if err != nil || tree == nil {
		return nil, &types.ResolveError{Reason: types.ReasonParseFailed, Query: query, File: absPath}
	}
	defer tree.Close()

	root := tree.RootNode()
	topLevel := profile.Collector.TopLevel(root, content)

	switch query.Kind {
	case types.QueryBare:
		decl, ok := findByName(topLevel, query.Name)
		if !ok {
			return nil, &types.ResolveError{
				Reason:     types.ReasonSymbolNotFound,
				Query:      query,
				File:       absPath,
				Candidates: diagnostics.Suggest(declNames(topLevel), query.Name),
			}
		}
		return declResult(absPath, query, decl), nil

	case types.QueryScoped:
		parent, ok := findByName(topLevel, query.Parent)
		if !ok {
			return nil, &types.ResolveError{
				Reason:     types.ReasonSymbolNotFound,
				Query:      query,
				File:       absPath,
				Candidates: diagnostics.Suggest(declNames(topLevel), query.Parent),
			}
		}
		children := profile.Collector.Children(root, parent, content)
		child, ok := findByName(children, query.Child)
		if !ok {
			return nil, &types.ResolveError{
				Reason:     types.ReasonSymbolNotFound,
				Query:      query,
				File:       absPath,
				Candidates: diagnostics.Suggest(declNames(children), query.Child),
			}
		}
		return declResult(absPath, query, child), nil
	}

	return nil, &types.ResolveError{Reason: types.ReasonSymbolNotFound, Query: query, File: absPath}
}

// ResolveFile reads absPath and resolves query against it, mapping a
// missing file to FileMissing per §4.4.
func (r *Resolver) ResolveFile(absPath string, query types.SymbolQuery) (*types.ResolvedSymbol, *types.ResolveError) {
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &types.ResolveError{Reason: types.ReasonFileMissing, Query: query, File: absPath}
	}
	return r.Resolve(absPath, content, query)
}

// TopLevelNames enumerates the top-level declaration names of a parsed file,
// used by `docref resolve` (§6).
func (r *Resolver) TopLevelNames(absPath string, content []byte) ([]string, error) {
	profile := r.registry.ProfileForFile(absPath)
	if profile == nil {
		return nil, nil
	}
	tree, err := parseTree(profile.Language, content)
	if err != nil || tree == nil {
		return nil, err
	}
	defer tree.Close()
	decls := profile.Collector.TopLevel(tree.RootNode(), content)
	return declNames(decls), nil
}

// ChildNames enumerates the children of a named top-level declaration, used
// by `docref resolve <file> --parent <name>`.
func (r *Resolver) ChildNames(absPath string, content []byte, parentName string) ([]string, bool) {
	profile := r.registry.ProfileForFile(absPath)
	if profile == nil {
		return nil, false
	}
	tree, err := parseTree(profile.Language, content)
	if err != nil || tree == nil {
		return nil, false
	}
	defer tree.Close()
	root := tree.RootNode()
	topLevel := profile.Collector.TopLevel(root, content)
	parent, ok := findByName(topLevel, parentName)
	if !ok {
		return nil, false
	}
	children := profile.Collector.Children(root, parent, content)
	return declNames(children), true
}

func parseTree(lang *sitter.Language, content []byte) (*sitter.Tree, error) {
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return p.ParseCtx(context.Background(), nil, content)
}

// findByName selects the first declaration whose name equals name, per
// §4.4 step 4's "ties broken by source order" rule (decls are already in
// source order because collectors walk children left to right).
func findByName(decls []grammar.Declaration, name string) (grammar.Declaration, bool) {
	for _, d := range decls {
		if d.Name == name {
			return d, true
		}
	}
	return grammar.Declaration{}, false
}

func declNames(decls []grammar.Declaration) []string {
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.Name)
	}
	return names
}

func declResult(absPath string, query types.SymbolQuery, decl grammar.Declaration) *types.ResolvedSymbol {
	return &types.ResolvedSymbol{
		TargetAbsPath: absPath,
		Query:         query,
		Range:         types.ByteRange{Start: uint32(decl.Node.StartByte()), End: uint32(decl.Node.EndByte())},
		Kind:          kindFor(decl.Kind),
	}
}

func kindFor(kind string) types.Kind {
	switch kind {
	case "function":
		return types.KindFunction
	case "type", "struct":
		return types.KindType
	case "constant":
		return types.KindConstant
	case "variable":
		return types.KindVariable
	case "method":
		return types.KindMethod
	case "field":
		return types.KindField
	case "variant":
		return types.KindVariant
	case "member":
		return types.KindMember
	case "enum":
		return types.KindEnum
	case "interface":
		return types.KindInterface
	case "class":
		return types.KindClass
	case "module":
		return types.KindModule
	default:
		return types.KindUnknown
	}
}

// SortResults restores the deterministic §4.6 order after any parallel
// per-target-file resolution fan-out (§5).
func SortResults(entries []types.LockEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Less(entries[j]) })
}
