package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docref-dev/docref/internal/grammar"
	"github.com/docref-dev/docref/internal/pipeline"
	"github.com/docref-dev/docref/internal/resolver"
	"github.com/docref-dev/docref/internal/scanner"
	"github.com/docref-dev/docref/internal/types"
	"github.com/spf13/cobra"
)

type brokenFix struct {
	ref       types.Reference
	candidate string
	// verbatim marks a fix produced by the caller-chosen-symbol mode: the
	// candidate is already a complete symbol fragment and is written as-is,
	// never run through newSymbolFragment's parent-reattachment guess.
	verbatim bool
}

// RunFix rewrites broken SymbolNotFound references to their top suggested
// candidate (§4.8). With no arguments it fixes every such reference it can;
// given <source> <symbol>, it restricts the auto-suggested rewrite to that
// one reference. --to <new_symbol> switches to the targeted mode instead:
// its single positional argument is an exact "<target>#<old_symbol>"
// reference, new_symbol is validated to resolve in target before anything
// is rewritten, and the rewrite uses exactly that symbol rather than an
// auto-suggested candidate.
func RunFix(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}
	to, err := cmd.Flags().GetString("to")
	if err != nil {
		return fmt.Errorf("failed to read --to flag: %w", err)
	}
	if to != "" {
		if len(args) != 1 {
			return fmt.Errorf("--to requires exactly one positional argument: <target>#<old_symbol>")
		}
		return runFixTargeted(rootPath, args[0], to, asJSON)
	}

	var wantSource, wantSymbol string
	if len(args) == 2 {
		wantSource, wantSymbol = args[0], args[1]
	}

	cfg, _, err := loadEnv(rootPath)
	if err != nil {
		return err
	}
	refs, err := scanner.Scan(rootPath, cfg)
	if err != nil {
		return fmt.Errorf("failed to scan markdown: %w", err)
	}

	pl := pipeline.New(rootPath)
	entryResults := pl.Run(refs)

	byFile := make(map[string][]brokenFix)
	for _, er := range entryResults {
		if er.Err == nil || er.Err.Reason != types.ReasonSymbolNotFound || len(er.Err.Candidates) == 0 {
			continue
		}
		if wantSource != "" && (er.Reference.Source != wantSource || er.Reference.Query.String() != wantSymbol) {
			continue
		}
		byFile[er.Reference.Source] = append(byFile[er.Reference.Source], brokenFix{
			ref:       er.Reference,
			candidate: er.Err.Candidates[0],
		})
	}

	applied := 0
	for source, fixes := range byFile {
		n, err := applyFixesToFile(filepath.Join(rootPath, source), fixes)
		if err != nil {
			return fmt.Errorf("failed to rewrite %s: %w", source, err)
		}
		applied += n
	}

	if asJSON {
		return printFixSummary(fixSummaryView{Applied: applied}, true)
	}
	if err := printFixSummary(fixSummaryView{Applied: applied}, false); err != nil {
		return err
	}
	if applied == 0 {
		fmt.Println("nothing to fix: no broken reference matched and had a candidate")
	}
	return nil
}

// runFixTargeted implements the caller-chosen-symbol fix mode: reference
// names an exact "<target>#<old_symbol>" pair, newSymbol is validated to
// resolve against target before any file is touched, and every markdown
// reference matching that exact pair is rewritten to newSymbol verbatim —
// never to an auto-suggested candidate.
func runFixTargeted(rootPath, reference, newSymbol string, asJSON bool) error {
	targetFile, oldSymbol := splitReference(reference)
	if oldSymbol == "" {
		fmt.Println("whole-file references don't have symbols to fix")
		return nil
	}

	cfg, _, err := loadEnv(rootPath)
	if err != nil {
		return err
	}

	absTarget := filepath.Join(rootPath, targetFile)
	content, err := os.ReadFile(absTarget)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", targetFile, err)
	}

	res := resolver.New(grammar.NewRegistry())
	if _, resolveErr := res.Resolve(absTarget, content, types.ParseSymbolQuery(newSymbol)); resolveErr != nil {
		return fmt.Errorf("new symbol %q does not resolve: %s", newSymbol, resolveErr.Error())
	}

	refs, err := scanner.Scan(rootPath, cfg)
	if err != nil {
		return fmt.Errorf("failed to scan markdown: %w", err)
	}

	byFile := make(map[string][]brokenFix)
	for _, ref := range refs {
		if ref.TargetPath != targetFile || ref.Query.String() != oldSymbol {
			continue
		}
		byFile[ref.Source] = append(byFile[ref.Source], brokenFix{ref: ref, candidate: newSymbol, verbatim: true})
	}
	if len(byFile) == 0 {
		fmt.Printf("no references to %s#%s found in markdown\n", targetFile, oldSymbol)
		return nil
	}

	applied := 0
	for source, fixes := range byFile {
		n, err := applyFixesToFile(filepath.Join(rootPath, source), fixes)
		if err != nil {
			return fmt.Errorf("failed to rewrite %s: %w", source, err)
		}
		applied += n
	}
	return printFixSummary(fixSummaryView{Applied: applied}, asJSON)
}

// applyFixesToFile replaces each fix's old "#symbol" fragment with the
// candidate's on the recorded source line, writing the file back in place.
func applyFixesToFile(absPath string, fixes []brokenFix) (int, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return 0, err
	}
	lines := strings.Split(string(data), "\n")

	applied := 0
	for _, f := range fixes {
		idx := f.ref.SourceLine - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		oldFragment := "#" + f.ref.Query.String()
		newSymbol := f.candidate
		if !f.verbatim {
			newSymbol = newSymbolFragment(f.ref.Query, f.candidate)
		}
		newFragment := "#" + newSymbol
		if !strings.Contains(lines[idx], oldFragment) {
			continue
		}
		lines[idx] = strings.Replace(lines[idx], oldFragment, newFragment, 1)
		applied++
	}
	if applied == 0 {
		return 0, nil
	}
	return applied, os.WriteFile(absPath, []byte(strings.Join(lines, "\n")), 0o644)
}

// newSymbolFragment assumes a Scoped query's missing half is the child
// (§4.4's most common SymbolNotFound case) and rebuilds "parent.candidate"
// accordingly; a Bare query is simply replaced by the candidate.
func newSymbolFragment(q types.SymbolQuery, candidate string) string {
	if q.Kind == types.QueryScoped {
		return q.Parent + "." + candidate
	}
	return candidate
}
