package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/docref-dev/docref/internal/types"
)

// RenderCheckResult writes one human-readable line (plus suggestion lines
// for SymbolNotFound) for a non-fresh CheckResult, in the teacher's terse
// fmt.Fprintf idiom.
func RenderCheckResult(w io.Writer, r types.CheckResult) {
	switch r.Verdict {
	case types.VerdictStale:
		fmt.Fprintf(w, "stale  %s -> %s#%s\n", r.Entry.Source, r.Entry.Target, r.Entry.Symbol)
	case types.VerdictBroken:
		fmt.Fprintf(w, "broken %s -> %s#%s (%s)\n", r.Entry.Source, r.Entry.Target, r.Entry.Symbol, r.Reason)
		if len(r.Candidates) > 0 {
			fmt.Fprintf(w, "       did you mean: %s\n", strings.Join(r.Candidates, ", "))
		}
	case types.VerdictOrphan:
		fmt.Fprintf(w, "orphan %s -> %s#%s (source no longer references this target)\n", r.Entry.Source, r.Entry.Target, r.Entry.Symbol)
	default:
		fmt.Fprintf(w, "fresh  %s -> %s#%s\n", r.Entry.Source, r.Entry.Target, r.Entry.Symbol)
	}
}

// RenderSummary prints the aggregate counts `check`/`status` report.
func RenderSummary(w io.Writer, fresh, stale, broken, untracked, orphan int) {
	fmt.Fprintf(w, "fresh=%d stale=%d broken=%d untracked=%d orphan=%d\n", fresh, stale, broken, untracked, orphan)
}
