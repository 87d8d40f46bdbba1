package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/docref-dev/docref/internal/diagnostics"
	"github.com/docref-dev/docref/internal/freshness"
	"github.com/docref-dev/docref/internal/types"
)

type checkResultView struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	Symbol     string   `json:"symbol"`
	Verdict    string   `json:"verdict"`
	Reason     string   `json:"reason,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}

type checkSummaryView struct {
	Fresh      int               `json:"fresh"`
	Stale      int               `json:"stale"`
	Broken     int               `json:"broken"`
	Untracked  int               `json:"untracked"`
	Orphan     int               `json:"orphan"`
	DurationMS int64             `json:"duration_ms"`
	Results    []checkResultView `json:"results,omitempty"`
}

type updateSummaryView struct {
	Updated    int   `json:"updated"`
	Broken     int   `json:"broken"`
	Orphaned   int   `json:"orphaned"`
	DurationMS int64 `json:"duration_ms"`
}

type fixSummaryView struct {
	Applied int `json:"applied"`
}

// PrintCheckResults renders a batch of CheckResults in either the terse
// human format (one line per non-fresh result, then a summary line) or the
// --json machine format, shared by `check` and `status`.
func PrintCheckResults(results []types.CheckResult, durationMS int64, asJSON bool) error {
	summary := freshness.Summarize(results)
	untracked := countUntracked(results)

	if asJSON {
		view := checkSummaryView{
			Fresh:      summary.Fresh,
			Stale:      summary.Stale,
			Broken:     summary.Broken,
			Untracked:  untracked,
			Orphan:     summary.Orphan,
			DurationMS: durationMS,
		}
		for _, r := range results {
			view.Results = append(view.Results, checkResultView{
				Source:     r.Entry.Source,
				Target:     r.Entry.Target,
				Symbol:     r.Entry.Symbol,
				Verdict:    r.Verdict.String(),
				Reason:     reasonString(r.Reason),
				Candidates: r.Candidates,
			})
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(view)
	}

	for _, r := range results {
		if r.Verdict == types.VerdictFresh {
			continue
		}
		diagnostics.RenderCheckResult(os.Stdout, r)
	}
	diagnostics.RenderSummary(os.Stdout, summary.Fresh, summary.Stale, summary.Broken, untracked, summary.Orphan)
	return nil
}

// countUntracked counts results whose Entry carries no stored hash:
// collectCheckResults only ever builds a zero-value Entry.Hash for a
// reference absent from the lockfile (every stored LockEntry carries a
// non-empty SHA-256 hex hash by construction), so this is exactly spec.md
// §4.7's "new, untracked references" informational count.
func countUntracked(results []types.CheckResult) int {
	n := 0
	for _, r := range results {
		if r.Entry.Hash == "" {
			n++
		}
	}
	return n
}

func reasonString(r types.BrokenReason) string {
	if r == types.ReasonNone {
		return ""
	}
	return r.String()
}

func printUpdateSummary(summary updateSummaryView, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}
	fmt.Printf("updated=%d broken=%d orphaned=%d duration=%dms\n", summary.Updated, summary.Broken, summary.Orphaned, summary.DurationMS)
	return nil
}

func printFixSummary(summary fixSummaryView, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}
	fmt.Printf("applied=%d\n", summary.Applied)
	return nil
}
