package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/docref-dev/docref/internal/diagnostics"
	"github.com/docref-dev/docref/internal/freshness"
	"github.com/docref-dev/docref/internal/types"
	"github.com/spf13/cobra"
)

// RunWatch polls the project at --interval and re-prints the check
// classification whenever it changes. The example pack carries no
// filesystem-notification library, so this follows the plain time.Ticker
// poll-loop shape the ambient stack's §5.1 supplement describes rather than
// reaching outside the pack for an inotify binding.
func RunWatch(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	interval, err := cmd.Flags().GetDuration("interval")
	if err != nil {
		return fmt.Errorf("failed to read --interval flag: %w", err)
	}

	fmt.Fprintf(os.Stderr, "watching %s (interval=%s); press Ctrl+C to stop\n", rootPath, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastSignature string
	for {
		results, err := collectCheckResults(rootPath)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		default:
			if signature := checkResultsSignature(results); signature != lastSignature {
				lastSignature = signature
				reportWatchTick(results)
			}
		}
		<-ticker.C
	}
}

func reportWatchTick(results []types.CheckResult) {
	summary := freshness.Summarize(results)
	fmt.Printf("[%s] fresh=%d stale=%d broken=%d orphan=%d\n", time.Now().Format(time.RFC3339), summary.Fresh, summary.Stale, summary.Broken, summary.Orphan)
	for _, r := range results {
		if r.Verdict == types.VerdictFresh {
			continue
		}
		diagnostics.RenderCheckResult(os.Stdout, r)
	}
}

func checkResultsSignature(results []types.CheckResult) string {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s|%s|%s|%s;", r.Entry.Source, r.Entry.Target, r.Entry.Symbol, r.Verdict)
	}
	return b.String()
}
