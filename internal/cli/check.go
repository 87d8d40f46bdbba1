package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/docref-dev/docref/internal/freshness"
	"github.com/spf13/cobra"
)

// RunCheck implements `docref check`: it verifies every reference a markdown
// scan finds against .docref.lock and exits 0/1/2 per §6's exit code table
// (fresh/stale/broken), or 3 on an internal failure such as a corrupt
// lockfile or an unreadable project tree.
func RunCheck(cmd *cobra.Command, args []string) error {
	start := time.Now()
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	results, err := collectCheckResults(rootPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(3)
	}
	// Orphan detection is an update/status concern (§4.7); check's
	// pass/fail contract only ever covers fresh/stale/broken.
	results = dropOrphans(results)

	if err := PrintCheckResults(results, time.Since(start).Milliseconds(), asJSON); err != nil {
		return err
	}

	os.Exit(freshness.Summarize(results).ExitCode())
	return nil
}
