package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// RunStatus is `check` without the exit-code contract: it always reports the
// same Fresh/Stale/Broken classification but leaves the process exit code at
// 0 unless the run itself fails.
func RunStatus(cmd *cobra.Command, args []string) error {
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

	return PrintCheckResults(results, time.Since(start).Milliseconds(), asJSON)
}
