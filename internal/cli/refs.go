package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RunRefs lists every tracked reference whose Target is the given file,
// per §6's `refs <file#sym>` entry (the "#sym" half is ignored: every
// reference touching the file is shown).
func RunRefs(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	_, lock, err := loadEnv(rootPath)
	if err != nil {
		return err
	}

	target, _ := splitReference(toSlash(args[0]))
	entries := lock.ByTarget(target)

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	for _, e := range entries {
		fmt.Printf("%s -> %s#%s\n", e.Source, e.Target, e.Symbol)
	}
	if len(entries) == 0 {
		fmt.Printf("no tracked references to %s\n", target)
	}
	return nil
}
