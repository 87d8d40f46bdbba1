package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docref-dev/docref/internal/config"
	"github.com/docref-dev/docref/internal/lockfile"
	"github.com/docref-dev/docref/internal/pipeline"
	"github.com/docref-dev/docref/internal/scanner"
	"github.com/docref-dev/docref/internal/types"
	"github.com/spf13/cobra"
)

const defaultConfigTemplate = `include: []
exclude: []
namespaces: {}
`

// RunInit writes a starter .docref.yml if one isn't already present, then
// scans the project and writes an initial .docref.lock tracking every
// reference it could resolve.
func RunInit(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}

	configPath := filepath.Join(rootPath, config.FileName)
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		if err := os.WriteFile(configPath, []byte(defaultConfigTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", configPath, err)
		}
		fmt.Printf("Created %s\n", configPath)
	}

	cfg, err := config.Load(rootPath)
	if err != nil {
		return err
	}

	refs, err := scanner.Scan(rootPath, cfg)
	if err != nil {
		return fmt.Errorf("failed to scan markdown: %w", err)
	}

	pl := pipeline.New(rootPath)
	entryResults := pl.Run(refs)

	entries := make([]types.LockEntry, 0, len(entryResults))
	broken := 0
	for _, er := range entryResults {
		if er.Err != nil {
			broken++
			continue
		}
		entries = append(entries, er.Entry)
	}

	lock := lockfile.New(entries)
	if err := lock.Write(rootPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", lockfile.Path(rootPath), err)
	}

	fmt.Printf("Tracked %d reference(s) in %s\n", len(entries), lockfile.Path(rootPath))
	if broken > 0 {
		fmt.Printf("%d reference(s) could not be resolved; run `docref check` for details\n", broken)
	}
	return nil
}
