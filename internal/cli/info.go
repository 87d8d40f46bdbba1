package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/docref-dev/docref/internal/config"
	"github.com/docref-dev/docref/internal/grammar"
	"github.com/spf13/cobra"
)

// buildVersion is set once by NewRootCommand from the version cmd/docref's
// main.go was built with; RunInfo and the version command share it rather
// than each re-deriving it from the command tree.
var buildVersion = "dev"

type infoCurrentState struct {
	ConfigFound     bool `json:"config_found"`
	LockfileEntries int  `json:"lockfile_entries"`
	Namespaces      int  `json:"namespaces"`
}

type infoExitCode struct {
	Code int    `json:"code"`
	Desc string `json:"description"`
}

// exitCodeReference documents check's exit codes (spec.md §6), the same
// table --help text should stay in sync with.
var exitCodeReference = []infoExitCode{
	{0, "all references fresh"},
	{1, "stale references present, none broken"},
	{2, "broken references present"},
	{3, "internal error (parse failure, corrupt lockfile, or I/O error)"},
}

type infoJSON struct {
	Version            string           `json:"version"`
	SupportedLanguages []string         `json:"supported_languages"`
	ExitCodes          []infoExitCode   `json:"exit_codes"`
	CurrentState       infoCurrentState `json:"current_state"`
}

// RunInfo prints docref's static reference surface (§6.1): the grammars it
// ships, check's exit-code table, its version, and a summary of the current
// project's config/lockfile/namespace state.
func RunInfo(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	_, configErr := os.Stat(filepath.Join(rootPath, config.FileName))
	configFound := configErr == nil

	cfg, lock, err := loadEnv(rootPath)
	if err != nil {
		return err
	}

	info := infoJSON{
		Version:            buildVersion,
		SupportedLanguages: grammar.NewRegistry().Extensions(),
		ExitCodes:          exitCodeReference,
		CurrentState: infoCurrentState{
			ConfigFound:     configFound,
			LockfileEntries: len(lock.Entries),
			Namespaces:      len(cfg.Namespaces),
		},
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	}

	fmt.Printf("docref %s\n", info.Version)
	fmt.Println("supported languages:")
	for _, ext := range info.SupportedLanguages {
		fmt.Printf("  %s\n", ext)
	}

	fmt.Println("exit codes (check):")
	for _, e := range info.ExitCodes {
		fmt.Printf("  %d: %s\n", e.Code, e.Desc)
	}

	fmt.Println("current state:")
	fmt.Printf("  config found: %t\n", info.CurrentState.ConfigFound)
	fmt.Printf("  lockfile entries: %d\n", info.CurrentState.LockfileEntries)
	fmt.Printf("  namespaces: %d\n", info.CurrentState.Namespaces)

	fmt.Println("namespaces:")
	names := make([]string, 0, len(cfg.Namespaces))
	for name := range cfg.Namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s -> %s\n", name, cfg.Namespaces[name])
	}
	return nil
}
