package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docref-dev/docref/internal/grammar"
	"github.com/docref-dev/docref/internal/resolver"
	"github.com/spf13/cobra"
)

// RunResolve lists the symbols docref can resolve a reference against in a
// file: top-level declarations by default, or a scoped declaration's
// children when --parent names one.
func RunResolve(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	parent, err := cmd.Flags().GetString("parent")
	if err != nil {
		return fmt.Errorf("failed to read --parent flag: %w", err)
	}

	target := args[0]
	absPath := filepath.Join(rootPath, target)
	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", target, err)
	}

	res := resolver.New(grammar.NewRegistry())

	if parent != "" {
		children, ok := res.ChildNames(absPath, content, parent)
		if !ok {
			return fmt.Errorf("%s: no top-level symbol named %q", target, parent)
		}
		fmt.Println(strings.Join(children, "\n"))
		return nil
	}

	names, err := res.TopLevelNames(absPath, content)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", target, err)
	}
	fmt.Println(strings.Join(names, "\n"))
	return nil
}
