package cli

import (
	"fmt"
	"sort"

	"github.com/docref-dev/docref/internal/lockfile"
	"github.com/docref-dev/docref/internal/namespace"
	"github.com/spf13/cobra"
)

// RunNamespaceAdd registers a new namespace -> directory mapping in
// .docref.yml.
func RunNamespaceAdd(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	cfg, _, err := loadEnv(rootPath)
	if err != nil {
		return err
	}

	if err := namespace.Add(cfg, args[0], args[1]); err != nil {
		return err
	}
	if err := writeConfig(rootPath, cfg); err != nil {
		return err
	}

	fmt.Printf("added namespace %q -> %q\n", args[0], args[1])
	return nil
}

// RunNamespaceList prints the current project's configured namespace map.
func RunNamespaceList(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	cfg, _, err := loadEnv(rootPath)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Namespaces))
	for name := range cfg.Namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s -> %s\n", name, cfg.Namespaces[name])
	}
	return nil
}

// RunNamespaceRename renames a namespace in .docref.yml and rewrites every
// lockfile target that fell under it (§4.10).
func RunNamespaceRename(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	cfg, lock, err := loadEnv(rootPath)
	if err != nil {
		return err
	}

	rewritten, err := namespace.Rename(cfg, lock, args[0], args[1])
	if err != nil {
		return err
	}
	if err := writeConfig(rootPath, cfg); err != nil {
		return err
	}
	if err := lock.Write(rootPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", lockfile.Path(rootPath), err)
	}

	fmt.Printf("renamed namespace %q to %q; rewrote %d tracked reference(s)\n", args[0], args[1], rewritten)
	return nil
}

// RunNamespaceRemove deletes a namespace from .docref.yml, refusing when
// tracked references still resolve through it unless --force is given.
func RunNamespaceRemove(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to read --force flag: %w", err)
	}
	cfg, lock, err := loadEnv(rootPath)
	if err != nil {
		return err
	}

	if err := namespace.Remove(cfg, lock, args[0], force); err != nil {
		return err
	}
	if err := writeConfig(rootPath, cfg); err != nil {
		return err
	}

	fmt.Printf("removed namespace %q\n", args[0])
	return nil
}
