// Package namespace implements the config/lockfile half of the namespace
// management surface described in the expanded spec's §4.10: renaming or
// removing a namespace updates the config's namespace map and rewrites the
// lockfile's canonical target keys that fall under it. Rewriting the
// markdown prose that spelled out "oldname:" stays an external-collaborator
// concern, per the core's scope boundary.
package namespace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/docref-dev/docref/internal/config"
	"github.com/docref-dev/docref/internal/lockfile"
	"github.com/docref-dev/docref/internal/pathutil"
)

// Add registers a new namespace pointing at dir, rejecting a name that's
// already taken so a typo'd `namespace add` can never silently clobber an
// existing mapping.
func Add(cfg *config.Config, name, dir string) error {
	if _, exists := cfg.ResolveNamespace(name); exists {
		return fmt.Errorf("namespace %q already exists", name)
	}
	if cfg.Namespaces == nil {
		cfg.Namespaces = map[string]string{}
	}
	cfg.Namespaces[name] = pathutil.Normalize(dir)
	return nil
}

// Rename updates cfg.Namespaces[oldName] -> cfg.Namespaces[newName] and
// rewrites every lockfile entry whose target falls under the namespace's
// directory to the new directory, returning the number of rewritten
// entries.
func Rename(cfg *config.Config, lock *lockfile.Lockfile, oldName, newName string) (int, error) {
	oldDir, ok := cfg.ResolveNamespace(oldName)
	if !ok {
		return 0, fmt.Errorf("namespace %q not found", oldName)
	}
	if _, exists := cfg.ResolveNamespace(newName); exists {
		return 0, fmt.Errorf("namespace %q already exists", newName)
	}

	delete(cfg.Namespaces, oldName)
	cfg.Namespaces[newName] = oldDir

	oldBase := strings.TrimSuffix(oldDir, "/")
	newBase := strings.TrimSuffix(newDirFor(newName, cfg), "/")
	prefix := oldBase + "/"

	rewritten := 0
	for i, e := range lock.Entries {
		switch {
		case e.Target == oldBase:
			lock.Entries[i].Target = newBase
			rewritten++
		case strings.HasPrefix(e.Target, prefix):
			lock.Entries[i].Target = newBase + "/" + strings.TrimPrefix(e.Target, prefix)
			rewritten++
		}
	}
	sort.Slice(lock.Entries, func(i, j int) bool { return lock.Entries[i].Less(lock.Entries[j]) })
	return rewritten, nil
}

func newDirFor(newName string, cfg *config.Config) string {
	dir, _ := cfg.ResolveNamespace(newName)
	return dir
}

// CountUnder reports how many lockfile entries' targets fall under a
// namespace's directory, used by Remove to refuse a non-forced removal
// that would orphan tracked entries.
func CountUnder(cfg *config.Config, lock *lockfile.Lockfile, name string) (int, error) {
	dir, ok := cfg.ResolveNamespace(name)
	if !ok {
		return 0, fmt.Errorf("namespace %q not found", name)
	}
	prefix := strings.TrimSuffix(dir, "/") + "/"
	count := 0
	for _, e := range lock.Entries {
		if strings.HasPrefix(e.Target, prefix) || e.Target == strings.TrimSuffix(dir, "/") {
			count++
		}
	}
	return count, nil
}

// Remove deletes a namespace from cfg. It refuses when CountUnder is
// nonzero unless force is set.
func Remove(cfg *config.Config, lock *lockfile.Lockfile, name string, force bool) error {
	count, err := CountUnder(cfg, lock, name)
	if err != nil {
		return err
	}
	if count > 0 && !force {
		return fmt.Errorf("namespace %q still has %d tracked reference(s); use --force to remove anyway", name, count)
	}
	delete(cfg.Namespaces, name)
	return nil
}
