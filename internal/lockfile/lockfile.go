// Package lockfile implements §4.6: the canonical on-disk TOML
// representation of tracked references, its sort-order invariant, and an
// atomic write.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/docref-dev/docref/internal/types"
	toml "github.com/pelletier/go-toml/v2"
)

const FileName = ".docref.lock"

type document struct {
	Entries []map[string]any `toml:"entries"`
}

// requiredLockKeys are the four string-valued keys §4.6 mandates on every
// entry. symbol may legitimately decode to "" (the WholeFile encoding), so
// presence, not non-emptiness, is what's checked.
var requiredLockKeys = []string{"source", "target", "symbol", "hash"}

// Lockfile is the in-memory mirror of .docref.lock.
type Lockfile struct {
	Entries []types.LockEntry
}

// New builds a Lockfile from entries, sorting and deduplicating (last write
// wins on a duplicate key) so construction always satisfies invariant 2/5.
func New(entries []types.LockEntry) *Lockfile {
	byKey := make(map[string]types.LockEntry, len(entries))
	for _, e := range entries {
		byKey[e.Key()] = e
	}
	out := make([]types.LockEntry, 0, len(byKey))
	for _, e := range byKey {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return &Lockfile{Entries: out}
}

// Path returns the lockfile's absolute path under root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads and parses the lockfile at root, enforcing the sort invariant
// and rejecting duplicate keys (§4.6 Deserialization). A missing file
// returns an empty Lockfile, not an error.
func Load(root string) (*Lockfile, error) {
	path := Path(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Lockfile{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes raw TOML bytes into a Lockfile, validating ordering and
// key-uniqueness.
func Parse(data []byte) (*Lockfile, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &types.LockfileCorruptError{Reason: fmt.Sprintf("invalid TOML: %v", err)}
	}

	entries := make([]types.LockEntry, len(doc.Entries))
	for i, raw := range doc.Entries {
		e, err := entryFromRaw(raw)
		if err != nil {
			return nil, &types.LockfileCorruptError{Reason: fmt.Sprintf("entry at index %d: %v", i, err)}
		}
		entries[i] = e
	}

	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		key := e.Key()
		if seen[key] {
			return nil, &types.LockfileCorruptError{Reason: fmt.Sprintf("duplicate entry (%s, %s, %s)", e.Source, e.Target, e.Symbol)}
		}
		seen[key] = true
		if i > 0 && !entries[i-1].Less(e) {
			return nil, &types.LockfileCorruptError{Reason: fmt.Sprintf("entries out of order at index %d", i)}
		}
	}

	return &Lockfile{Entries: entries}, nil
}

// entryFromRaw converts one decoded [[entries]] table into a LockEntry,
// rejecting a table that's missing any of the four required keys outright
// (§4.6: "missing required keys are an error"), independent of unknown keys,
// which are ignored forward-compatibly by the map decode itself.
func entryFromRaw(raw map[string]any) (types.LockEntry, error) {
	values := make(map[string]string, len(requiredLockKeys))
	for _, key := range requiredLockKeys {
		v, ok := raw[key]
		if !ok {
			return types.LockEntry{}, fmt.Errorf("missing required key %q", key)
		}
		s, ok := v.(string)
		if !ok {
			return types.LockEntry{}, fmt.Errorf("key %q must be a string", key)
		}
		values[key] = s
	}
	return types.LockEntry{
		Source: values["source"],
		Target: values["target"],
		Symbol: values["symbol"],
		Hash:   values["hash"],
	}, nil
}

// Serialize renders the Lockfile as the fixed-key-order TOML of §4.6,
// assuming Entries is already sorted (callers construct via New or Load).
func (l *Lockfile) Serialize() []byte {
	var buf []byte
	for _, e := range l.Entries {
		buf = append(buf, []byte("[[entries]]\n")...)
		buf = append(buf, []byte(fmt.Sprintf("source = %q\n", e.Source))...)
		buf = append(buf, []byte(fmt.Sprintf("target = %q\n", e.Target))...)
		buf = append(buf, []byte(fmt.Sprintf("symbol = %q\n", e.Symbol))...)
		buf = append(buf, []byte(fmt.Sprintf("hash = %q\n", e.Hash))...)
	}
	return buf
}

// Write atomically replaces the lockfile at root: write to a temp file in
// the same directory, then rename.
func (l *Lockfile) Write(root string) error {
	sort.Slice(l.Entries, func(i, j int) bool { return l.Entries[i].Less(l.Entries[j]) })

	path := Path(root)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, l.Serialize(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Find returns the entry for (source, target, symbol) if present.
func (l *Lockfile) Find(source, target, symbol string) (types.LockEntry, bool) {
	for _, e := range l.Entries {
		if e.Source == source && e.Target == target && e.Symbol == symbol {
			return e, true
		}
	}
	return types.LockEntry{}, false
}

// ByTarget returns every entry whose Target equals target, used by `docref
// refs` (§6).
func (l *Lockfile) ByTarget(target string) []types.LockEntry {
	var out []types.LockEntry
	for _, e := range l.Entries {
		if e.Target == target {
			out = append(out, e)
		}
	}
	return out
}
