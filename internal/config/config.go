// Package config loads .docref.yml, the external configuration document
// consumed by the core as immutable input (§6). Loading is YAML-backed, the
// same library the rest of the example pack reaches for.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docref-dev/docref/internal/pathutil"
	"gopkg.in/yaml.v3"
)

const FileName = ".docref.yml"

// Config is the immutable input the core pipeline consumes.
type Config struct {
	Include    []string          `yaml:"include"`
	Exclude    []string          `yaml:"exclude"`
	Namespaces map[string]string `yaml:"namespaces"`
	Extends    string            `yaml:"extends"`
}

// Load reads rootPath/.docref.yml, following an `extends` chain of parent
// configs (child values win, namespace maps are merged). A missing file at
// rootPath is not an error: it returns an empty Config, matching the
// teacher's LoadIgnoreRules convention of "absent means zero value".
func Load(rootPath string) (*Config, error) {
	path := filepath.Join(rootPath, FileName)
	cfg, err := loadChain(path, map[string]bool{})
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &Config{Namespaces: map[string]string{}}, nil
	}
	return cfg, nil
}

func loadChain(path string, visited map[string]bool) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if visited[abs] {
		return nil, fmt.Errorf("config extends cycle detected at %s", abs)
	}
	visited[abs] = true

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Namespaces == nil {
		cfg.Namespaces = map[string]string{}
	}

	if cfg.Extends == "" {
		return &cfg, nil
	}

	parentPath := filepath.Join(filepath.Dir(path), cfg.Extends)
	parent, err := loadChain(parentPath, visited)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("%s: extends target %q not found", path, cfg.Extends)
	}

	merged := *parent
	if len(cfg.Include) > 0 {
		merged.Include = cfg.Include
	}
	if len(cfg.Exclude) > 0 {
		merged.Exclude = cfg.Exclude
	}
	merged.Namespaces = mergeNamespaces(parent.Namespaces, cfg.Namespaces)
	merged.Extends = ""
	return &merged, nil
}

func mergeNamespaces(parent, child map[string]string) map[string]string {
	out := make(map[string]string, len(parent)+len(child))
	for name, dir := range parent {
		out[name] = dir
	}
	for name, dir := range child {
		out[name] = dir
	}
	return out
}

// ShouldScan reports whether a project-root-relative path satisfies the
// include/exclude prefix rule of §4.1: included if the include list is empty
// or the path matches a prefix, AND not matching any exclude prefix.
func (c *Config) ShouldScan(relPath string) bool {
	if c == nil {
		return true
	}
	if len(c.Include) > 0 && !pathutil.HasAnyPrefix(relPath, c.Include) {
		return false
	}
	if pathutil.HasAnyPrefix(relPath, c.Exclude) {
		return false
	}
	return true
}

// ResolveNamespace looks up a namespace name, returning its project-root
// relative directory and whether it was found.
func (c *Config) ResolveNamespace(name string) (string, bool) {
	if c == nil || c.Namespaces == nil {
		return "", false
	}
	dir, ok := c.Namespaces[name]
	return dir, ok
}
