// Package pathutil implements the textual path normalization rules of §4.3:
// forward slashes, no leading "./", "." and ".." resolved without touching
// the filesystem or following symlinks.
package pathutil

import "strings"

// Normalize collapses "." and ".." components of a slash-separated path
// textually. A leading ".." that cannot be popped is preserved, mirroring
// the original implementation's push_normalized_component behavior.
func Normalize(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	parts := strings.Split(path, "/")

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
				continue
			}
			out = append(out, "..")
		default:
			out = append(out, part)
		}
	}
	return strings.Join(out, "/")
}

// Join joins a directory and a raw target path, then normalizes the result.
func Join(dir, target string) string {
	dir = strings.ReplaceAll(dir, "\\", "/")
	target = strings.ReplaceAll(target, "\\", "/")
	if dir == "" {
		return Normalize(target)
	}
	if strings.HasPrefix(target, "/") {
		return Normalize(target)
	}
	return Normalize(dir + "/" + target)
}

// Dir returns the slash-separated directory component of path, "" for a
// path with no separator.
func Dir(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

// HasAnyPrefix reports whether path starts with one of prefixes, comparing
// whole path segments (so "docs" matches "docs/guide.md" but not
// "docset/x.md").
func HasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if hasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func hasPrefix(path, prefix string) bool {
	prefix = strings.TrimSuffix(Normalize(prefix), "/")
	if prefix == "" {
		return true
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
