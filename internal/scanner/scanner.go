// Package scanner implements §4.1: it walks a project tree for markdown
// files and extracts the Reference triples their links encode.
package scanner

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/docref-dev/docref/internal/config"
	"github.com/docref-dev/docref/internal/ignore"
	"github.com/docref-dev/docref/internal/pathutil"
	"github.com/docref-dev/docref/internal/types"
)

// linkPattern matches "[text](url)" and "[text](url "title")", capturing
// text and url. It is applied per-line, and findLinks discards any match
// whose opening bracket falls inside an inline-code span (see
// inlineCodeRanges), so inline-code spans are never treated as links.
var linkPattern = regexp.MustCompile(`!?\[([^\]]*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)

// Scan walks root for markdown files satisfying cfg's include/exclude rule
// and returns every Reference their links encode, in the deterministic
// order of §4.1: by source path, then line, then column.
func Scan(root string, cfg *config.Config) ([]types.Reference, error) {
	matcher := ignore.NewMatcher(root, excludeIgnoreRules(cfg.Exclude))
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		if matcher.ShouldIgnore(relPath, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) != ".md" {
			return nil
		}
		if !cfg.ShouldScan(relPath) {
			return nil
		}
		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var refs []types.Reference
	for _, relPath := range files {
		fileRefs, err := scanFile(root, relPath, cfg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, fileRefs...)
	}
	return refs, nil
}

// excludeIgnoreRules turns cfg.Exclude's root-relative prefixes into
// root-anchored ignore rules, so an excluded directory is pruned from the
// walk itself (filepath.SkipDir) instead of merely filtered out file-by-file
// after being descended into. Rules are anchored ("/"-prefixed) to match
// config.ShouldScan's own root-relative prefix semantics exactly: an
// unanchored rule would also prune same-named directories nested elsewhere,
// which config.ShouldScan's HasAnyPrefix check would not exclude.
func excludeIgnoreRules(exclude []string) []string {
	rules := make([]string, 0, len(exclude))
	for _, e := range exclude {
		if !strings.HasPrefix(e, "/") {
			e = "/" + e
		}
		rules = append(rules, e)
	}
	return rules
}

func scanFile(root, relPath string, cfg *config.Config) ([]types.Reference, error) {
	f, err := os.Open(filepath.Join(root, relPath))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var refs []types.Reference
	lineNum := 0
	inFence := false
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lineNum++
		line := sc.Text()

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		for _, m := range findLinks(line) {
			ref, ok := parseLink(relPath, lineNum, m.col, m.text, m.url, cfg)
			if ok {
				refs = append(refs, ref)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].SourceLine != refs[j].SourceLine {
			return refs[i].SourceLine < refs[j].SourceLine
		}
		return refs[i].SourceCol < refs[j].SourceCol
	})
	return refs, nil
}

type linkMatch struct {
	col  int
	text string
	url  string
}

// findLinks scans line for link-pattern matches, skipping any match whose
// opening bracket falls inside an inline-code span (`...`).
func findLinks(line string) []linkMatch {
	codeRanges := inlineCodeRanges(line)

	var matches []linkMatch
	for _, loc := range linkPattern.FindAllSubmatchIndex([]byte(line), -1) {
		start := loc[0]
		if line[start] == '!' {
			continue // image link, per §4.1
		}
		if insideAny(codeRanges, start) {
			continue
		}
		text := line[loc[2]:loc[3]]
		url := line[loc[4]:loc[5]]
		matches = append(matches, linkMatch{col: start, text: text, url: url})
	}
	return matches
}

func insideAny(ranges [][2]int, pos int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// inlineCodeRanges finds `...` spans so their contents are never parsed as
// links.
func inlineCodeRanges(line string) [][2]int {
	var ranges [][2]int
	start := -1
	for i := 0; i < len(line); i++ {
		if line[i] != '`' {
			continue
		}
		if start < 0 {
			start = i
		} else {
			ranges = append(ranges, [2]int{start, i + 1})
			start = -1
		}
	}
	return ranges
}

// parseLink applies the URL grammar of §4.1 and, if accepted, resolves the
// path/namespace and builds a Reference.
func parseLink(source string, line, col int, text, rawURL string, cfg *config.Config) (types.Reference, bool) {
	if strings.Contains(rawURL, "://") {
		return types.Reference{}, false
	}
	if strings.HasPrefix(rawURL, "mailto:") || strings.HasPrefix(rawURL, "#") || strings.HasPrefix(rawURL, "/") {
		return types.Reference{}, false
	}

	target := rawURL
	symbolRaw := ""
	if idx := strings.IndexByte(target, '#'); idx >= 0 {
		symbolRaw = target[idx+1:]
		target = target[:idx]
	}
	if target == "" {
		return types.Reference{}, false
	}

	namespace := ""
	rawPath := target
	if ns, path, ok := splitNamespace(target); ok {
		namespace = ns
		rawPath = path
	}

	ref := types.Reference{
		Source:     source,
		SourceLine: line,
		SourceCol:  col,
		LinkText:   text,
		RawTarget:  rawURL,
		Namespace:  namespace,
		TargetPath: rawPath,
		Query:      types.ParseSymbolQuery(symbolRaw),
	}

	if namespace != "" {
		dir, ok := cfg.ResolveNamespace(namespace)
		if !ok {
			ref.BrokenNS = true
			return ref, true
		}
		ref.TargetPath = pathutil.Join(dir, rawPath)
		return ref, true
	}

	ref.TargetPath = pathutil.Join(pathutil.Dir(source), rawPath)
	return ref, true
}

var namespacePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// splitNamespace splits "NS:path" into (NS, path) when NS matches the
// namespace grammar of §4.1. URL schemes are already filtered out by
// parseLink; any other prefix before the first ':' that fits the grammar,
// a single letter included, is taken as a namespace.
func splitNamespace(target string) (ns, path string, ok bool) {
	idx := strings.IndexByte(target, ':')
	if idx <= 0 {
		return "", "", false
	}
	candidate := target[:idx]
	if !namespacePattern.MatchString(candidate) {
		return "", "", false
	}
	return candidate, target[idx+1:], true
}
