// Package grammar is the Grammar registry of §4.2: it maps a file extension
// to a tree-sitter language and a declarative profile describing how that
// language's top-level and child declarations are walked, named, and
// filtered for hashing.
package grammar

import (
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Declaration is one named entity found by a Collector, either at file scope
// or nested inside a parent declaration.
type Declaration struct {
	Name string
	Kind string // language-neutral tag, see internal/types.Kind mapping in resolver
	Node *sitter.Node
}

// Collector walks a parsed tree and extracts declarations per the language
// profile of §4.2. TopLevel enumerates file-scope declarations (and, for
// Python, unwraps decorated_definition per §4.4 step 3). Children enumerates
// the named children of a specific top-level declaration's subtree
// (Rust additionally needs all impl blocks for a type name, which is why
// Children receives the whole root node alongside the parent declaration).
type Collector interface {
	TopLevel(root *sitter.Node, content []byte) []Declaration
	// Children enumerates child declarations of parent. root is passed
	// alongside because Rust impl-block members live outside the type's own
	// subtree (§4.4 step 5b) and must be gathered from the whole file.
	Children(root *sitter.Node, parent Declaration, content []byte) []Declaration
}

// Profile bundles everything the registry needs for one language.
type Profile struct {
	Name      string
	Language  *sitter.Language
	Collector Collector
	// IsCommentKind reports whether a leaf CST node kind is a comment or
	// other ignorable trivia, consulted by the hasher's skip predicate.
	IsCommentKind func(kind string) bool
}

// Registry maps lowercase extensions (including the dot) to a Profile.
type Registry struct {
	byExt map[string]*Profile
}

// NewRegistry builds a registry with the extension table of §4.2. Rust,
// TypeScript, JavaScript, Python, Go and Bash are each backed by a real
// tree-sitter grammar from the example pack.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]*Profile)}
	r.register([]string{".rs"}, rustProfile())
	r.register([]string{".ts", ".tsx"}, typescriptProfile())
	r.register([]string{".js", ".jsx"}, javascriptProfile())
	r.register([]string{".py"}, pythonProfile())
	r.register([]string{".go"}, goProfile())
	r.register([]string{".sh", ".bash"}, bashProfile())
	return r
}

func (r *Registry) register(exts []string, p *Profile) {
	for _, ext := range exts {
		r.byExt[ext] = p
	}
}

// ProfileForFile returns the profile for a path's extension, or nil if the
// extension is unknown (§4.2: "files with unknown extensions may only be
// referenced as WholeFile").
func (r *Registry) ProfileForFile(path string) *Profile {
	ext := strings.ToLower(filepath.Ext(path))
	return r.byExt[ext]
}

// Extensions lists "ext -> language" pairs for every registered extension,
// sorted, for `docref info` (§6.1).
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext, p := range r.byExt {
		out = append(out, ext+" -> "+p.Name)
	}
	sort.Strings(out)
	return out
}
