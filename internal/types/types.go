// Package types holds the data model shared by every stage of the reference
// pipeline: Scanner, Resolver, Hasher, Lockfile and Freshness.
package types

import "fmt"

// QueryKind distinguishes the three SymbolQuery cases.
type QueryKind int

const (
	QueryBare QueryKind = iota
	QueryScoped
	QueryWholeFile
)

// SymbolQuery is the parsed form of the "#symbol" portion of a link target.
// It is a closed tagged union: exactly one of the three cases applies.
type SymbolQuery struct {
	Kind   QueryKind
	Name   string // set for QueryBare
	Parent string // set for QueryScoped
	Child  string // set for QueryScoped
}

func Bare(name string) SymbolQuery {
	return SymbolQuery{Kind: QueryBare, Name: name}
}

func Scoped(parent, child string) SymbolQuery {
	return SymbolQuery{Kind: QueryScoped, Parent: parent, Child: child}
}

func WholeFile() SymbolQuery {
	return SymbolQuery{Kind: QueryWholeFile}
}

// ParseSymbolQuery splits a raw "#" fragment into a SymbolQuery per §3: empty
// fragment is WholeFile, otherwise split on the first '.' into parent/child,
// else the whole fragment is a Bare name.
func ParseSymbolQuery(raw string) SymbolQuery {
	if raw == "" {
		return WholeFile()
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] == '.' {
			return Scoped(raw[:i], raw[i+1:])
		}
	}
	return Bare(raw)
}

// String renders the LockEntry symbol form: empty for WholeFile, "parent.child"
// for Scoped, "name" otherwise.
func (q SymbolQuery) String() string {
	switch q.Kind {
	case QueryWholeFile:
		return ""
	case QueryScoped:
		return q.Parent + "." + q.Child
	default:
		return q.Name
	}
}

// DisplayName is String but falls back to "<whole file>" for diagnostics.
func (q SymbolQuery) DisplayName() string {
	if q.Kind == QueryWholeFile {
		return "<whole file>"
	}
	return q.String()
}

// Kind tags the declaration a ResolvedSymbol points at. Used only for
// diagnostics; it never drives resolution decisions.
type Kind int

const (
	KindUnknown Kind = iota
	KindFunction
	KindType
	KindConstant
	KindVariable
	KindMethod
	KindField
	KindVariant
	KindMember
	KindEnum
	KindInterface
	KindClass
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindType:
		return "type"
	case KindConstant:
		return "constant"
	case KindVariable:
		return "variable"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	case KindVariant:
		return "variant"
	case KindMember:
		return "member"
	case KindEnum:
		return "enum"
	case KindInterface:
		return "interface"
	case KindClass:
		return "class"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// ByteRange is a half-open interval [Start, End) into a file's bytes.
type ByteRange struct {
	Start uint32
	End   uint32
}

func (r ByteRange) Len() uint32 { return r.End - r.Start }

// SourceRef anchors a diagnostic to the markdown line it came from.
type SourceRef struct {
	File    string
	Line    int
	Content string
}

// Reference is produced by the Scanner for every markdown link it accepts.
type Reference struct {
	Source      string // markdown path, project-root-relative
	SourceLine  int    // one-based
	SourceCol   int    // zero-based column of the opening '['
	LinkText    string // opaque, preserved for diagnostics
	RawTarget   string // the raw "target" string before namespace/path resolution
	TargetPath  string // normalized project-root-relative target path (markdown dir or namespace dir already applied)
	Namespace   string // "" if none present
	Query       SymbolQuery
	BrokenNS    bool // true if Namespace was present but unresolved
}

// ResolvedSymbol is produced by the Resolver.
type ResolvedSymbol struct {
	TargetAbsPath string
	Query         SymbolQuery
	Range         ByteRange
	Kind          Kind
}

// SemanticHash is a 32-byte SHA-256 digest rendered as lowercase hex.
type SemanticHash string

// LockEntry is one row of the lockfile, keyed by (Source, Target, Symbol).
type LockEntry struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
	Symbol string `toml:"symbol"`
	Hash   string `toml:"hash"`
}

// Less implements the total order of §3: (source, target, symbol) lexicographic.
func (e LockEntry) Less(o LockEntry) bool {
	if e.Source != o.Source {
		return e.Source < o.Source
	}
	if e.Target != o.Target {
		return e.Target < o.Target
	}
	return e.Symbol < o.Symbol
}

// Key returns the tuple LockEntries are distinct on.
func (e LockEntry) Key() string {
	return e.Source + "\x00" + e.Target + "\x00" + e.Symbol
}

// BrokenReason enumerates the Broken(reason) variants of §4.7.
type BrokenReason int

const (
	ReasonNone BrokenReason = iota
	ReasonFileMissing
	ReasonSymbolNotFound
	ReasonUnsupportedLanguage
	ReasonParseFailed
	ReasonBrokenNamespace
)

func (r BrokenReason) String() string {
	switch r {
	case ReasonFileMissing:
		return "file missing"
	case ReasonSymbolNotFound:
		return "symbol not found"
	case ReasonUnsupportedLanguage:
		return "unsupported language"
	case ReasonParseFailed:
		return "parse failed"
	case ReasonBrokenNamespace:
		return "broken namespace"
	default:
		return "none"
	}
}

// Verdict is the Freshness outcome for one LockEntry.
type Verdict int

const (
	VerdictFresh Verdict = iota
	VerdictStale
	VerdictBroken
	// VerdictOrphan marks a LockEntry whose source markdown no longer
	// contains the originating Reference (§4.7). The CLI's shared check pass
	// assigns it to every lockfile entry the current scan no longer finds;
	// check drops those results before reporting, status and watch show them.
	VerdictOrphan
)

func (v Verdict) String() string {
	switch v {
	case VerdictFresh:
		return "fresh"
	case VerdictStale:
		return "stale"
	case VerdictBroken:
		return "broken"
	case VerdictOrphan:
		return "orphan"
	default:
		return "unknown"
	}
}

// CheckResult is the outcome of comparing one LockEntry against live sources.
type CheckResult struct {
	Entry      LockEntry
	Verdict    Verdict
	Reason     BrokenReason
	NewHash    string
	Candidates []string
	SourceRef  *SourceRef
}

// ResolveError is the typed failure surface of the Symbol resolver (§4.4).
type ResolveError struct {
	Reason     BrokenReason
	Query      SymbolQuery
	Candidates []string
	File       string
}

func (e *ResolveError) Error() string {
	switch e.Reason {
	case ReasonFileMissing:
		return fmt.Sprintf("%s: file missing", e.File)
	case ReasonUnsupportedLanguage:
		return fmt.Sprintf("%s: unsupported language", e.File)
	case ReasonParseFailed:
		return fmt.Sprintf("%s: parse failed", e.File)
	case ReasonSymbolNotFound:
		return fmt.Sprintf("%s: symbol %q not found", e.File, e.Query.DisplayName())
	default:
		return fmt.Sprintf("%s: resolve failed", e.File)
	}
}

// LockfileCorruptError signals a violated on-disk invariant (§4.6).
type LockfileCorruptError struct {
	Reason string
}

func (e *LockfileCorruptError) Error() string {
	return fmt.Sprintf("lockfile corrupt: %s", e.Reason)
}

// ConfigError signals a malformed configuration document.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", e.Reason)
}
