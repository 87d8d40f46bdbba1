package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSymbolQuery(t *testing.T) {
	cases := []struct {
		raw  string
		kind QueryKind
		name string
		par  string
		chi  string
	}{
		{raw: "", kind: QueryWholeFile},
		{raw: "Foo", kind: QueryBare, name: "Foo"},
		{raw: "Foo.Bar", kind: QueryScoped, par: "Foo", chi: "Bar"},
		{raw: "Foo.Bar.Baz", kind: QueryScoped, par: "Foo", chi: "Bar.Baz"},
	}

	for _, tc := range cases {
		q := ParseSymbolQuery(tc.raw)
		assert.Equal(t, tc.kind, q.Kind, "ParseSymbolQuery(%q).Kind", tc.raw)
		assert.Equal(t, tc.name, q.Name, "ParseSymbolQuery(%q).Name", tc.raw)
		assert.Equal(t, tc.par, q.Parent, "ParseSymbolQuery(%q).Parent", tc.raw)
		assert.Equal(t, tc.chi, q.Child, "ParseSymbolQuery(%q).Child", tc.raw)
	}
}

func TestSymbolQueryString(t *testing.T) {
	assert.Empty(t, WholeFile().String())
	assert.Equal(t, "Foo", Bare("Foo").String())
	assert.Equal(t, "Foo.Bar", Scoped("Foo", "Bar").String())
	assert.Equal(t, "<whole file>", WholeFile().DisplayName())
}

func TestLockEntryLessAndKey(t *testing.T) {
	a := LockEntry{Source: "a.md", Target: "x.go", Symbol: "Foo"}
	b := LockEntry{Source: "a.md", Target: "x.go", Symbol: "Bar"}
	c := LockEntry{Source: "b.md", Target: "x.go", Symbol: "Foo"}

	assert.True(t, b.Less(a), "expected Bar < Foo within same (source,target)")
	assert.True(t, a.Less(c), "expected a.md < b.md")
	assert.NotEqual(t, a.Key(), b.Key(), "distinct entries must have distinct keys")
}

func TestResolveErrorMessages(t *testing.T) {
	err := &ResolveError{Reason: ReasonSymbolNotFound, Query: Bare("Foo"), File: "x.go"}
	assert.Equal(t, `x.go: symbol "Foo" not found`, err.Error())
}
