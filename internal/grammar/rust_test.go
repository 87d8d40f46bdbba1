package grammar

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rustSource = `struct Point {
	x: i32,
	y: i32,
}

union FloatBits {
	f: f32,
	bits: u32,
}

enum Shape {
	Circle,
	Square,
}

impl Point {
	fn magnitude(&self) -> i32 {
		self.x + self.y
	}
}

fn distance() -> i32 {
	0
}
`

func parseRust(t *testing.T, src string) *sitter.Node {
	t.Helper()
	p := sitter.NewParser()
	p.SetLanguage(rust.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	return tree.RootNode()
}

func TestRustTopLevelIncludesUnion(t *testing.T) {
	root := parseRust(t, rustSource)
	c := rustCollector{}
	decls := c.TopLevel(root, []byte(rustSource))

	names := map[string]string{}
	for _, d := range decls {
		names[d.Name] = d.Kind
	}

	assert.Equal(t, "type", names["Point"])
	assert.Equal(t, "type", names["FloatBits"])
	assert.Equal(t, "enum", names["Shape"])
	assert.Equal(t, "function", names["distance"])
}

func TestRustChildrenFindsUnionFields(t *testing.T) {
	root := parseRust(t, rustSource)
	c := rustCollector{}
	decls := c.TopLevel(root, []byte(rustSource))

	var union Declaration
	for _, d := range decls {
		if d.Name == "FloatBits" {
			union = d
		}
	}
	require.NotEmpty(t, union.Name, "FloatBits not found among top-level declarations")

	children := c.Children(root, union, []byte(rustSource))
	var sawF, sawBits bool
	for _, d := range children {
		if d.Name == "f" && d.Kind == "field" {
			sawF = true
		}
		if d.Name == "bits" && d.Kind == "field" {
			sawBits = true
		}
	}
	assert.True(t, sawF && sawBits, "expected union fields f and bits, got %+v", children)
}

func TestRustChildrenFindsStructFieldsAndImplMethods(t *testing.T) {
	root := parseRust(t, rustSource)
	c := rustCollector{}
	decls := c.TopLevel(root, []byte(rustSource))

	var point Declaration
	for _, d := range decls {
		if d.Name == "Point" {
			point = d
		}
	}
	require.NotEmpty(t, point.Name, "Point not found among top-level declarations")

	children := c.Children(root, point, []byte(rustSource))
	var sawField, sawMethod bool
	for _, d := range children {
		if d.Name == "x" && d.Kind == "field" {
			sawField = true
		}
		if d.Name == "magnitude" && d.Kind == "method" {
			sawMethod = true
		}
	}
	assert.True(t, sawField, "expected struct field x among Point's children")
	assert.True(t, sawMethod, "expected impl method magnitude among Point's children")
}
