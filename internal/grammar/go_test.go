package grammar

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goSource = `package demo

type Worker struct {
	Name string
}

func (w *Worker) Run() error {
	return nil
}

type Runner interface {
	Run() error
}

func New() *Worker {
	return &Worker{}
}

const Version = "1.0"
`

func parseGo(t *testing.T, src string) *sitter.Node {
	t.Helper()
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	return tree.RootNode()
}

func TestGoTopLevelSkipsMethods(t *testing.T) {
	root := parseGo(t, goSource)
	c := goCollector{}
	decls := c.TopLevel(root, []byte(goSource))

	names := map[string]string{}
	for _, d := range decls {
		names[d.Name] = d.Kind
	}

	assert.Equal(t, "struct", names["Worker"])
	assert.Equal(t, "interface", names["Runner"])
	assert.Equal(t, "function", names["New"])
	assert.Equal(t, "constant", names["Version"])
	_, ok := names["Run"]
	assert.False(t, ok, "method Run should not appear at top level")
}

func TestGoChildrenFindsReceiverMethod(t *testing.T) {
	root := parseGo(t, goSource)
	c := goCollector{}
	decls := c.TopLevel(root, []byte(goSource))

	var worker Declaration
	for _, d := range decls {
		if d.Name == "Worker" {
			worker = d
		}
	}
	require.NotEmpty(t, worker.Name, "Worker not found among top-level declarations")

	children := c.Children(root, worker, []byte(goSource))
	var sawField, sawMethod bool
	for _, d := range children {
		if d.Name == "Name" && d.Kind == "field" {
			sawField = true
		}
		if d.Name == "Run" && d.Kind == "method" {
			sawMethod = true
		}
	}
	assert.True(t, sawField, "expected struct field Name among Worker's children")
	assert.True(t, sawMethod, "expected method Run among Worker's children via receiver scan")
}

func TestGoInterfaceMethodElem(t *testing.T) {
	root := parseGo(t, goSource)
	c := goCollector{}
	decls := c.TopLevel(root, []byte(goSource))

	var runner Declaration
	for _, d := range decls {
		if d.Name == "Runner" {
			runner = d
		}
	}
	require.NotEmpty(t, runner.Name, "Runner not found")

	children := c.Children(root, runner, []byte(goSource))
	found := false
	for _, d := range children {
		if d.Name == "Run" && d.Kind == "method" {
			found = true
		}
	}
	assert.True(t, found, "expected interface method Run among Runner's children")
}
