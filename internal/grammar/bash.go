package grammar

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
)

type bashCollector struct{}

func bashProfile() *Profile {
	return &Profile{
		Name:          "bash",
		Language:      bash.GetLanguage(),
		Collector:     bashCollector{},
		IsCommentKind: isCommentKind,
	}
}

// TopLevel enumerates function_definition nodes at file scope. Bash has no
// child declaration form (§4.9 of the expanded spec): Scoped queries always
// fail SymbolNotFound against a shell script.
func (bashCollector) TopLevel(root *sitter.Node, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "function_definition" {
			continue
		}
		if name := fieldName(child, "name", content); name != "" {
			decls = append(decls, Declaration{Name: name, Kind: "function", Node: child})
		}
	}
	return decls
}

func (bashCollector) Children(root *sitter.Node, parent Declaration, content []byte) []Declaration {
	return nil
}
