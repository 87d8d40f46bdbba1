package grammar

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

type pyCollector struct{}

func pythonProfile() *Profile {
	return &Profile{
		Name:          "python",
		Language:      python.GetLanguage(),
		Collector:     pyCollector{},
		IsCommentKind: isCommentKind,
	}
}

func (pyCollector) TopLevel(root *sitter.Node, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if d, ok := pyNamedDeclaration(root.NamedChild(i), content); ok {
			decls = append(decls, d)
		}
	}
	decls = append(decls, ModuleVariables(root, content)...)
	return decls
}

// pyNamedDeclaration unwraps decorated_definition (§4.4 step 3) and returns
// class_definition/function_definition nodes, keeping the outer node's
// byte range so decorators are included.
func pyNamedDeclaration(node *sitter.Node, content []byte) (Declaration, bool) {
	outer := node
	target := node
	if node.Type() == "decorated_definition" {
		if def := node.ChildByFieldName("definition"); def != nil {
			target = def
		}
	}

	switch target.Type() {
	case "class_definition":
		if name := fieldName(target, "name", content); name != "" {
			return Declaration{Name: name, Kind: "class", Node: outer}, true
		}
	case "function_definition":
		if name := fieldName(target, "name", content); name != "" {
			return Declaration{Name: name, Kind: "function", Node: outer}, true
		}
	}
	return Declaration{}, false
}

// Children enumerates a class's methods (skipping dunder methods other than
// __init__) plus, for __init__ specifically, recursively-discovered
// self.attr assignments. A parent that is not a class has no children here;
// module-level `NAME = ...` assignments are top-level declarations, added by
// TopLevel through ModuleVariables and reachable only by Bare lookups.
func (pyCollector) Children(root *sitter.Node, parent Declaration, content []byte) []Declaration {
	if parent.Kind != "class" {
		return nil
	}

	target := parent.Node
	if target.Type() == "decorated_definition" {
		if def := target.ChildByFieldName("definition"); def != nil {
			target = def
		}
	}
	body := target.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	seen := make(map[string]bool)
	var decls []Declaration
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		d, ok := pyNamedDeclaration(member, content)
		if !ok || d.Kind != "function" {
			continue
		}
		if d.Name == "__init__" {
			decls = append(decls, Declaration{Name: d.Name, Kind: "method", Node: d.Node})
			decls = append(decls, pySelfAttributes(member, content, seen)...)
			continue
		}
		if isDunder(d.Name) {
			continue
		}
		decls = append(decls, Declaration{Name: d.Name, Kind: "method", Node: d.Node})
	}
	return decls
}

func isDunder(name string) bool {
	return len(name) > 4 && name[:2] == "__" && name[len(name)-2:] == "__"
}

// pySelfAttributes recursively walks an __init__ body for `self.attr = ...`
// assignments, descending into control-flow constructs, mirroring the
// original resolver's self-attribute discovery.
func pySelfAttributes(initFn *sitter.Node, content []byte, seen map[string]bool) []Declaration {
	body := initFn.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var decls []Declaration
	walkPySelfBody(body, content, seen, &decls)
	return decls
}

var pyControlFlowKinds = map[string]bool{
	"if_statement": true, "for_statement": true, "while_statement": true,
	"try_statement": true, "with_statement": true, "block": true,
	"else_clause": true, "elif_clause": true, "except_clause": true,
	"finally_clause": true,
}

func walkPySelfBody(node *sitter.Node, content []byte, seen map[string]bool, decls *[]Declaration) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "expression_statement" {
			if d, ok := pySelfAssignment(child, content); ok {
				if !seen[d.Name] {
					seen[d.Name] = true
					*decls = append(*decls, d)
				}
			}
			continue
		}
		if pyControlFlowKinds[child.Type()] {
			walkPySelfBody(child, content, seen, decls)
		}
	}
}

func pySelfAssignment(stmt *sitter.Node, content []byte) (Declaration, bool) {
	if stmt.NamedChildCount() == 0 {
		return Declaration{}, false
	}
	assignment := stmt.NamedChild(0)
	if assignment.Type() != "assignment" {
		return Declaration{}, false
	}
	left := assignment.ChildByFieldName("left")
	if left == nil || left.Type() != "attribute" {
		return Declaration{}, false
	}
	objectNode := left.ChildByFieldName("object")
	attrNode := left.ChildByFieldName("attribute")
	if objectNode == nil || attrNode == nil || objectNode.Content(content) != "self" {
		return Declaration{}, false
	}
	return Declaration{Name: attrNode.Content(content), Kind: "field", Node: left}, true
}

// ModuleVariables exposes top-level `NAME = value` assignments for Bare
// lookups against Python files, mirroring the original's py_module_variable
// (names starting with "_" are skipped).
func ModuleVariables(root *sitter.Node, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() == 0 {
			continue
		}
		assignment := stmt.NamedChild(0)
		if assignment.Type() != "assignment" {
			continue
		}
		left := assignment.ChildByFieldName("left")
		if left == nil || left.Type() != "identifier" {
			continue
		}
		name := left.Content(content)
		if name == "" || name[0] == '_' {
			continue
		}
		decls = append(decls, Declaration{Name: name, Kind: "variable", Node: stmt})
	}
	return decls
}
