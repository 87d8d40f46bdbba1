package grammar

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

type tsCollector struct{}

func typescriptProfile() *Profile {
	return &Profile{
		Name:          "typescript",
		Language:      typescript.GetLanguage(),
		Collector:     tsCollector{},
		IsCommentKind: isCommentKind,
	}
}

func javascriptProfile() *Profile {
	return &Profile{
		Name:          "javascript",
		Language:      javascript.GetLanguage(),
		Collector:     tsCollector{},
		IsCommentKind: isCommentKind,
	}
}

var tsNamedTopLevel = map[string]string{
	"function_declaration":    "function",
	"class_declaration":       "class",
	"interface_declaration":   "interface",
	"type_alias_declaration":  "type",
	"enum_declaration":        "enum",
}

func (tsCollector) TopLevel(root *sitter.Node, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decls = append(decls, tsTopLevelNode(root.NamedChild(i), content)...)
	}
	return decls
}

// tsTopLevelNode unwraps export_statement (§4.4's "unwrap_export" pattern)
// and dispatches to the per-kind extractors. lexical_declaration/
// variable_declaration contributes one Declaration per arrow-function or
// function-expression variable_declarator.
func tsTopLevelNode(node *sitter.Node, content []byte) []Declaration {
	if node.Type() == "export_statement" {
		var decls []Declaration
		for i := 0; i < int(node.NamedChildCount()); i++ {
			decls = append(decls, tsTopLevelNode(node.NamedChild(i), content)...)
		}
		return decls
	}

	if kind, ok := tsNamedTopLevel[node.Type()]; ok {
		if name := fieldName(node, "name", content); name != "" {
			return []Declaration{{Name: name, Kind: kind, Node: node}}
		}
		return nil
	}

	if node.Type() == "lexical_declaration" || node.Type() == "variable_declaration" {
		return tsVariableDeclarators(node, content)
	}

	return nil
}

func tsVariableDeclarators(decl *sitter.Node, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		declarator := decl.NamedChild(i)
		if declarator.Type() != "variable_declarator" {
			continue
		}
		nameNode := declarator.ChildByFieldName("name")
		valueNode := declarator.ChildByFieldName("value")
		if nameNode == nil || valueNode == nil {
			continue
		}
		if valueNode.Type() != "arrow_function" && valueNode.Type() != "function" {
			continue
		}
		// Use the enclosing lexical_declaration's range, matching the
		// original resolver's behavior of reporting the whole statement.
		decls = append(decls, Declaration{Name: nameNode.Content(content), Kind: "function", Node: decl})
	}
	return decls
}

// Children implements class members, interface properties, and enum
// members as the "child declaration forms" of §4.2.
func (tsCollector) Children(root *sitter.Node, parent Declaration, content []byte) []Declaration {
	switch parent.Kind {
	case "class":
		return tsClassMembers(parent.Node, content)
	case "interface":
		return tsInterfaceProperties(parent.Node, content)
	case "enum":
		return tsEnumMembers(parent.Node, content)
	default:
		return nil
	}
}

func tsClassMembers(classDecl *sitter.Node, content []byte) []Declaration {
	body := classDecl.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var decls []Declaration
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_definition":
			if name := fieldName(member, "name", content); name != "" {
				decls = append(decls, Declaration{Name: name, Kind: "method", Node: member})
			}
		case "public_field_definition":
			if name := fieldName(member, "property", content); name != "" {
				decls = append(decls, Declaration{Name: name, Kind: "field", Node: member})
			} else if name := fieldName(member, "name", content); name != "" {
				decls = append(decls, Declaration{Name: name, Kind: "field", Node: member})
			}
		}
	}
	return decls
}

func tsInterfaceProperties(ifaceDecl *sitter.Node, content []byte) []Declaration {
	body := ifaceDecl.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var decls []Declaration
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		if member.Type() != "property_signature" && member.Type() != "method_signature" {
			continue
		}
		if name := fieldName(member, "name", content); name != "" {
			decls = append(decls, Declaration{Name: name, Kind: "member", Node: member})
		}
	}
	return decls
}

func tsEnumMembers(enumDecl *sitter.Node, content []byte) []Declaration {
	body := enumDecl.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var decls []Declaration
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "enum_assignment":
			if name := fieldName(member, "name", content); name != "" {
				decls = append(decls, Declaration{Name: name, Kind: "member", Node: member})
			}
		case "property_identifier":
			decls = append(decls, Declaration{Name: member.Content(content), Kind: "member", Node: member})
		}
	}
	return decls
}
