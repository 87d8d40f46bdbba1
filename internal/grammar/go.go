package grammar

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

type goCollector struct{}

func goProfile() *Profile {
	return &Profile{
		Name:          "go",
		Language:      golang.GetLanguage(),
		Collector:     goCollector{},
		IsCommentKind: isCommentKind,
	}
}

// TopLevel walks the root's direct children (function/method/type/const/var
// declarations), per §4.4 step 3. Method declarations carry their receiver
// type so Children can find them without a separate impl-block construct.
func (goCollector) TopLevel(root *sitter.Node, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "function_declaration":
			if name := fieldName(child, "name", content); name != "" {
				decls = append(decls, Declaration{Name: name, Kind: "function", Node: child})
			}
		case "method_declaration":
			// Methods are not reachable via Bare; they surface only through
			// Children when the receiver type is the Scoped parent.
			continue
		case "type_declaration":
			decls = append(decls, goTypeSpecs(child, content)...)
		case "const_declaration":
			decls = append(decls, goSpecs(child, "const_spec", "constant", content)...)
		case "var_declaration":
			decls = append(decls, goSpecs(child, "var_spec", "variable", content)...)
		}
	}
	return decls
}

func goTypeSpecs(node *sitter.Node, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(node.NamedChildCount()); i++ {
		spec := node.NamedChild(i)
		if spec.Type() != "type_spec" {
			continue
		}
		name := fieldName(spec, "name", content)
		if name == "" {
			continue
		}
		kind := "type"
		if typeNode := spec.ChildByFieldName("type"); typeNode != nil {
			switch typeNode.Type() {
			case "struct_type":
				kind = "struct"
			case "interface_type":
				kind = "interface"
			}
		}
		decls = append(decls, Declaration{Name: name, Kind: kind, Node: spec})
	}
	return decls
}

func goSpecs(node *sitter.Node, specKind, kind string, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(node.NamedChildCount()); i++ {
		spec := node.NamedChild(i)
		if spec.Type() != specKind {
			continue
		}
		name := fieldName(spec, "name", content)
		if name == "" {
			continue
		}
		decls = append(decls, Declaration{Name: name, Kind: kind, Node: spec})
	}
	return decls
}

// Children enumerates struct fields / interface methods inside parent's own
// subtree, plus (for any type-kind parent) every method_declaration at file
// scope whose receiver type matches parent.Name, per §4.4 step 5/Go's
// receiver-based method model.
func (c goCollector) Children(root *sitter.Node, parent Declaration, content []byte) []Declaration {
	var decls []Declaration
	switch parent.Kind {
	case "struct":
		if typeNode := parent.Node.ChildByFieldName("type"); typeNode != nil {
			decls = append(decls, goStructFields(typeNode, content)...)
		}
	case "interface":
		if typeNode := parent.Node.ChildByFieldName("type"); typeNode != nil {
			decls = append(decls, goInterfaceMethods(typeNode, content)...)
		}
	}
	decls = append(decls, goMethodsForReceiver(root, parent.Name, content)...)
	return decls
}

func goStructFields(structType *sitter.Node, content []byte) []Declaration {
	var decls []Declaration
	// struct_type has no "body" field in the Go grammar: its
	// field_declaration_list is an unlabelled child.
	var fieldList *sitter.Node
	for i := 0; i < int(structType.NamedChildCount()); i++ {
		if c := structType.NamedChild(i); c.Type() == "field_declaration_list" {
			fieldList = c
			break
		}
	}
	if fieldList == nil {
		return nil
	}
	for i := 0; i < int(fieldList.NamedChildCount()); i++ {
		field := fieldList.NamedChild(i)
		if field.Type() != "field_declaration" {
			continue
		}
		nameNode := field.ChildByFieldName("name")
		if nameNode != nil {
			decls = append(decls, Declaration{Name: nameNode.Content(content), Kind: "field", Node: field})
			continue
		}
		// field_identifier list form: name_list within field_declaration.
		for j := 0; j < int(field.NamedChildCount()); j++ {
			id := field.NamedChild(j)
			if id.Type() == "field_identifier" {
				decls = append(decls, Declaration{Name: id.Content(content), Kind: "field", Node: field})
			}
		}
	}
	return decls
}

func goInterfaceMethods(ifaceType *sitter.Node, content []byte) []Declaration {
	var decls []Declaration
	// interface_type has no "body" field in the Go grammar: its method_elem
	// nodes are direct named children.
	for i := 0; i < int(ifaceType.NamedChildCount()); i++ {
		elem := ifaceType.NamedChild(i)
		if elem.Type() != "method_elem" {
			continue
		}
		if name := fieldName(elem, "name", content); name != "" {
			decls = append(decls, Declaration{Name: name, Kind: "method", Node: elem})
		}
	}
	return decls
}

func goMethodsForReceiver(root *sitter.Node, typeName string, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "method_declaration" {
			continue
		}
		receiverType := goReceiverTypeName(child, content)
		if receiverType != typeName {
			continue
		}
		if name := fieldName(child, "name", content); name != "" {
			decls = append(decls, Declaration{Name: name, Kind: "method", Node: child})
		}
	}
	return decls
}

func goReceiverTypeName(methodDecl *sitter.Node, content []byte) string {
	receiver := methodDecl.ChildByFieldName("receiver")
	if receiver == nil {
		return ""
	}
	for i := 0; i < int(receiver.NamedChildCount()); i++ {
		param := receiver.NamedChild(i)
		if param.Type() != "parameter_declaration" {
			continue
		}
		typeNode := param.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		if typeNode.Type() == "pointer_type" {
			typeNode = typeNode.NamedChild(0)
		}
		if typeNode != nil {
			return typeNode.Content(content)
		}
	}
	return ""
}

func fieldName(node *sitter.Node, field string, content []byte) string {
	n := node.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return n.Content(content)
}

func isCommentKind(kind string) bool {
	return kind == "comment" || kind == "line_comment" || kind == "block_comment" || kind == "doc_comment"
}
