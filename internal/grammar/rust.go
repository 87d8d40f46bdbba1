package grammar

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

type rustCollector struct{}

func rustProfile() *Profile {
	return &Profile{
		Name:          "rust",
		Language:      rust.GetLanguage(),
		Collector:     rustCollector{},
		IsCommentKind: isCommentKind,
	}
}

var rustNamedTopLevel = map[string]string{
	"function_item": "function",
	"const_item":    "constant",
	"struct_item":   "type",
	"union_item":    "type",
	"enum_item":     "enum",
	"static_item":   "variable",
	"type_item":     "type",
	"trait_item":    "interface",
}

func (rustCollector) TopLevel(root *sitter.Node, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if kind, ok := rustNamedTopLevel[child.Type()]; ok {
			if name := fieldName(child, "name", content); name != "" {
				decls = append(decls, Declaration{Name: name, Kind: kind, Node: child})
			}
			continue
		}
		if child.Type() == "impl_item" {
			// impl blocks contribute methods only via Children, keyed off
			// the implemented type's name (§4.4 "Rust specific").
			continue
		}
	}
	return decls
}

// Children implements §4.4 step 5b's Rust-specific forms: enum variants,
// struct fields, and impl-block methods collected from every impl targeting
// the parent type, in source order.
func (rustCollector) Children(root *sitter.Node, parent Declaration, content []byte) []Declaration {
	var decls []Declaration
	switch parent.Kind {
	case "enum":
		decls = append(decls, rustEnumVariants(parent.Node, content)...)
	case "type":
		decls = append(decls, rustStructFields(parent.Node, content)...)
	case "interface":
		decls = append(decls, rustTraitMethods(parent.Node, content)...)
	}
	decls = append(decls, rustImplMethods(root, parent.Name, content)...)
	return decls
}

func rustEnumVariants(enumItem *sitter.Node, content []byte) []Declaration {
	body := enumItem.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var decls []Declaration
	for i := 0; i < int(body.NamedChildCount()); i++ {
		variant := body.NamedChild(i)
		if variant.Type() != "enum_variant" {
			continue
		}
		if name := fieldName(variant, "name", content); name != "" {
			decls = append(decls, Declaration{Name: name, Kind: "variant", Node: variant})
		}
	}
	return decls
}

// rustStructFields collects field declarations from a struct_item or
// union_item body: both grammar productions share the same
// field_declaration_list shape, so one walk covers §4.4's "struct/union
// fields (parent = type name)" requirement.
func rustStructFields(structItem *sitter.Node, content []byte) []Declaration {
	body := structItem.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var decls []Declaration
	for i := 0; i < int(body.NamedChildCount()); i++ {
		field := body.NamedChild(i)
		if field.Type() != "field_declaration" {
			continue
		}
		if name := fieldName(field, "name", content); name != "" {
			decls = append(decls, Declaration{Name: name, Kind: "field", Node: field})
		}
	}
	return decls
}

func rustTraitMethods(traitItem *sitter.Node, content []byte) []Declaration {
	body := traitItem.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var decls []Declaration
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		if member.Type() != "function_item" && member.Type() != "function_signature_item" {
			continue
		}
		if name := fieldName(member, "name", content); name != "" {
			decls = append(decls, Declaration{Name: name, Kind: "method", Node: member})
		}
	}
	return decls
}

func rustImplMethods(root *sitter.Node, typeName string, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "impl_item" {
			continue
		}
		implType := child.ChildByFieldName("type")
		if implType == nil || implType.Content(content) != typeName {
			continue
		}
		body := child.ChildByFieldName("body")
		if body == nil {
			continue
		}
		for j := 0; j < int(body.NamedChildCount()); j++ {
			member := body.NamedChild(j)
			if member.Type() != "function_item" {
				continue
			}
			if name := fieldName(member, "name", content); name != "" {
				decls = append(decls, Declaration{Name: name, Kind: "method", Node: member})
			}
		}
	}
	return decls
}
