//go:build cgo

package codemodel

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"autodoxy/pkg/ast"
)

const (
	cppFunctionDefinitionNodeType  = "function_definition"
	cppDeclarationNodeType         = "declaration"
	cppFieldDeclarationNodeType    = "field_declaration"
	cppFunctionDeclaratorNodeType  = "function_declarator"
	cppClassSpecifierNodeType      = "class_specifier"
	cppStructSpecifierNodeType     = "struct_specifier"
	cppUnionSpecifierNodeType      = "union_specifier"
	cppTypeQualifierNodeType       = "type_qualifier"
	cppTrailingReturnTypeNodeType  = "trailing_return_type"
	cppParameterDeclarationType    = "parameter_declaration"
	cppOptionalParameterDeclType   = "optional_parameter_declaration"
	cppPointerDeclaratorNodeType   = "pointer_declarator"
	cppReferenceDeclaratorNodeType = "reference_declarator"
	cppTypeField                   = "type"
	cppDeclaratorField             = "declarator"
	cppParametersField             = "parameters"
	cppNameField                   = "name"
	cppBodyField                   = "body"
)

// TreeSitterResolver reads functions from a tree-sitter C++ syntax tree.
type TreeSitterResolver struct{}

// NewTreeSitterResolver creates a tree-sitter backed resolver.
func NewTreeSitterResolver() *TreeSitterResolver {
	return &TreeSitterResolver{}
}

// NewDefaultResolver returns the best resolver available in this build.
func NewDefaultResolver() Resolver {
	return NewTreeSitterResolver()
}

// Resolve implements Resolver.
func (r *TreeSitterResolver) Resolve(src Source, line int) (*ast.Signature, error) {
	return resolve(r, src, line)
}

// Functions implements Resolver. A parser is created per call since
// tree-sitter parsers must not be shared between goroutines.
func (r *TreeSitterResolver) Functions(src Source) ([]ast.Signature, error) {
	content := []byte(sourceText(src))

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(cpp.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse C++ source: %w", err)
	}
	defer tree.Close()

	var functions []ast.Signature
	walkCppTree(tree.RootNode(), content, "", &functions)
	return functions, nil
}

func walkCppTree(node *sitter.Node, content []byte, owner string, functions *[]ast.Signature) {
	if node == nil {
		return
	}

	switch node.Type() {
	case cppClassSpecifierNodeType, cppStructSpecifierNodeType, cppUnionSpecifierNodeType:
		body := node.ChildByFieldName(cppBodyField)
		if body == nil {
			return
		}
		scope := owner
		if nameNode := node.ChildByFieldName(cppNameField); nameNode != nil {
			_, name := splitQualified(nameNode.Content(content))
			scope = joinOwner(owner, name)
		}
		walkChildren(body, content, scope, functions)
		return
	case cppFunctionDefinitionNodeType, cppDeclarationNodeType, cppFieldDeclarationNodeType:
		if sig, ok := cppSignature(node, content, owner); ok {
			*functions = append(*functions, finish(sig))
			return
		}
		if node.Type() == cppFunctionDefinitionNodeType {
			return
		}
	}

	walkChildren(node, content, owner, functions)
}

func walkChildren(node *sitter.Node, content []byte, owner string, functions *[]ast.Signature) {
	for index := 0; index < int(node.ChildCount()); index++ {
		walkCppTree(node.Child(index), content, owner, functions)
	}
}

// cppSignature reads a function from a definition or declaration node.
func cppSignature(node *sitter.Node, content []byte, owner string) (ast.Signature, bool) {
	declarator := node.ChildByFieldName(cppDeclaratorField)
	suffix := ""
	for declarator != nil && declarator.Type() != cppFunctionDeclaratorNodeType {
		switch declarator.Type() {
		case cppPointerDeclaratorNodeType:
			suffix += "*"
		case cppReferenceDeclaratorNodeType:
			suffix += "&"
		default:
			return ast.Signature{}, false
		}
		declarator = innerDeclarator(declarator)
	}
	if declarator == nil {
		return ast.Signature{}, false
	}

	nameNode := declarator.ChildByFieldName(cppDeclaratorField)
	if nameNode == nil {
		return ast.Signature{}, false
	}
	qualifier, name := splitQualified(nameNode.Content(content))
	if name == "" {
		return ast.Signature{}, false
	}

	sig := ast.Signature{
		Name:  name,
		Owner: joinOwner(owner, qualifier),
		Range: ast.Range{
			Start: ast.Position{Line: int(node.StartPoint().Row) + 1, Column: int(node.StartPoint().Column) + 1},
			End:   ast.Position{Line: int(node.EndPoint().Row) + 1, Column: int(node.EndPoint().Column) + 1},
		},
	}

	if typeNode := node.ChildByFieldName(cppTypeField); typeNode != nil {
		sig.ReturnType = joinType(qualifiedTypeName(node, typeNode, content), suffix)
	}
	if sig.ReturnType == "auto" {
		for index := 0; index < int(declarator.NamedChildCount()); index++ {
			child := declarator.NamedChild(index)
			if child.Type() == cppTrailingReturnTypeNodeType {
				sig.ReturnType = collapse(strings.TrimPrefix(strings.TrimSpace(child.Content(content)), "->"))
			}
		}
	}

	if params := declarator.ChildByFieldName(cppParametersField); params != nil {
		for index := 0; index < int(params.NamedChildCount()); index++ {
			if param, ok := cppParameter(params.NamedChild(index), content); ok {
				sig.Params = append(sig.Params, param)
			}
		}
	}
	return sig, true
}

func cppParameter(node *sitter.Node, content []byte) (ast.Parameter, bool) {
	if node.Type() != cppParameterDeclarationType && node.Type() != cppOptionalParameterDeclType {
		return ast.Parameter{}, false
	}
	typeNode := node.ChildByFieldName(cppTypeField)
	if typeNode == nil {
		return ast.Parameter{}, false
	}

	typeName := qualifiedTypeName(node, typeNode, content)
	name, suffix := unwrapDeclarator(node.ChildByFieldName(cppDeclaratorField), content)
	if name == "" && suffix == "" && typeName == "void" {
		return ast.Parameter{}, false
	}
	return ast.Parameter{Name: name, Type: joinType(typeName, suffix)}, true
}

// unwrapDeclarator returns the declared name and the pointer, reference and
// array markers wrapped around it.
func unwrapDeclarator(node *sitter.Node, content []byte) (string, string) {
	suffix := ""
	for node != nil {
		switch node.Type() {
		case "identifier", "field_identifier":
			return node.Content(content), suffix
		case "pointer_declarator", "abstract_pointer_declarator":
			suffix += "*"
		case "reference_declarator", "abstract_reference_declarator":
			suffix += "&"
		case "array_declarator", "abstract_array_declarator":
			suffix += "[]"
		case "parenthesized_declarator", "function_declarator", "abstract_function_declarator":
		default:
			return "", suffix
		}
		node = innerDeclarator(node)
	}
	return "", suffix
}

// innerDeclarator steps into a wrapping declarator. Reference declarators have
// no declarator field; their operand is the last named child.
func innerDeclarator(node *sitter.Node) *sitter.Node {
	if inner := node.ChildByFieldName(cppDeclaratorField); inner != nil {
		return inner
	}
	if count := int(node.NamedChildCount()); count > 0 {
		last := node.NamedChild(count - 1)
		if last.Type() != cppTypeQualifierNodeType {
			return last
		}
	}
	return nil
}

// qualifiedTypeName returns the type text with any cv-qualifiers written
// before it.
func qualifiedTypeName(node, typeNode *sitter.Node, content []byte) string {
	var parts []string
	for index := 0; index < int(node.ChildCount()); index++ {
		child := node.Child(index)
		if child.StartByte() >= typeNode.StartByte() {
			break
		}
		if child.Type() == cppTypeQualifierNodeType {
			parts = append(parts, child.Content(content))
		}
	}
	parts = append(parts, collapse(typeNode.Content(content)))
	return strings.Join(parts, " ")
}

func joinType(typeName, suffix string) string {
	if suffix == "" {
		return typeName
	}
	return typeName + " " + suffix
}
