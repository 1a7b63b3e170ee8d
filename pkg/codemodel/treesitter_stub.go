//go:build !cgo

package codemodel

// NewDefaultResolver returns the lexical resolver when cgo is unavailable and
// the tree-sitter bindings cannot be built.
func NewDefaultResolver() Resolver {
	return NewLexicalResolver()
}
