// Package ast defines the value types shared by the classifier, generator and
// orchestrator: source positions, function signatures and document metadata.
package ast

import (
	"strings"
)

// Position represents a position in a text buffer. Line and Column are both
// 1-based; Column c is the gap before byte c-1 of the line.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range represents a range in the source file
type Range struct {
	Start Position
	End   Position
}

// Contains reports whether line lies within the range (inclusive).
func (r Range) Contains(line int) bool {
	return line >= r.Start.Line && line <= r.End.Line
}

// Kind classifies a function by the shape of its name and signature. It selects
// the phrasing templates used for smart comments.
type Kind int

const (
	KindPlain Kind = iota
	KindGetter
	KindBooleanGetter
	KindSetter
)

func (k Kind) String() string {
	switch k {
	case KindGetter:
		return "getter"
	case KindBooleanGetter:
		return "boolean-getter"
	case KindSetter:
		return "setter"
	default:
		return "plain"
	}
}

// Parameter is a single function parameter.
type Parameter struct {
	Name string // Parameter name, empty for unnamed parameters
	Type string // Type as written, e.g. "const std::string &"
}

// IsInput reports whether the parameter is an input. A const token makes it an
// input regardless of what follows; otherwise a & or * marks it as output.
func (p Parameter) IsInput() bool {
	isInput := true
	for _, token := range TypeTokens(p.Type) {
		if token == "const" {
			return true
		}
		if token == "&" || token == "*" {
			isInput = false
		}
	}
	return isInput
}

// IsBoolean reports whether the parameter's base type is a boolean.
func (p Parameter) IsBoolean() bool {
	return IsBooleanType(p.Type)
}

// Signature describes a function-like construct to document.
type Signature struct {
	Name       string      // Function name without qualification
	Owner      string      // Enclosing class or namespace qualifier, may be empty
	Params     []Parameter // Parameters in declaration order
	ReturnType string      // Return type, empty for constructors/destructors
	Kind       Kind        // Getter/setter classification
	Range      Range       // Range of the declaration in the source
}

// IsVoid reports whether the function returns nothing.
func (s *Signature) IsVoid() bool {
	tokens := TypeTokens(s.ReturnType)
	if len(tokens) == 0 {
		return true
	}
	for _, token := range tokens {
		if token == "*" {
			return false
		}
	}
	return tokens[len(tokens)-1] == "void"
}

// IsSpecialMember reports whether the function is a constructor or destructor.
func (s *Signature) IsSpecialMember() bool {
	if strings.HasPrefix(s.Name, "~") {
		return true
	}
	return s.ReturnType == "" && s.Owner != "" && lastSegment(s.Owner) == s.Name
}

// QualifiedName returns Owner::Name, or just Name for free functions.
func (s *Signature) QualifiedName() string {
	if s.Owner == "" {
		return s.Name
	}
	return s.Owner + "::" + s.Name
}

// DocumentMetadata is what the host knows about the document when a file
// header comment is requested.
type DocumentMetadata struct {
	FileName string // Base name of the file
	Author   string // Author to record, may be empty
	Date     string // Date to record, preformatted by the caller
}

// TypeTokens splits a C/C++ type string into tokens, separating & and * from
// adjacent identifiers.
func TypeTokens(typeName string) []string {
	var spaced strings.Builder
	for _, r := range typeName {
		switch r {
		case '&', '*':
			spaced.WriteByte(' ')
			spaced.WriteRune(r)
			spaced.WriteByte(' ')
		default:
			spaced.WriteRune(r)
		}
	}
	return strings.Fields(spaced.String())
}

// IsBooleanType reports whether typeName names a boolean value or a reference
// to one. Pointers to booleans are not booleans.
func IsBooleanType(typeName string) bool {
	found := false
	for _, token := range TypeTokens(typeName) {
		switch token {
		case "bool", "_Bool", "BOOL", "gboolean":
			found = true
		case "*":
			return false
		}
	}
	return found
}

func lastSegment(qualified string) string {
	if i := strings.LastIndex(qualified, "::"); i >= 0 {
		return qualified[i+2:]
	}
	return qualified
}
