// Package codemodel finds the function-like construct a generated comment
// belongs to and describes it as an ast.Signature.
package codemodel

import (
	"strings"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/utils"
)

// Source gives read-only access to the lines of a text snapshot. Lines are
// numbered from 1.
type Source interface {
	LineCount() int
	LineText(line int) string
}

// Resolver locates functions in a source snapshot.
type Resolver interface {
	// Resolve returns the innermost function whose range contains line or,
	// failing that, the first function starting after it. A nil signature with
	// a nil error means there is no such construct.
	Resolve(src Source, line int) (*ast.Signature, error)

	// Functions lists every function in source order.
	Functions(src Source) ([]ast.Signature, error)
}

// Nearest applies the Resolve selection rule to an already collected list.
func Nearest(functions []ast.Signature, line int) *ast.Signature {
	var best *ast.Signature
	for i := range functions {
		fn := &functions[i]
		if !fn.Range.Contains(line) {
			continue
		}
		if best == nil || (fn.Range.Start.Line >= best.Range.Start.Line && fn.Range.End.Line <= best.Range.End.Line) {
			best = fn
		}
	}

	if best == nil {
		for i := range functions {
			fn := &functions[i]
			if fn.Range.Start.Line < line {
				continue
			}
			if best == nil || fn.Range.Start.Line < best.Range.Start.Line {
				best = fn
			}
		}
	}

	if best == nil {
		return nil
	}
	found := *best
	return &found
}

// booleanPrefixes are leading name words that mark a boolean query.
var booleanPrefixes = map[string]bool{
	"is":     true,
	"has":    true,
	"can":    true,
	"should": true,
	"was":    true,
}

// Shape classifies a function from its name and signature. Anything that does
// not clearly look like an accessor is Plain.
func Shape(name, returnType string, params []ast.Parameter) ast.Kind {
	words := utils.SplitIdentifier(name)
	if len(words) < 2 {
		return ast.KindPlain
	}

	verb := strings.ToLower(words[0])
	void := (&ast.Signature{ReturnType: returnType}).IsVoid()
	boolean := ast.IsBooleanType(returnType)

	switch {
	case verb == "set" && len(params) == 1 && void:
		return ast.KindSetter
	case verb == "get" && len(params) == 0 && !void:
		if boolean {
			return ast.KindBooleanGetter
		}
		return ast.KindGetter
	case booleanPrefixes[verb] && len(params) == 0 && boolean:
		return ast.KindBooleanGetter
	}
	return ast.KindPlain
}

// sourceText joins the lines of src with newlines.
func sourceText(src Source) string {
	var text strings.Builder
	for line := 1; line <= src.LineCount(); line++ {
		if line > 1 {
			text.WriteByte('\n')
		}
		text.WriteString(src.LineText(line))
	}
	return text.String()
}

// resolve is the Resolve implementation shared by both resolvers.
func resolve(r Resolver, src Source, line int) (*ast.Signature, error) {
	functions, err := r.Functions(src)
	if err != nil {
		return nil, err
	}
	return Nearest(functions, line), nil
}

// finish derives the kind once name, return type and parameters are known.
func finish(sig ast.Signature) ast.Signature {
	if sig.Params == nil {
		sig.Params = []ast.Parameter{}
	}
	if sig.IsSpecialMember() {
		sig.Kind = ast.KindPlain
		return sig
	}
	sig.Kind = Shape(sig.Name, sig.ReturnType, sig.Params)
	return sig
}

// splitQualified splits "a::b::name" into "a::b" and "name". Template
// arguments are dropped.
func splitQualified(qualified string) (string, string) {
	qualified = strings.TrimSpace(utils.RemoveTemplateParams(qualified))
	if i := strings.LastIndex(qualified, "::"); i >= 0 {
		return qualified[:i], qualified[i+2:]
	}
	return "", qualified
}

// joinOwner combines the enclosing class scope with a name qualifier.
func joinOwner(scope, qualifier string) string {
	switch {
	case scope == "":
		return qualifier
	case qualifier == "":
		return scope
	}
	return scope + "::" + qualifier
}
