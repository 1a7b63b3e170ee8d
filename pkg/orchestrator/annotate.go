package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/classifier"
	"autodoxy/pkg/generator"
	"autodoxy/pkg/utils"
)

// Annotate generates a comment for every function that is not already
// documented and returns the insertions together with the functions they
// document. Edits are ordered from the bottom of the buffer up, so each one
// stays valid after the previous ones are applied.
func (o *Orchestrator) Annotate(buf Buffer) ([]Edit, []ast.Signature, error) {
	if o.resolver == nil {
		return nil, nil, nil
	}
	cfg := o.settings.Current()

	functions, err := o.resolver.Functions(buf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list functions: %w", err)
	}

	var pending []ast.Signature
	seen := make(map[int]bool)
	for _, fn := range functions {
		line := fn.Range.Start.Line
		if seen[line] || nested(fn, functions) || documented(buf, line) {
			continue
		}
		seen[line] = true
		pending = append(pending, fn)
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Range.Start.Line > pending[j].Range.Start.Line
	})

	edits := make([]Edit, 0, len(pending))
	for i := range pending {
		fn := &pending[i]
		indent := utils.LeadingWhitespace(buf.LineText(fn.Range.Start.Line))
		comment := generator.Generate(indent, fn, cfg)
		text := comment.Render(cfg.LineWidth)
		edits = append(edits, Insert(ast.Position{Line: fn.Range.Start.Line, Column: 1}, indent+text+"\n"))

		o.logger.Debug("annotating function",
			zap.String("name", fn.QualifiedName()),
			zap.Int("line", fn.Range.Start.Line))
	}
	return edits, pending, nil
}

// nested reports whether fn lies strictly inside another function, such as a
// local declaration in a function body.
func nested(fn ast.Signature, functions []ast.Signature) bool {
	for _, other := range functions {
		if other.Range == fn.Range {
			continue
		}
		if other.Range.Start.Line < fn.Range.Start.Line && other.Range.End.Line >= fn.Range.End.Line {
			return true
		}
	}
	return false
}

// documented reports whether the closest non-blank line above line ends a
// block comment or is a Doxygen comment line.
func documented(buf Buffer, line int) bool {
	for l := line - 1; l >= 1; l-- {
		trimmed := strings.TrimSpace(buf.LineText(l))
		if trimmed == "" {
			continue
		}
		return strings.HasSuffix(trimmed, classifier.BlockCloser) || utils.IsDoxygenComment(trimmed)
	}
	return false
}
