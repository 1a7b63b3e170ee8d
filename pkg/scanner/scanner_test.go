package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/classifier"
)

// lines is a LineSource over a fixed slice.
type lines []string

func (l lines) LineCount() int { return len(l) }

func (l lines) LineText(line int) string {
	if line < 1 || line > len(l) {
		return ""
	}
	return l[line-1]
}

func endOf(src lines, line int) ast.Position {
	return ast.Position{Line: line, Column: len(src.LineText(line)) + 1}
}

func TestScan(t *testing.T) {
	doc := lines{
		"int before;",
		"/*!",
		" * Brief.",
		" *",
		"   * @param x the value",
		" */",
		"  /*! inline */ int x;",
		"    /*! open",
		"     * text",
	}
	s := New('@')

	tests := []struct {
		name     string
		caret    ast.Position
		expected Context
	}{
		{
			name:     "brief line",
			caret:    endOf(doc, 3),
			expected: Context{Inside: true, IndentColumn: 1},
		},
		{
			name:     "tag line",
			caret:    endOf(doc, 5),
			expected: Context{Inside: true, IndentColumn: 3, InTagSection: true},
		},
		{
			name:     "opener line",
			caret:    endOf(doc, 2),
			expected: Context{Inside: true, IndentColumn: 1},
		},
		{
			name:     "closer line",
			caret:    endOf(doc, 6),
			expected: Context{},
		},
		{
			name:     "one line block",
			caret:    endOf(doc, 7),
			expected: Context{},
		},
		{
			name:     "code line",
			caret:    endOf(doc, 1),
			expected: Context{},
		},
		{
			name:     "indented block",
			caret:    endOf(doc, 9),
			expected: Context{Inside: true, IndentColumn: 5},
		},
		{
			name:     "caret before opener",
			caret:    ast.Position{Line: 8, Column: 3},
			expected: Context{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Scan(doc, tt.caret))
		})
	}
}

func TestScanTagSectionExtraIndent(t *testing.T) {
	doc := lines{
		"/*!",
		" * Brief.",
		" *",
		"   * @param x the value",
	}

	ctx := New('@').Scan(doc, endOf(doc, 4))
	require.True(t, ctx.Inside)
	assert.True(t, ctx.InTagSection)
	assert.Equal(t, 4, ctx.ExtraIndent(4))

	ctx = New('\\').Scan(doc, endOf(doc, 4))
	require.True(t, ctx.Inside)
	assert.False(t, ctx.InTagSection)
	assert.Equal(t, 0, ctx.ExtraIndent(4))
}

func TestScanStopsAtDocumentStart(t *testing.T) {
	doc := lines{
		"  * orphan continuation",
		"  * another",
	}
	s := New('@')

	assert.Equal(t, classifier.Outside, s.ClassifyBackward(doc, endOf(doc, 1)))
	assert.Equal(t, classifier.Outside, s.ClassifyBackward(doc, endOf(doc, 2)))
	assert.False(t, s.Scan(doc, endOf(doc, 1)).Inside)
}

func TestScanOnlyReadsPrefixOfCaretLine(t *testing.T) {
	doc := lines{"int x; /*! trailing"}
	s := New('@')

	assert.False(t, s.Scan(doc, ast.Position{Line: 1, Column: 4}).Inside)
	assert.True(t, s.Scan(doc, endOf(doc, 1)).Inside)
}

func TestComputeIndent(t *testing.T) {
	tests := []struct {
		name     string
		caret    int
		previous string
		column   int
		ok       bool
	}{
		{"to tag", 1, " * @param value The value.", 4, true},
		{"to parameter name", 4, " * @param value The value.", 11, true},
		{"to description", 11, " * @param value The value.", 17, true},
		{"past last stop", 17, " * @param value The value.", 0, false},
		{"qt tag", 4, " * \\return The count.", 12, true},
		{"plain text", 2, " * Some text", 4, true},
		{"plain text only first word", 4, " * Some text", 0, false},
		{"opener line", 1, "/*! Brief", 5, true},
		{"closer", 1, " */", 0, false},
		{"code", 1, "int x;", 0, false},
		{"bare marker", 1, " *", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			column, ok := ComputeIndent(tt.caret, tt.previous)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.column, column)
		})
	}
}
