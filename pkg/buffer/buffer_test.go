package buffer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/codemodel"
	"autodoxy/pkg/config"
	"autodoxy/pkg/orchestrator"
)

func pos(line, column int) ast.Position {
	return ast.Position{Line: line, Column: column}
}

func TestLines(t *testing.T) {
	b := NewFromContent("a.cpp", "first\nsecond\n")

	assert.Equal(t, 3, b.LineCount())
	assert.Equal(t, "first", b.LineText(1))
	assert.Equal(t, "second", b.LineText(2))
	assert.Equal(t, "", b.LineText(3))
	assert.Equal(t, "", b.LineText(4))
	assert.Equal(t, "", b.LineText(0))
	assert.Equal(t, "a.cpp", b.FileName())
	assert.Equal(t, pos(1, 1), b.Caret())
	assert.False(t, b.IsModified())
}

func TestApply(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		edits       []orchestrator.Edit
		wantContent string
		wantCaret   ast.Position
	}{
		{
			name:        "insert single line",
			content:     "int x;",
			edits:       []orchestrator.Edit{orchestrator.Insert(pos(1, 5), "y")},
			wantContent: "int yx;",
			wantCaret:   pos(1, 6),
		},
		{
			name:        "insert across lines",
			content:     "ab",
			edits:       []orchestrator.Edit{orchestrator.Insert(pos(1, 2), "1\n22\n333")},
			wantContent: "a1\n22\n333b",
			wantCaret:   pos(3, 4),
		},
		{
			name:        "delete across lines",
			content:     "one\ntwo\nthree",
			edits:       []orchestrator.Edit{orchestrator.Delete(pos(1, 3), pos(3, 2))},
			wantContent: "onhree",
			wantCaret:   pos(1, 3),
		},
		{
			name:    "delete insert move",
			content: "x\n//",
			edits: []orchestrator.Edit{
				orchestrator.Delete(pos(2, 1), pos(2, 3)),
				orchestrator.Insert(pos(2, 1), "/*!\n * \n */"),
				orchestrator.MoveCaret(pos(3, 4)),
			},
			wantContent: "x\n/*!\n * \n */",
			wantCaret:   pos(3, 4),
		},
		{
			name:        "append at end of line",
			content:     "abc",
			edits:       []orchestrator.Edit{orchestrator.Insert(pos(1, 4), "\n")},
			wantContent: "abc\n",
			wantCaret:   pos(2, 1),
		},
		{
			name:        "move caret past end of line",
			content:     "abc",
			edits:       []orchestrator.Edit{orchestrator.MoveCaret(pos(1, 9))},
			wantContent: "abc",
			wantCaret:   pos(1, 9),
		},
		{
			name:    "insert past end of line pads with spaces",
			content: "/*!\n *\n */",
			edits: []orchestrator.Edit{
				orchestrator.MoveCaret(pos(2, 11)),
				orchestrator.Insert(pos(2, 11), "x"),
			},
			wantContent: "/*!\n *        x\n */",
			wantCaret:   pos(2, 12),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromContent("", tt.content)
			require.NoError(t, b.Apply(tt.edits))
			assert.Equal(t, tt.wantContent, b.Content())
			assert.Equal(t, tt.wantCaret, b.Caret())
		})
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		edit orchestrator.Edit
	}{
		{"line past end", orchestrator.Insert(pos(3, 1), "x")},
		{"line zero", orchestrator.MoveCaret(pos(0, 1))},
		{"delete past end", orchestrator.Delete(pos(1, 2), pos(1, 6))},
		{"column zero", orchestrator.Insert(pos(1, 0), "x")},
		{"caret column zero", orchestrator.MoveCaret(pos(2, 0))},
		{"reversed delete", orchestrator.Delete(pos(2, 1), pos(1, 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromContent("", "abc\ndef")
			err := b.Apply([]orchestrator.Edit{tt.edit})
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.Equal(t, "abc\ndef", b.Content())
		})
	}

	b := NewFromContent("", "abc")
	assert.Error(t, b.Apply([]orchestrator.Edit{{Kind: orchestrator.EditKind(9), Start: pos(1, 1)}}))
}

func TestSetCaret(t *testing.T) {
	b := NewFromContent("", "abc\nde")
	require.NoError(t, b.SetCaret(pos(2, 3)))
	assert.Equal(t, pos(2, 3), b.Caret())

	// Virtual space past the end of a line.
	require.NoError(t, b.SetCaret(pos(2, 7)))
	assert.Equal(t, pos(2, 7), b.Caret())
	assert.Equal(t, "abc\nde", b.Content())

	assert.ErrorIs(t, b.SetCaret(pos(3, 1)), ErrOutOfRange)
	assert.ErrorIs(t, b.SetCaret(pos(1, 0)), ErrOutOfRange)
	assert.Equal(t, pos(2, 7), b.Caret())
}

func TestCRLF(t *testing.T) {
	b := NewFromContent("", "a\r\nb\r\n")
	assert.Equal(t, "a", b.LineText(1))
	require.NoError(t, b.Apply([]orchestrator.Edit{orchestrator.Insert(pos(2, 2), "\nc")}))
	assert.Equal(t, "a\r\nb\r\nc\r\n", b.Content())
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.h")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0644))

	b, err := NewFromFile(path)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(b.FileName()))

	require.NoError(t, b.Apply([]orchestrator.Edit{orchestrator.Insert(pos(1, 1), "// x\n")}))
	assert.True(t, b.IsModified())
	require.NoError(t, b.Save())
	assert.False(t, b.IsModified())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "// x\nint x;\n", string(data))

	_, err = NewFromFile(filepath.Join(t.TempDir(), "missing.h"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Error(t, NewFromContent("", "").Save())
}

func newOrchestrator() *orchestrator.Orchestrator {
	clock := func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return orchestrator.New(config.NewStore(nil, nil), codemodel.NewLexicalResolver(), orchestrator.WithClock(clock))
}

func TestTypingSession(t *testing.T) {
	o := newOrchestrator()
	b := NewFromContent("/src/widget.h", "class Widget {\npublic:\n    /*\n    bool isEmpty() const;\n};")

	// Typing '!' completes the trigger.
	caret := pos(3, 7)
	require.True(t, orchestrator.IsCommentTrigger(b.LineText(3)[:caret.Column-1], '!'))
	require.NoError(t, b.Apply(o.TriggerTyped(b, caret)))

	want := "class Widget {\npublic:\n" +
		"    /*!\n" +
		"     * Returns true if the widget is empty.\n" +
		"     *\n" +
		"     * @return True if the widget is empty. False if not.\n" +
		"     */\n" +
		"    bool isEmpty() const;\n};"
	assert.Equal(t, want, b.Content())
	assert.Equal(t, pos(4, len("     * Returns true if the widget is empty.")+1), b.Caret())

	// Enter at the end of the brief continues the block.
	require.NoError(t, b.Apply(o.NewlineInComment(b, b.Caret())))
	assert.Equal(t, "     * ", b.LineText(5))
	assert.Equal(t, pos(5, 8), b.Caret())
}

func TestTriggerBeforeClosedComment(t *testing.T) {
	o := newOrchestrator()
	b := NewFromContent("/src/widget.h", "int x;\n  /*\nint getX();\n/*! Y. */\nvoid setEnabled(bool enabled);")

	require.NoError(t, b.Apply(o.TriggerTyped(b, pos(2, 5))))

	want := "int x;\n" +
		"  /*!\n" +
		"   * Returns the x.\n" +
		"   *\n" +
		"   * @return The x.\n" +
		"   */\n" +
		"int getX();\n/*! Y. */\nvoid setEnabled(bool enabled);"
	assert.Equal(t, want, b.Content())
}

func TestTabAtEndOfLine(t *testing.T) {
	o := newOrchestrator()
	b := NewFromContent("/src/a.h", "/*!\n * @param value The value.\n *\n */")

	edits, ok := o.TabPressed(b, pos(3, 3), false)
	require.True(t, ok)
	require.NoError(t, b.Apply(edits))
	assert.Equal(t, pos(3, 4), b.Caret())

	edits, ok = o.TabPressed(b, b.Caret(), false)
	require.True(t, ok)
	require.NoError(t, b.Apply(edits))
	assert.Equal(t, pos(3, 11), b.Caret())
	assert.False(t, b.IsModified())

	require.NoError(t, b.Apply([]orchestrator.Edit{orchestrator.Insert(b.Caret(), "The")}))
	assert.Equal(t, " *        The", b.LineText(3))
	assert.Equal(t, pos(3, 14), b.Caret())
}

func TestAnnotateFile(t *testing.T) {
	b := NewFromContent("/src/math.h", "int add(int a, int b);\n\nvoid reset();\n")

	edits, functions, err := newOrchestrator().Annotate(b)
	require.NoError(t, err)
	require.Len(t, functions, 2)
	require.NoError(t, b.Apply(edits))

	want := "/*!\n * Add.\n *\n * @param a A.\n * @param b B.\n * @return\n */\n" +
		"int add(int a, int b);\n\n" +
		"/*!\n * Reset.\n */\n" +
		"void reset();\n"
	assert.Equal(t, want, b.Content())
}
