// Package buffer is a minimal text host for the edit orchestrator. It holds a
// file's lines and a caret, answers line queries and applies edit lists.
package buffer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/orchestrator"
)

// ErrOutOfRange is returned for positions outside the buffer.
var ErrOutOfRange = errors.New("position out of range")

// Buffer is an editable text with a caret. Lines are numbered from 1.
type Buffer struct {
	filename string
	text     string // Content with "\n" line endings
	lines    []string
	caret    ast.Position
	crlf     bool
	modified bool
}

// NewFromFile loads a file.
func NewFromFile(filename string) (*Buffer, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", filename, err)
	}

	return NewFromContent(absPath, string(content)), nil
}

// NewFromContent creates a buffer from content with a given name. The caret
// starts at the beginning of the text.
func NewFromContent(name, content string) *Buffer {
	b := &Buffer{
		filename: name,
		crlf:     strings.Contains(content, "\r\n"),
		caret:    ast.Position{Line: 1, Column: 1},
	}
	b.setText(strings.ReplaceAll(content, "\r\n", "\n"))
	return b
}

func (b *Buffer) setText(text string) {
	b.text = text
	b.lines = strings.Split(text, "\n")
}

// LineCount returns the number of lines. An empty buffer has one empty line.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// LineText returns the text of a line without its terminator, or "" when the
// line does not exist.
func (b *Buffer) LineText(line int) string {
	if line < 1 || line > len(b.lines) {
		return ""
	}
	return b.lines[line-1]
}

// FileName returns the buffer's filename.
func (b *Buffer) FileName() string {
	return b.filename
}

// Content returns the text with the original line endings.
func (b *Buffer) Content() string {
	if b.crlf {
		return strings.ReplaceAll(b.text, "\n", "\r\n")
	}
	return b.text
}

// IsModified reports whether an edit has changed the text.
func (b *Buffer) IsModified() bool {
	return b.modified
}

// Caret returns the caret position.
func (b *Buffer) Caret() ast.Position {
	return b.caret
}

// SetCaret moves the caret. The column may lie past the end of the line, as
// in an editor with virtual space; the gap is filled with spaces by the next
// insertion there.
func (b *Buffer) SetCaret(p ast.Position) error {
	if err := b.check(p); err != nil {
		return err
	}
	b.caret = p
	return nil
}

// Apply applies edits in order. Each edit sees the text left by the previous
// one. Delete leaves the caret at its start and Insert after the inserted
// text. An insertion past the end of a line first pads the line with spaces.
// On error the edits already applied stay applied.
func (b *Buffer) Apply(edits []orchestrator.Edit) error {
	for i, edit := range edits {
		if err := b.apply(edit); err != nil {
			return fmt.Errorf("edit %d (%s): %w", i, edit.Kind, err)
		}
	}
	return nil
}

func (b *Buffer) apply(edit orchestrator.Edit) error {
	switch edit.Kind {
	case orchestrator.EditDelete:
		start, err := b.offset(edit.Start)
		if err != nil {
			return err
		}
		end, err := b.offset(edit.End)
		if err != nil {
			return err
		}
		if end < start {
			return fmt.Errorf("%w: end %v before start %v", ErrOutOfRange, edit.End, edit.Start)
		}
		b.setText(b.text[:start] + b.text[end:])
		b.caret = edit.Start
		b.modified = true

	case orchestrator.EditInsert:
		if err := b.check(edit.Start); err != nil {
			return err
		}
		b.pad(edit.Start)
		start, err := b.offset(edit.Start)
		if err != nil {
			return err
		}
		b.setText(b.text[:start] + edit.Text + b.text[start:])
		b.caret = b.position(start + len(edit.Text))
		b.modified = true

	case orchestrator.EditMoveCaret:
		if err := b.check(edit.Start); err != nil {
			return err
		}
		b.caret = edit.Start

	default:
		return fmt.Errorf("unsupported edit kind %s", edit.Kind)
	}
	return nil
}

// check validates a caret position. Columns past the end of the line are
// allowed.
func (b *Buffer) check(p ast.Position) error {
	if p.Line < 1 || p.Line > len(b.lines) {
		return fmt.Errorf("%w: line %d of %d", ErrOutOfRange, p.Line, len(b.lines))
	}
	if p.Column < 1 {
		return fmt.Errorf("%w: column %d of line %d", ErrOutOfRange, p.Column, p.Line)
	}
	return nil
}

// pad appends spaces to the line of p until p is at most one past its end.
func (b *Buffer) pad(p ast.Position) {
	line := b.lines[p.Line-1]
	missing := p.Column - 1 - len(line)
	if missing <= 0 {
		return
	}
	b.lines[p.Line-1] = line + strings.Repeat(" ", missing)
	b.setText(strings.Join(b.lines, "\n"))
}

// offset converts a position to a byte offset into the text. The column may
// be one past the end of the line.
func (b *Buffer) offset(p ast.Position) (int, error) {
	if p.Line < 1 || p.Line > len(b.lines) {
		return 0, fmt.Errorf("%w: line %d of %d", ErrOutOfRange, p.Line, len(b.lines))
	}
	line := b.lines[p.Line-1]
	if p.Column < 1 || p.Column > len(line)+1 {
		return 0, fmt.Errorf("%w: column %d of line %d", ErrOutOfRange, p.Column, p.Line)
	}

	offset := 0
	for _, l := range b.lines[:p.Line-1] {
		offset += len(l) + 1
	}
	return offset + p.Column - 1, nil
}

func (b *Buffer) position(offset int) ast.Position {
	before := b.text[:offset]
	line := strings.Count(before, "\n") + 1
	return ast.Position{Line: line, Column: offset - (strings.LastIndex(before, "\n") + 1) + 1}
}

// Save writes the buffer back to its file.
func (b *Buffer) Save() error {
	if b.filename == "" {
		return errors.New("buffer has no filename")
	}
	return b.SaveAs(b.filename)
}

// SaveAs writes the buffer to filename.
func (b *Buffer) SaveAs(filename string) error {
	if err := os.WriteFile(filename, []byte(b.Content()), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	b.filename = filename
	b.modified = false
	return nil
}

// String returns a one-line summary.
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer{file: %s, lines: %d, caret: %d:%d, modified: %t}",
		b.filename, len(b.lines), b.caret.Line, b.caret.Column, b.modified)
}
