// Package scanner walks backwards from the caret to decide whether it sits
// inside a Doxygen block and which indentation applies there.
package scanner

import (
	"regexp"
	"strings"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/classifier"
)

// LineSource gives read-only access to the lines of a text snapshot. Lines are
// numbered from 1.
type LineSource interface {
	LineCount() int
	LineText(line int) string
}

// Context is the comment context at the caret.
type Context struct {
	Inside       bool // Caret is inside a /*! block
	IndentColumn int  // 0-based index of the first '*' on the caret line
	InTagSection bool // A tag line precedes the caret within the block
}

// ExtraIndent returns the indentation to add after the comment marker on a new
// line: tagIndentation inside a tag section, 0 otherwise.
func (c Context) ExtraIndent(tagIndentation int) int {
	if c.InTagSection {
		return tagIndentation
	}
	return 0
}

// Scanner carries the tag-section pattern for one tag character.
type Scanner struct {
	tagSection *regexp.Regexp
}

// New creates a scanner recognising tag sections that use tagChar.
func New(tagChar rune) *Scanner {
	return &Scanner{tagSection: classifier.TagSectionPattern(tagChar)}
}

// Scan computes the comment context at caret. The caret line is classified up
// to the caret only; earlier lines are classified in full.
func (s *Scanner) Scan(src LineSource, caret ast.Position) Context {
	caretLine := src.LineText(caret.Line)
	status := s.ClassifyBackward(src, caret)
	if status != classifier.Inside {
		return Context{}
	}

	indent := strings.IndexByte(caretLine, '*')
	if indent < 0 {
		indent = 0
	}

	return Context{
		Inside:       true,
		IndentColumn: indent,
		InTagSection: s.inTagSection(src, caret.Line),
	}
}

// ClassifyBackward resolves the classification of the caret line, stepping to
// earlier lines while the result is Continuation. Reaching the start of the
// document counts as Outside.
func (s *Scanner) ClassifyBackward(src LineSource, caret ast.Position) classifier.Classification {
	status := classifier.Classify(prefix(src.LineText(caret.Line), caret.Column))

	for line := caret.Line; status == classifier.Continuation; {
		line--
		if line < 1 {
			return classifier.Outside
		}
		status = classifier.Classify(src.LineText(line))
	}
	return status
}

// inTagSection walks upward from line until the block opener, looking for a
// tag line. The opener line itself is not inspected.
func (s *Scanner) inTagSection(src LineSource, line int) bool {
	for ; line >= 1; line-- {
		text := src.LineText(line)
		if strings.Contains(text, classifier.BlockOpener) {
			return false
		}
		if s.IsTagLine(strings.TrimLeft(text, " \t")) {
			return true
		}
	}
	return false
}

// IsTagLine reports whether line is a tag line for this scanner's tag char.
func (s *Scanner) IsTagLine(line string) bool {
	return s.tagSection.MatchString(line)
}

// prefix returns the part of line before the 1-based caret column.
func prefix(line string, column int) string {
	n := column - 1
	if n < 0 {
		n = 0
	}
	if n > len(line) {
		n = len(line)
	}
	return line[:n]
}
