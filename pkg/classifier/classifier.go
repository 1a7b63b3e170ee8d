// Package classifier decides, from a single line of text, whether the end of
// that line lies inside a /*! ... */ Doxygen block.
//
// The classifier is lexical and line-local. It never tokenizes the whole
// buffer; lines that cannot be decided alone are reported as Continuation and
// the caller walks backwards (see package scanner).
package classifier

import (
	"regexp"
	"strings"
)

const (
	// BlockOpener starts a Doxygen block comment.
	BlockOpener = "/*!"
	// BlockCloser ends any block comment.
	BlockCloser = "*/"
	// LineCommentOpener starts a single-line comment.
	LineCommentOpener = "//"
)

// Classification is the comment status at the end of a line.
type Classification int

const (
	// Outside means the line ends outside a Doxygen block.
	Outside Classification = iota
	// Inside means the line ends inside a Doxygen block.
	Inside
	// Continuation means the line starts with an asterisk and has no comment
	// delimiters; the previous line decides.
	Continuation
)

func (c Classification) String() string {
	switch c {
	case Inside:
		return "inside"
	case Continuation:
		return "continuation"
	default:
		return "outside"
	}
}

// FindLastUnquotedToken returns the index of the rightmost occurrence of token
// that is neither inside a string literal nor after a // comment opener, or -1.
//
// String literals are detected by the parity of double quotes before the
// occurrence. Escaped quotes are not recognised.
func FindLastUnquotedToken(line, token string) int {
	if token == "" {
		return -1
	}

	lineComment := findFirstUnquoted(line, LineCommentOpener)
	limit := len(line)
	for limit > 0 {
		index := strings.LastIndex(line[:limit], token)
		if index < 0 {
			return -1
		}
		if (lineComment < 0 || index < lineComment) && !insideString(line, index) {
			return index
		}
		// Retry further left; overlapping occurrences are allowed.
		limit = index + len(token) - 1
	}
	return -1
}

// findFirstUnquoted returns the leftmost occurrence of token outside a string
// literal, or -1.
func findFirstUnquoted(line, token string) int {
	offset := 0
	for offset < len(line) {
		index := strings.Index(line[offset:], token)
		if index < 0 {
			return -1
		}
		index += offset
		if !insideString(line, index) {
			return index
		}
		offset = index + 1
	}
	return -1
}

func insideString(line string, index int) bool {
	return strings.Count(line[:index], `"`)%2 == 1
}

// Classify reports whether the end of line is inside a Doxygen block.
func Classify(line string) Classification {
	start := FindLastUnquotedToken(line, BlockOpener)
	end := strings.LastIndex(line, BlockCloser)

	if start >= 0 {
		switch {
		case end < 0:
			return Inside
		case start < end:
			// Opens and closes on the same line.
			return Outside
		default:
			// Closes one block and opens another later on.
			return Inside
		}
	}

	if end >= 0 {
		return Outside
	}
	if strings.HasPrefix(strings.TrimLeft(line, " \t"), "*") {
		return Continuation
	}
	return Outside
}

// TagSectionPattern matches a comment line that starts a tag section: an
// asterisk, whitespace, the tag character, a lowercase tag name, whitespace
// and some text, e.g. " * @param value The value.".
func TagSectionPattern(tagChar rune) *regexp.Regexp {
	return regexp.MustCompile(`\*\s+` + regexp.QuoteMeta(string(tagChar)) + `([a-z]+)\s+(.+)$`)
}
