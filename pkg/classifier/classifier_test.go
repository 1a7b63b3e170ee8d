package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindLastUnquotedToken(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		token    string
		expected int
	}{
		{"plain occurrence", "int x; /*! doc", "/*!", 7},
		{"rightmost wins", "/*! a */ /*! b", "/*!", 9},
		{"after line comment", "int x = 1; // /*! not a comment", "/*!", -1},
		{"before line comment", "/*! a // b", "/*!", 0},
		{"inside string", `const char* s = "/*!";`, "/*!", -1},
		{"retries left of string", `/*! x "/*!"`, "/*!", 0},
		{"line comment inside string ignored", `f("http://x"); /*! doc`, "/*!", 15},
		{"after closed string", `s = "a"; /*!`, "/*!", 9},
		{"missing", "int x;", "/*!", -1},
		{"empty token", "int x;", "", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindLastUnquotedToken(tt.line, tt.token))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Classification
	}{
		{"opener without closer", "/*! Brief", Inside},
		{"indented opener", "    /*!", Inside},
		{"opener after code", "int x; /*! trailing", Inside},
		{"opens and closes", "/*! one liner */", Outside},
		{"closes then reopens", "*/ int x; /*! next", Inside},
		{"continuation", "   * @param x the value", Continuation},
		{"bare asterisk", "*", Continuation},
		{"closer only", "   */", Outside},
		{"code", "int main() {", Outside},
		{"empty", "", Outside},
		{"opener in line comment", "int x = 1; // /*! not a comment", Outside},
		{"opener in string", `puts("/*!");`, Outside},
		{"plain block comment", "/* not doxygen", Outside},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.line))
		})
	}
}

func TestClassifyOpenerWithoutCloserIsInside(t *testing.T) {
	prefixes := []string{"", "  ", "\t", "void f(); ", `s = "x"; `}
	suffixes := []string{"", " brief", " @brief text", " * star"}
	for _, prefix := range prefixes {
		for _, suffix := range suffixes {
			line := prefix + "/*!" + suffix
			assert.Equal(t, Inside, Classify(line), "line %q", line)
		}
	}
}

func TestClassificationString(t *testing.T) {
	assert.Equal(t, "inside", Inside.String())
	assert.Equal(t, "outside", Outside.String())
	assert.Equal(t, "continuation", Continuation.String())
}

func TestTagSectionPattern(t *testing.T) {
	javadoc := TagSectionPattern('@')
	qt := TagSectionPattern('\\')

	assert.True(t, javadoc.MatchString("   * @param x the value"))
	assert.True(t, javadoc.MatchString(" * @return The count."))
	assert.False(t, javadoc.MatchString(" * @param"))
	assert.False(t, javadoc.MatchString(" * \\param x the value"))
	assert.False(t, javadoc.MatchString(" * plain text"))

	assert.True(t, qt.MatchString(" * \\param x the value"))
	assert.False(t, qt.MatchString(" * @param x the value"))
}
