// Package utils provides identifier and comment text helpers shared by the
// generator and the code-model resolvers.
package utils

import (
	"strings"
	"unicode"
)

// SplitIdentifier splits a C/C++ identifier into words at underscores,
// whitespace and case boundaries. Runs of capitals stay together as an
// acronym: "getHTTPResponse" -> [get HTTP Response].
func SplitIdentifier(name string) []string {
	var words []string
	runes := []rune(name)
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		if r == '_' || r == '~' || unicode.IsSpace(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}

		prev := runes[i-1]
		switch {
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			// fooBar
			flush(i)
			start = i
		case unicode.IsUpper(r) && unicode.IsDigit(prev):
			// foo2Bar
			flush(i)
			start = i
		case unicode.IsLower(r) && unicode.IsUpper(prev) && i-1 > start:
			// HTTPResponse: the R belongs to the next word
			flush(i - 1)
			start = i - 1
		}
	}
	flush(len(runes))

	return words
}

// Unabbreviate expands each word through the abbreviation table. Lookups are
// case-insensitive; words without an entry are lower-cased. The result is
// space-joined.
func Unabbreviate(words []string, abbreviations map[string]string) string {
	expanded := make([]string, 0, len(words))
	for _, word := range words {
		lower := strings.ToLower(word)
		if expansion, ok := abbreviations[lower]; ok && expansion != "" {
			expanded = append(expanded, expansion)
			continue
		}
		expanded = append(expanded, lower)
	}
	return strings.Join(expanded, " ")
}

// IsValidCppIdentifier checks if a string is a valid C++ identifier
func IsValidCppIdentifier(name string) bool {
	if name == "" {
		return false
	}

	// Must start with letter or underscore
	if !isLetter(rune(name[0])) && name[0] != '_' {
		return false
	}

	// Rest must be letters, digits, or underscores
	for _, char := range name[1:] {
		if !isLetter(char) && !isDigit(char) && char != '_' {
			return false
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// RemoveTemplateParams removes template arguments from a type or scope name:
// "Map<K, V>::iterator" -> "Map::iterator".
func RemoveTemplateParams(typeName string) string {
	depth := 0
	var result strings.Builder

	for _, char := range typeName {
		if char == '<' {
			depth++
		} else if char == '>' {
			if depth > 0 {
				depth--
			}
		} else if depth == 0 {
			result.WriteRune(char)
		}
	}

	return result.String()
}

// IsDoxygenComment checks if a line opens or continues a doxygen comment
func IsDoxygenComment(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "/**") ||
		strings.HasPrefix(trimmed, "///") ||
		strings.HasPrefix(trimmed, "//!") ||
		strings.HasPrefix(trimmed, "/*!")
}

// LeadingWhitespace returns the whitespace prefix of line.
func LeadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	for i, r := range s {
		if unicode.IsLetter(r) {
			return s[:i] + string(unicode.ToUpper(r)) + s[i+len(string(r)):]
		}
		if !unicode.IsSpace(r) {
			return s
		}
	}
	return s
}
