package generator

import (
	"regexp"
	"strconv"
	"strings"

	"autodoxy/pkg/utils"
)

var placeholderPattern = regexp.MustCompile(`\{(\d+)\}`)

// format substitutes positional placeholders. A placeholder whose index has no
// argument is left as written.
func format(template string, args ...string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		index, err := strconv.Atoi(match[1 : len(match)-1])
		if err != nil || index >= len(args) {
			return match
		}
		return args[index]
	})
}

// sentence collapses whitespace, capitalises the first letter and makes the
// text end with exactly one period. Empty input stays empty.
func sentence(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimRight(text, ". ")
	if text == "" {
		return ""
	}
	return utils.Capitalize(text) + "."
}
