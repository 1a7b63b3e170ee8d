package scanner

import (
	"strings"

	"autodoxy/pkg/classifier"
)

// maxTagStops bounds the alignment stops taken from a tag line: the tag, the
// parameter name and the start of the description.
const maxTagStops = 3

// ComputeIndent picks the column a tab press should move the caret to, using
// the previous line as a ruler. Columns are 1-based. It returns false when the
// previous line is not a comment line or offers no stop right of the caret.
func ComputeIndent(caretColumn int, previousLine string) (int, bool) {
	for _, stop := range alignmentStops(previousLine) {
		if stop > caretColumn {
			return stop, true
		}
	}
	return 0, false
}

// alignmentStops returns the 1-based columns where words begin after the
// comment marker of line.
func alignmentStops(line string) []int {
	markerEnd := commentMarkerEnd(line)
	if markerEnd < 0 {
		return nil
	}

	limit := 1
	var stops []int
	inWord := false
	for i := markerEnd; i < len(line); i++ {
		c := line[i]
		if c == ' ' || c == '\t' {
			inWord = false
			continue
		}
		if inWord {
			continue
		}
		inWord = true
		if len(stops) == 0 && (c == '@' || c == '\\') {
			limit = maxTagStops
		}
		stops = append(stops, i+1)
		if len(stops) == limit {
			break
		}
	}
	return stops
}

// commentMarkerEnd returns the byte index just past the comment marker ("/*!"
// or the leading '*'), or -1 when line is not a comment line.
func commentMarkerEnd(line string) int {
	if i := classifier.FindLastUnquotedToken(line, classifier.BlockOpener); i >= 0 {
		return i + len(classifier.BlockOpener)
	}

	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, classifier.BlockCloser) {
		return -1
	}
	return len(line) - len(trimmed) + 1
}
