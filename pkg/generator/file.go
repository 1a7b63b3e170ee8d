package generator

import (
	"strings"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/classifier"
	"autodoxy/pkg/config"
)

// FileCommentBriefLine is the 0-based line of the brief tag within a file
// comment.
const FileCommentBriefLine = 2

// GenerateFileComment builds the header comment for the top of a file. It
// returns the text and the 0-based line, relative to the first line of the
// text, where the caret should go. The author falls back to the configured
// one; author and date lines are left out when empty.
func GenerateFileComment(meta ast.DocumentMetadata, cfg *config.Configuration) (string, int) {
	if cfg == nil {
		cfg = config.Default()
	}
	tag := " * " + string(cfg.TagChar())

	author := meta.Author
	if author == "" {
		author = cfg.Author
	}

	lines := []string{
		classifier.BlockOpener,
		strings.TrimRight(tag+TagFile+" "+meta.FileName, " "),
		tag + TagBrief + " ",
	}

	var details []string
	if author != "" {
		details = append(details, tag+TagAuthor+" "+author)
	}
	if meta.Date != "" {
		details = append(details, tag+TagDate+" "+meta.Date)
	}
	if len(details) > 0 {
		lines = append(lines, GenerateTagStartLine(""))
		lines = append(lines, details...)
	}

	lines = append(lines, " "+classifier.BlockCloser)
	return strings.Join(lines, "\n"), FileCommentBriefLine
}
