// Package orchestrator turns editor events into edit instructions. It never
// mutates a buffer; the host applies the returned edits.
package orchestrator

import (
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/codemodel"
	"autodoxy/pkg/config"
	"autodoxy/pkg/generator"
	"autodoxy/pkg/scanner"
	"autodoxy/pkg/utils"
)

// DateLayout formats the date recorded in file comments.
const DateLayout = "2006-01-02"

// Buffer is read-only access to the edited text. Lines are numbered from 1.
type Buffer interface {
	LineCount() int
	LineText(line int) string
}

// Named is implemented by buffers backed by a file.
type Named interface {
	FileName() string
}

// Settings supplies the configuration snapshot. It is read once per event.
type Settings interface {
	Current() *config.Configuration
}

// Orchestrator reacts to comment triggers, newlines and tabs.
type Orchestrator struct {
	settings Settings
	resolver codemodel.Resolver
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the clock used for file comment dates.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an orchestrator. A nil resolver means no function is ever
// found, so every comment is skeletal.
func New(settings Settings, resolver codemodel.Resolver, options ...Option) *Orchestrator {
	o := &Orchestrator{
		settings: settings,
		resolver: resolver,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, option := range options {
		option(o)
	}
	return o
}

// IsCommentTrigger reports whether typing typed after linePrefix completes
// "///" or "/*!" on an otherwise blank line.
func IsCommentTrigger(linePrefix string, typed rune) bool {
	if typed != '/' && typed != '!' {
		return false
	}
	trimmed := strings.TrimSpace(linePrefix + string(typed))
	return trimmed == "///" || trimmed == "/*!"
}

// TriggerTyped handles the last character of a comment trigger. The two
// trigger characters before the caret are replaced by a generated block and
// the caret moves to the line where the brief is written. On the first line
// of the document a file comment is generated instead.
func (o *Orchestrator) TriggerTyped(buf Buffer, caret ast.Position) []Edit {
	cfg := o.settings.Current()

	prefix := linePrefix(buf.LineText(caret.Line), caret.Column)
	start := ast.Position{Line: caret.Line, Column: caret.Column - 2}
	if start.Column < 1 {
		start.Column = 1
	}
	edits := []Edit{Delete(start, caret)}

	if caret.Line == 1 {
		text, anchor := generator.GenerateFileComment(o.metadata(buf, cfg), cfg)
		lines := strings.Split(text, "\n")
		o.logger.Debug("generated file comment", zap.Int("line", caret.Line))
		return append(edits,
			Insert(start, text),
			MoveCaret(ast.Position{Line: caret.Line + anchor, Column: len(lines[anchor]) + 1}),
		)
	}

	// The half-typed opener would read as an unterminated block comment and
	// hide the code below it from the code model.
	sig := o.resolve(blankRange(buf, start, caret), caret.Line+1)
	comment := generator.Generate(utils.LeadingWhitespace(prefix), sig, cfg)
	text := comment.Render(cfg.LineWidth)
	lines := strings.Split(text, "\n")

	return append(edits,
		Insert(start, text),
		MoveCaret(ast.Position{Line: caret.Line + 1, Column: len(lines[1]) + 1}),
	)
}

// NewlineInComment continues the comment block when Enter is pressed inside
// it. It returns nil when the caret is not inside a block, in which case the
// host inserts a plain newline.
func (o *Orchestrator) NewlineInComment(buf Buffer, caret ast.Position) []Edit {
	cfg := o.settings.Current()

	state := scanner.New(cfg.TagChar()).Scan(buf, caret)
	if !state.Inside {
		return nil
	}

	before := linePrefix(buf.LineText(caret.Line), caret.Column)
	trimmed := strings.TrimRight(before, " \t")

	var edits []Edit
	at := caret
	if len(trimmed) < len(before) {
		at = ast.Position{Line: caret.Line, Column: len(trimmed) + 1}
		edits = append(edits, Delete(at, caret))
	}

	continuation := generator.GenerateTagStartLine(starIndent(buf.LineText(caret.Line), state.IndentColumn-1)) +
		" " + spaces(state.ExtraIndent(cfg.TagIndentation))

	o.logger.Debug("continuing comment",
		zap.Int("line", caret.Line),
		zap.Int("indent_column", state.IndentColumn),
		zap.Bool("tag_section", state.InTagSection))

	return append(edits,
		Insert(at, "\n"+continuation),
		MoveCaret(ast.Position{Line: caret.Line + 1, Column: len(continuation) + 1}),
	)
}

// TabPressed aligns the caret with the previous comment line. At the end of a
// line only the caret moves, so no trailing whitespace is written. It declines
// while a completion session is active or when no alignment applies.
func (o *Orchestrator) TabPressed(buf Buffer, caret ast.Position, completionActive bool) ([]Edit, bool) {
	if completionActive || caret.Line <= 1 {
		return nil, false
	}

	column, ok := generator.GenerateIndentation(caret.Column, buf.LineText(caret.Line-1))
	if !ok {
		return nil, false
	}

	if caret.Column > len(buf.LineText(caret.Line)) {
		return []Edit{MoveCaret(ast.Position{Line: caret.Line, Column: column})}, true
	}
	return []Edit{Insert(caret, spaces(column-caret.Column))}, true
}

func (o *Orchestrator) resolve(buf Buffer, line int) *ast.Signature {
	if o.resolver == nil {
		return nil
	}

	sig, err := o.resolver.Resolve(buf, line)
	if err != nil {
		o.logger.Warn("code model lookup failed", zap.Int("line", line), zap.Error(err))
		return nil
	}
	if sig == nil {
		o.logger.Debug("no function near trigger", zap.Int("line", line))
		return nil
	}

	o.logger.Debug("resolved function",
		zap.String("name", sig.QualifiedName()),
		zap.Stringer("kind", sig.Kind),
		zap.Int("params", len(sig.Params)))
	return sig
}

func (o *Orchestrator) metadata(buf Buffer, cfg *config.Configuration) ast.DocumentMetadata {
	meta := ast.DocumentMetadata{
		Author: cfg.Author,
		Date:   o.now().Format(DateLayout),
	}
	if named, ok := buf.(Named); ok && named.FileName() != "" {
		meta.FileName = filepath.Base(named.FileName())
	}
	return meta
}

// maskedLine overrides the text of one line of a buffer.
type maskedLine struct {
	Buffer
	line int
	text string
}

func (m maskedLine) LineText(line int) string {
	if line == m.line {
		return m.text
	}
	return m.Buffer.LineText(line)
}

// blankRange returns a view of buf where the bytes between start and end on
// start's line read as spaces.
func blankRange(buf Buffer, start, end ast.Position) Buffer {
	line := buf.LineText(start.Line)
	from := min(max(start.Column-1, 0), len(line))
	to := min(max(end.Column-1, from), len(line))
	if from == to {
		return buf
	}
	return maskedLine{
		Buffer: buf,
		line:   start.Line,
		text:   line[:from] + spaces(to-from) + line[to:],
	}
}

// starIndent returns the first n bytes of line when they are whitespace, so
// tabs survive, and n spaces otherwise.
func starIndent(line string, n int) string {
	if n <= 0 {
		return ""
	}
	if n <= len(line) && strings.TrimLeft(line[:n], " \t") == "" {
		return line[:n]
	}
	return spaces(n)
}

// linePrefix returns the part of line before the 1-based column.
func linePrefix(line string, column int) string {
	n := column - 1
	if n < 0 {
		n = 0
	}
	if n > len(line) {
		n = len(line)
	}
	return line[:n]
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
