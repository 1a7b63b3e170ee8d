// Package generator builds Doxygen comment blocks from function signatures and
// the active configuration.
package generator

import (
	"strings"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/classifier"
	"autodoxy/pkg/config"
	"autodoxy/pkg/scanner"
	"autodoxy/pkg/utils"
)

// Tag names used in generated comments.
const (
	TagParam    = "param"
	TagParamOut = "param[out]"
	TagReturn   = "return"
	TagFile     = "file"
	TagBrief    = "brief"
	TagAuthor   = "author"
	TagDate     = "date"
)

// LineKind tells how a comment line is rendered.
type LineKind int

const (
	LineBrief LineKind = iota
	LineBlank
	LineTag
)

// Line is one line of a generated comment.
type Line struct {
	Kind LineKind
	Tag  string // Tag name without the tag character
	Name string // Parameter name for param tags
	Text string // Generated text, empty for bare tags
}

// Comment is a generated comment block. The first line of the rendered block
// is the opener, so the brief line is always line 1 of the block.
type Comment struct {
	LeadingSpaces  string
	TagChar        rune
	TagIndentation int
	Lines          []Line
}

// Brief returns the brief text.
func (c Comment) Brief() string {
	for _, line := range c.Lines {
		if line.Kind == LineBrief {
			return line.Text
		}
	}
	return ""
}

// Tags returns the tag lines in order.
func (c Comment) Tags() []Line {
	var tags []Line
	for _, line := range c.Lines {
		if line.Kind == LineTag {
			tags = append(tags, line)
		}
	}
	return tags
}

// Text renders the block without wrapping.
func (c Comment) Text() string {
	return c.Render(0)
}

// Render renders the block. The opener carries no leading spaces since it is
// inserted at the caret; every later line starts with LeadingSpaces. Tag lines
// longer than width are wrapped and continued TagIndentation columns in;
// width <= 0 disables wrapping.
func (c Comment) Render(width int) string {
	var comment strings.Builder
	comment.WriteString(classifier.BlockOpener)

	for _, line := range c.Lines {
		comment.WriteByte('\n')
		switch line.Kind {
		case LineBrief:
			comment.WriteString(c.LeadingSpaces + " * " + line.Text)
		case LineBlank:
			comment.WriteString(GenerateTagStartLine(c.LeadingSpaces))
		case LineTag:
			c.writeTag(&comment, line, width)
		}
	}

	comment.WriteString("\n" + c.LeadingSpaces + " " + classifier.BlockCloser)
	return comment.String()
}

// writeTag writes a tag line, wrapping its text at width.
func (c Comment) writeTag(comment *strings.Builder, line Line, width int) {
	head := c.LeadingSpaces + " * " + string(c.TagChar) + line.Tag
	if line.Name != "" {
		head += " " + line.Name
	}
	if line.Text == "" {
		comment.WriteString(head)
		return
	}
	if width <= 0 || len(head)+1+len(line.Text) <= width {
		comment.WriteString(head + " " + line.Text)
		return
	}

	continuation := c.LeadingSpaces + " * " + strings.Repeat(" ", c.TagIndentation)
	currentLine := head
	count := 0
	for _, word := range strings.Fields(line.Text) {
		if count > 0 && len(currentLine)+len(word)+1 > width {
			comment.WriteString(currentLine + "\n")
			currentLine = continuation + word
			count = 1
			continue
		}
		currentLine += " " + word
		count++
	}
	comment.WriteString(currentLine)
}

// GenerateTagStartLine returns a bare continuation line for a block whose
// asterisks sit one column right of indentPrefix.
func GenerateTagStartLine(indentPrefix string) string {
	return indentPrefix + " *"
}

// GenerateIndentation returns the column a tab press at caretColumn should move
// to, based on the previous line. See scanner.ComputeIndent.
func GenerateIndentation(caretColumn int, previousLine string) (int, bool) {
	return scanner.ComputeIndent(caretColumn, previousLine)
}

// Unabbreviate splits identifier into words and expands them through the
// abbreviation table.
func Unabbreviate(identifier string, abbreviations map[string]string) string {
	return utils.Unabbreviate(utils.SplitIdentifier(identifier), abbreviations)
}

// Generate builds the comment for sig. Without a signature, or with smart
// comments disabled, only the structure is emitted: an empty brief and bare
// tags. cfg defaults to config.Default when nil.
func Generate(leadingSpaces string, sig *ast.Signature, cfg *config.Configuration) Comment {
	if cfg == nil {
		cfg = config.Default()
	}

	comment := Comment{
		LeadingSpaces:  leadingSpaces,
		TagChar:        cfg.TagChar(),
		TagIndentation: cfg.TagIndentation,
	}

	switch {
	case sig == nil:
		comment.Lines = []Line{{Kind: LineBrief}}
	case !cfg.SmartComments:
		comment.Lines = skeleton(sig)
	default:
		comment.Lines = newPhraser(sig, cfg).lines()
	}
	return comment
}

func skeleton(sig *ast.Signature) []Line {
	var tags []Line
	for _, param := range sig.Params {
		if param.Name == "" {
			continue
		}
		tags = append(tags, Line{Kind: LineTag, Tag: TagParam, Name: param.Name})
	}
	if hasReturn(sig) {
		tags = append(tags, Line{Kind: LineTag, Tag: TagReturn})
	}
	return assemble("", tags)
}

// assemble puts the brief first and separates it from any tags.
func assemble(brief string, tags []Line) []Line {
	lines := []Line{{Kind: LineBrief, Text: brief}}
	if len(tags) == 0 {
		return lines
	}
	lines = append(lines, Line{Kind: LineBlank})
	return append(lines, tags...)
}

func hasReturn(sig *ast.Signature) bool {
	return !sig.IsVoid() && !sig.IsSpecialMember()
}

// booleanVerbs maps a leading name word to the verb used when phrasing a
// boolean getter. "get" reads as "is".
var booleanVerbs = map[string]string{
	"is":     "is",
	"has":    "has",
	"can":    "can",
	"should": "should",
	"was":    "was",
	"get":    "is",
}

// phraser turns one signature into smart comment lines.
type phraser struct {
	sig       *ast.Signature
	templates config.Templates
	table     map[string]string
	allText   bool
}

func newPhraser(sig *ast.Signature, cfg *config.Configuration) *phraser {
	return &phraser{
		sig:       sig,
		templates: cfg.Templates,
		table:     cfg.Abbreviations,
		allText:   cfg.SmartCommentsForAllFunctions || sig.Kind != ast.KindPlain,
	}
}

func (p *phraser) lines() []Line {
	var tags []Line
	for _, param := range p.sig.Params {
		if param.Name == "" {
			continue
		}
		tags = append(tags, p.param(param))
	}
	if hasReturn(p.sig) {
		tags = append(tags, Line{Kind: LineTag, Tag: TagReturn, Text: sentence(p.returnText())})
	}
	return assemble(sentence(p.brief()), tags)
}

func (p *phraser) brief() string {
	t := p.templates
	switch p.sig.Kind {
	case ast.KindSetter:
		return format(t.BriefSetter, p.subjectPhrase("set"), "")
	case ast.KindGetter:
		return format(t.BriefGetter, p.subjectPhrase("get"), "")
	case ast.KindBooleanGetter:
		b := p.boolean()
		return format(t.BriefBoolGetter, b.predicate, b.subject+" ", b.verb)
	}

	if !p.allText {
		return ""
	}
	switch {
	case strings.HasPrefix(p.sig.Name, "~"):
		return "Destructor"
	case p.sig.IsSpecialMember():
		return "Constructor"
	}
	return Unabbreviate(p.sig.Name, p.table)
}

func (p *phraser) param(param ast.Parameter) Line {
	t := p.templates
	line := Line{Kind: LineTag, Tag: TagParam, Name: param.Name}
	name := Unabbreviate(param.Name, p.table)

	switch {
	case !param.IsInput():
		line.Tag = TagParamOut
		if p.allText {
			line.Text = format(t.ParamOutput, name)
		}
	case p.sig.Kind == ast.KindSetter && param.IsBoolean():
		line.Text = format(t.ParamBoolean, p.subjectPhrase("set"))
	case p.sig.Kind == ast.KindSetter:
		line.Text = format(t.ParamSetter, p.subjectPhrase("set"))
	case p.allText:
		line.Text = name
	}

	line.Text = sentence(line.Text)
	return line
}

func (p *phraser) returnText() string {
	switch p.sig.Kind {
	case ast.KindGetter:
		return format(p.templates.Return, p.subjectPhrase("get"))
	case ast.KindBooleanGetter:
		b := p.boolean()
		return format(p.templates.ReturnBoolean, "the "+b.subject+" "+b.verb+" "+b.predicate)
	}
	return ""
}

func (p *phraser) phrase(words []string) string {
	return utils.Unabbreviate(words, p.table)
}

// subjectPhrase phrases the function name without its leading verb.
func (p *phraser) subjectPhrase(verb string) string {
	words := utils.SplitIdentifier(p.sig.Name)
	if len(words) > 1 && strings.EqualFold(words[0], verb) {
		words = words[1:]
	}
	return p.phrase(words)
}

type booleanPhrase struct {
	subject   string
	verb      string
	predicate string
}

// boolean splits a boolean getter name into subject, verb and predicate:
// isWindowVisible reads "window is visible". A single remaining word is the
// predicate and the owner class becomes the subject.
func (p *phraser) boolean() booleanPhrase {
	words := utils.SplitIdentifier(p.sig.Name)
	b := booleanPhrase{verb: "is"}

	if len(words) > 1 {
		if verb, ok := booleanVerbs[strings.ToLower(words[0])]; ok {
			b.verb = verb
			words = words[1:]
		}
	}

	if len(words) >= 2 {
		b.subject = p.phrase(words[:len(words)-1])
		b.predicate = p.phrase(words[len(words)-1:])
		return b
	}

	b.predicate = p.phrase(words)
	b.subject = p.ownerPhrase()
	if b.subject == "" {
		b.subject = "object"
	}
	return b
}

func (p *phraser) ownerPhrase() string {
	owner := utils.RemoveTemplateParams(p.sig.Owner)
	if i := strings.LastIndex(owner, "::"); i >= 0 {
		owner = owner[i+2:]
	}
	return p.phrase(utils.SplitIdentifier(owner))
}
