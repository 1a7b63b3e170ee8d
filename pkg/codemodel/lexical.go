package codemodel

import (
	"regexp"
	"sort"
	"strings"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/utils"
)

// LexicalResolver finds functions by scanning declarations at namespace and
// class scope. It needs no grammar, so it always builds; function bodies are
// skipped rather than parsed.
type LexicalResolver struct{}

// NewLexicalResolver creates a lexical resolver.
func NewLexicalResolver() *LexicalResolver {
	return &LexicalResolver{}
}

// Resolve implements Resolver.
func (r *LexicalResolver) Resolve(src Source, line int) (*ast.Signature, error) {
	return resolve(r, src, line)
}

// Functions implements Resolver.
func (r *LexicalResolver) Functions(src Source) ([]ast.Signature, error) {
	text := mask(sourceText(src))
	index := newLineIndex(text)

	var (
		functions []ast.Signature
		scopes    []string
		start     int
		depth     int
	)

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
			if depth == 0 && endsLine(text, i+1) && macroPattern.Match(text[start:i+1]) {
				start = i + 1
			}
		case ':':
			if depth == 0 && isAccessLabel(text, start, i) {
				start = i + 1
			}
		case ';':
			if depth > 0 {
				continue
			}
			if sig, ok := parseHeader(string(text[start:i]), ownerOf(scopes)); ok {
				sig.Range = index.span(start, i)
				functions = append(functions, finish(sig))
			}
			start = i + 1
		case '{':
			if depth > 0 {
				continue
			}
			header := string(text[start:i])
			if sig, ok := parseHeader(header, ownerOf(scopes)); ok {
				end := matchBrace(text, i)
				sig.Range = index.span(start, end)
				functions = append(functions, finish(sig))
				i = end
			} else if name, ok := scopeName(header); ok {
				scopes = append(scopes, name)
			} else {
				i = matchBrace(text, i)
			}
			start = i + 1
		case '}':
			if depth > 0 {
				continue
			}
			if len(scopes) > 0 {
				scopes = scopes[:len(scopes)-1]
			}
			start = i + 1
		}
	}

	return functions, nil
}

// mask blanks comments, literal contents and preprocessor lines. Newlines are
// kept so offsets map to the same lines as the original text.
func mask(text string) []byte {
	out := []byte(text)
	n := len(out)
	lineStart := true

	for i := 0; i < n; {
		c := out[i]
		switch {
		case c == '\n':
			lineStart = true
			i++
			continue
		case lineStart && c == '#':
			for i < n && out[i] != '\n' {
				if out[i] == '\\' && i+1 < n && out[i+1] == '\n' {
					out[i] = ' '
					i += 2
					continue
				}
				out[i] = ' '
				i++
			}
			continue
		case c == '/' && i+1 < n && out[i+1] == '/':
			for i < n && out[i] != '\n' {
				out[i] = ' '
				i++
			}
			continue
		case c == '/' && i+1 < n && out[i+1] == '*':
			out[i], out[i+1] = ' ', ' '
			i += 2
			for i < n && !(out[i] == '*' && i+1 < n && out[i+1] == '/') {
				if out[i] != '\n' {
					out[i] = ' '
				}
				i++
			}
			if i+1 < n {
				out[i], out[i+1] = ' ', ' '
				i += 2
			}
			continue
		case c == '"' || c == '\'':
			i++
			for i < n && out[i] != c && out[i] != '\n' {
				if out[i] == '\\' && i+1 < n && out[i+1] != '\n' {
					out[i], out[i+1] = ' ', ' '
					i += 2
					continue
				}
				out[i] = ' '
				i++
			}
			if i < n && out[i] == c {
				i++
			}
			lineStart = false
			continue
		}

		if c != ' ' && c != '\t' && c != '\r' {
			lineStart = false
		}
		i++
	}
	return out
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	text   []byte
	starts []int
}

func newLineIndex(text []byte) lineIndex {
	starts := []int{0}
	for i, c := range text {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{text: text, starts: starts}
}

func (idx lineIndex) line(offset int) int {
	return sort.Search(len(idx.starts), func(i int) bool { return idx.starts[i] > offset })
}

// span returns the range from the first non-blank byte at or after start to
// end.
func (idx lineIndex) span(start, end int) ast.Range {
	for start < end && isSpace(idx.text[start]) {
		start++
	}
	return ast.Range{
		Start: ast.Position{Line: idx.line(start), Column: start - idx.starts[idx.line(start)-1] + 1},
		End:   ast.Position{Line: idx.line(end), Column: end - idx.starts[idx.line(end)-1] + 1},
	}
}

// endsLine reports whether only blanks follow offset on its line.
func endsLine(text []byte, offset int) bool {
	for ; offset < len(text); offset++ {
		switch text[offset] {
		case '\n':
			return true
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}

func matchBrace(text []byte, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(text) - 1
}

var accessLabels = map[string]bool{
	"public":    true,
	"protected": true,
	"private":   true,
	"signals":   true,
	"slots":     true,
	"Q_SIGNALS": true,
	"Q_SLOTS":   true,
}

// isAccessLabel reports whether the colon at i ends an access specifier.
func isAccessLabel(text []byte, start, i int) bool {
	if (i+1 < len(text) && text[i+1] == ':') || (i > 0 && text[i-1] == ':') {
		return false
	}
	fields := strings.Fields(string(text[start:i]))
	return len(fields) > 0 && accessLabels[fields[len(fields)-1]]
}

func ownerOf(scopes []string) string {
	var owner []string
	for _, scope := range scopes {
		if scope != "" {
			owner = append(owner, scope)
		}
	}
	return strings.Join(owner, "::")
}

// scopeName recognises headers of blocks that contain declarations. Classes
// return their name; namespaces and linkage blocks return "".
func scopeName(header string) (string, bool) {
	fields := strings.Fields(stripTemplatePrefix(strings.TrimSpace(header)))
	if len(fields) == 0 {
		return "", false
	}

	switch fields[0] {
	case "namespace", "extern":
		return "", true
	case "inline":
		return "", len(fields) > 1 && fields[1] == "namespace"
	case "enum", "typedef", "using":
		return "", false
	}

	for i, field := range fields {
		if field == "class" || field == "struct" || field == "union" {
			name := className(strings.Join(fields[i+1:], " "))
			return name, name != ""
		}
	}
	return "", false
}

func className(rest string) string {
	rest = utils.RemoveTemplateParams(cutBaseClause(rest))
	fields := strings.Fields(rest)
	for i := len(fields) - 1; i >= 0; i-- {
		if fields[i] != "final" {
			return fields[i]
		}
	}
	return ""
}

// cutBaseClause drops the ": public Base" part of a class header.
func cutBaseClause(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != ':' {
			continue
		}
		if i+1 < len(s) && s[i+1] == ':' {
			i++
			continue
		}
		return s[:i]
	}
	return s
}

var (
	macroPattern           = regexp.MustCompile(`(?s)^\s*[A-Z][A-Z0-9_]*\s*\(.*\)$`)
	attributePattern       = regexp.MustCompile(`\[\[.*?\]\]`)
	functionPointerPattern = regexp.MustCompile(`\(\s*[*&]\s*([A-Za-z_]\w*)\s*\)`)
)

// nonFunctionWords cannot be the name of a function.
var nonFunctionWords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "return": true,
	"catch": true, "sizeof": true, "alignof": true, "decltype": true,
	"static_assert": true, "do": true, "else": true, "new": true,
	"delete": true, "throw": true, "case": true,
}

// declarationKeywords start declarations that are never functions.
var declarationKeywords = map[string]bool{
	"class": true, "struct": true, "union": true, "enum": true,
	"namespace": true, "typedef": true, "using": true, "template": true,
}

// specifiers are dropped from return types.
var specifiers = map[string]bool{
	"static": true, "inline": true, "virtual": true, "explicit": true,
	"extern": true, "constexpr": true, "consteval": true, "friend": true,
	"__inline": true, "__forceinline": true,
}

// parseHeader reads a function declaration or definition header. scope is the
// enclosing class, if any.
func parseHeader(header, scope string) (ast.Signature, bool) {
	h := strings.Join(strings.Fields(header), " ")
	h = strings.TrimSpace(attributePattern.ReplaceAllString(stripTemplatePrefix(h), ""))

	open := strings.IndexByte(h, '(')
	if open <= 0 {
		return ast.Signature{}, false
	}
	before := strings.TrimSpace(h[:open])
	if strings.HasSuffix(before, "operator") && strings.HasPrefix(h[open:], "()") {
		next := strings.IndexByte(h[open+2:], '(')
		if next < 0 {
			return ast.Signature{}, false
		}
		before = h[:open+2]
		open += 2 + next
	}

	if fields := strings.Fields(before); len(fields) == 0 || declarationKeywords[fields[0]] {
		return ast.Signature{}, false
	}
	if strings.ContainsAny(before, ",\"{}") || (strings.Contains(before, "=") && !strings.Contains(before, "operator")) {
		return ast.Signature{}, false
	}

	closing := matchParen(h, open)
	if closing < 0 {
		return ast.Signature{}, false
	}

	qualified, returnType := splitName(before)
	qualifier, name := splitQualified(qualified)
	if name == "" || nonFunctionWords[name] {
		return ast.Signature{}, false
	}

	sig := ast.Signature{
		Name:       name,
		Owner:      joinOwner(scope, qualifier),
		ReturnType: cleanReturnType(returnType),
	}
	if sig.ReturnType == "auto" {
		if trailing := trailingReturnType(h[closing+1:]); trailing != "" {
			sig.ReturnType = trailing
		}
	}
	if sig.ReturnType == "" && !sig.IsSpecialMember() {
		// A call-like statement without a type, usually a macro.
		return ast.Signature{}, false
	}

	for _, part := range splitTopLevel(h[open+1:closing], ',') {
		if param, ok := parseParameter(part); ok {
			sig.Params = append(sig.Params, param)
		}
	}
	return sig, true
}

// splitName splits the text before the parameter list into the possibly
// qualified function name and what precedes it.
func splitName(before string) (string, string) {
	end := len(before)
	if i := strings.LastIndex(before, "operator"); i >= 0 && (i == 0 || !isIdentByte(before[i-1]) || before[i-1] == ':') {
		end = i
	}

	start := end
	for start > 0 && (isIdentByte(before[start-1]) || before[start-1] == ':' || before[start-1] == '~') {
		start--
	}
	return strings.ReplaceAll(before[start:], " ", ""), before[:start]
}

func cleanReturnType(returnType string) string {
	var kept []string
	for _, field := range strings.Fields(returnType) {
		if !specifiers[field] {
			kept = append(kept, field)
		}
	}
	return strings.Join(kept, " ")
}

// trailingReturnType reads "-> T" after the parameter list.
func trailingReturnType(after string) string {
	i := strings.Index(after, "->")
	if i < 0 {
		return ""
	}
	var kept []string
	for _, field := range strings.Fields(after[i+2:]) {
		if field == "override" || field == "final" || field == "=" || strings.HasPrefix(field, "noexcept") {
			break
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

// qualifierWords alone do not form a type, so a following word is part of it.
var qualifierWords = map[string]bool{
	"const": true, "volatile": true, "struct": true, "class": true,
	"enum": true, "union": true, "typename": true,
}

// builtinTypes never name a parameter.
var builtinTypes = map[string]bool{
	"int": true, "char": true, "short": true, "long": true, "unsigned": true,
	"signed": true, "float": true, "double": true, "bool": true, "void": true,
	"const": true, "volatile": true, "auto": true, "wchar_t": true,
}

// parseParameter splits one parameter declaration into name and type. Unnamed
// parameters are returned with an empty name.
func parseParameter(text string) (ast.Parameter, bool) {
	text = strings.TrimSpace(cutDefault(text))
	if text == "" || text == "void" || text == "..." {
		return ast.Parameter{}, false
	}

	if m := functionPointerPattern.FindStringSubmatchIndex(text); m != nil {
		return ast.Parameter{
			Name: text[m[2]:m[3]],
			Type: collapse(text[:m[2]] + text[m[3]:]),
		}, true
	}

	suffix := ""
	if strings.HasSuffix(text, "]") {
		if i := strings.IndexByte(text, '['); i > 0 {
			suffix = "[]"
			text = strings.TrimSpace(text[:i])
		}
	}

	start := len(text)
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	candidate := text[start:]
	typeName := strings.TrimSpace(text[:start])

	if !utils.IsValidCppIdentifier(candidate) || typeName == "" || strings.HasSuffix(typeName, "::") || builtinTypes[candidate] || onlyQualifiers(typeName) {
		return ast.Parameter{Type: collapse(text) + suffix}, true
	}
	return ast.Parameter{Name: candidate, Type: collapse(typeName) + suffix}, true
}

func onlyQualifiers(typeName string) bool {
	for _, field := range strings.Fields(typeName) {
		if !qualifierWords[field] {
			return false
		}
	}
	return true
}

// cutDefault removes a default argument.
func cutDefault(param string) string {
	depth := 0
	for i := 0; i < len(param); i++ {
		switch param[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth == 0 {
				return param[:i]
			}
		}
	}
	return param
}

// splitTopLevel splits s at sep outside brackets and template arguments.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}

func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripTemplatePrefix removes leading "template <...>" clauses.
func stripTemplatePrefix(h string) string {
	for strings.HasPrefix(h, "template") {
		rest := strings.TrimSpace(h[len("template"):])
		if !strings.HasPrefix(rest, "<") {
			return h
		}
		depth := 0
		end := -1
		for i := 0; i < len(rest) && end < 0; i++ {
			switch rest[i] {
			case '<':
				depth++
			case '>':
				depth--
				if depth == 0 {
					end = i
				}
			}
		}
		if end < 0 {
			return h
		}
		h = strings.TrimSpace(rest[end+1:])
	}
	return h
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
