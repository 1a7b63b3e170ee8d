package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autodoxy/pkg/ast"
	"autodoxy/pkg/config"
)

func TestGenerateBooleanGetterWithAbbreviation(t *testing.T) {
	cfg := config.Default()
	cfg.Abbreviations = map[string]string{"cnt": "count"}

	sig := &ast.Signature{
		Name:       "getCnt",
		ReturnType: "bool",
		Kind:       ast.KindBooleanGetter,
	}

	comment := Generate("    ", sig, cfg)

	assert.Equal(t, "Returns true if the object is count.", comment.Brief())
	tags := comment.Tags()
	require.Len(t, tags, 1)
	assert.Equal(t, TagReturn, tags[0].Tag)
	assert.Equal(t, "True if the object is count. False if not.", tags[0].Text)

	expected := "/*!\n" +
		"     * Returns true if the object is count.\n" +
		"     *\n" +
		"     * @return True if the object is count. False if not.\n" +
		"     */"
	assert.Equal(t, expected, comment.Text())
}

func TestGenerateSetterIsIdempotent(t *testing.T) {
	cfg := config.Default()
	sig := &ast.Signature{
		Name:       "maxRetries",
		Params:     []ast.Parameter{{Name: "value", Type: "int"}},
		ReturnType: "void",
		Kind:       ast.KindSetter,
	}

	first := Generate("", sig, cfg).Text()
	second := Generate("", sig, cfg).Text()

	expected := "/*!\n" +
		" * Sets the max retries.\n" +
		" *\n" +
		" * @param value Max retries to set.\n" +
		" */"
	assert.Equal(t, expected, first)
	assert.Equal(t, first, second)
}

func TestGenerateSkeletal(t *testing.T) {
	sig := &ast.Signature{
		Name: "compute",
		Params: []ast.Parameter{
			{Name: "a", Type: "int"},
			{Name: "b", Type: "int &"},
		},
		ReturnType: "int",
	}

	t.Run("no signature", func(t *testing.T) {
		comment := Generate("", nil, config.Default())
		assert.Equal(t, "/*!\n * \n */", comment.Text())
	})

	t.Run("smart comments disabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.SmartComments = false

		comment := Generate("", sig, cfg)
		expected := "/*!\n * \n *\n * @param a\n * @param b\n * @return\n */"
		assert.Equal(t, expected, comment.Text())
	})

	t.Run("nil configuration uses defaults", func(t *testing.T) {
		comment := Generate("", nil, nil)
		assert.Equal(t, '@', comment.TagChar)
		assert.Equal(t, 4, comment.TagIndentation)
	})
}

func TestGenerateParameters(t *testing.T) {
	sig := &ast.Signature{
		Name: "readBuf",
		Params: []ast.Parameter{
			{Name: "outLen", Type: "size_t *"},
			{Name: "srcBuf", Type: "const char *"},
		},
		ReturnType: "int",
	}

	tests := []struct {
		name     string
		allText  bool
		expected []Line
	}{
		{
			name:    "smart comments for all functions",
			allText: true,
			expected: []Line{
				{Kind: LineTag, Tag: TagParamOut, Name: "outLen", Text: "Receives the out length."},
				{Kind: LineTag, Tag: TagParam, Name: "srcBuf", Text: "Src buffer."},
				{Kind: LineTag, Tag: TagReturn},
			},
		},
		{
			name:    "plain functions left bare",
			allText: false,
			expected: []Line{
				{Kind: LineTag, Tag: TagParamOut, Name: "outLen"},
				{Kind: LineTag, Tag: TagParam, Name: "srcBuf"},
				{Kind: LineTag, Tag: TagReturn},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.SmartCommentsForAllFunctions = tt.allText
			cfg.Abbreviations = map[string]string{"buf": "buffer", "len": "length"}

			comment := Generate("", sig, cfg)
			assert.Equal(t, tt.expected, comment.Tags())
			if tt.allText {
				assert.Equal(t, "Read buffer.", comment.Brief())
			} else {
				assert.Empty(t, comment.Brief())
			}
		})
	}
}

func TestGenerateSmartPhrasing(t *testing.T) {
	tests := []struct {
		name      string
		sig       ast.Signature
		wantBrief string
		wantTags  []Line
	}{
		{
			name: "boolean setter",
			sig: ast.Signature{
				Name:       "setVisible",
				Params:     []ast.Parameter{{Name: "visible", Type: "bool"}},
				ReturnType: "void",
				Kind:       ast.KindSetter,
			},
			wantBrief: "Sets the visible.",
			wantTags: []Line{
				{Kind: LineTag, Tag: TagParam, Name: "visible", Text: "If true, visible. Otherwise not visible."},
			},
		},
		{
			name: "boolean getter with subject in name",
			sig: ast.Signature{
				Name:       "isWindowVisible",
				Owner:      "Dialog",
				ReturnType: "bool",
				Kind:       ast.KindBooleanGetter,
			},
			wantBrief: "Returns true if the window is visible.",
			wantTags: []Line{
				{Kind: LineTag, Tag: TagReturn, Text: "True if the window is visible. False if not."},
			},
		},
		{
			name: "boolean getter uses owner as subject",
			sig: ast.Signature{
				Name:       "hasChildren",
				Owner:      "ns::TreeNode<T>",
				ReturnType: "bool",
				Kind:       ast.KindBooleanGetter,
			},
			wantBrief: "Returns true if the tree node has children.",
			wantTags: []Line{
				{Kind: LineTag, Tag: TagReturn, Text: "True if the tree node has children. False if not."},
			},
		},
		{
			name: "getter with acronym",
			sig: ast.Signature{
				Name:       "getHTTPResponse",
				ReturnType: "Response",
				Kind:       ast.KindGetter,
			},
			wantBrief: "Returns the http response.",
			wantTags: []Line{
				{Kind: LineTag, Tag: TagReturn, Text: "The http response."},
			},
		},
		{
			name: "constructor",
			sig: ast.Signature{
				Name:   "Widget",
				Owner:  "Widget",
				Params: []ast.Parameter{{Name: "name", Type: "const std::string &"}},
			},
			wantBrief: "Constructor.",
			wantTags: []Line{
				{Kind: LineTag, Tag: TagParam, Name: "name", Text: "Name."},
			},
		},
		{
			name:      "destructor",
			sig:       ast.Signature{Name: "~Widget", Owner: "Widget"},
			wantBrief: "Destructor.",
		},
		{
			name: "unnamed parameters skipped",
			sig: ast.Signature{
				Name:       "reset",
				Params:     []ast.Parameter{{Type: "int"}},
				ReturnType: "void",
			},
			wantBrief: "Reset.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := tt.sig
			comment := Generate("", &sig, config.Default())
			assert.Equal(t, tt.wantBrief, comment.Brief())
			assert.Equal(t, tt.wantTags, comment.Tags())
		})
	}
}

func TestGenerateVoidWithoutParametersHasOnlyBrief(t *testing.T) {
	sig := &ast.Signature{Name: "flush", ReturnType: "void"}

	comment := Generate("", sig, config.Default())
	require.Len(t, comment.Lines, 1)
	assert.Equal(t, "/*!\n * Flush.\n */", comment.Text())
}

func TestGenerateQtStyle(t *testing.T) {
	cfg := config.Default()
	cfg.TagStyle = config.TagStyleQt

	sig := &ast.Signature{
		Name:       "setName",
		Params:     []ast.Parameter{{Name: "name", Type: "const QString &"}},
		ReturnType: "void",
		Kind:       ast.KindSetter,
	}

	expected := "/*!\n" +
		" * Sets the name.\n" +
		" *\n" +
		" * \\param name Name to set.\n" +
		" */"
	assert.Equal(t, expected, Generate("", sig, cfg).Text())
}

func TestGenerateTemplateWithoutPlaceholder(t *testing.T) {
	cfg := config.Default()
	cfg.Templates.BriefGetter = "Returns the value"
	cfg.Templates.Return = "{0} {5}"

	sig := &ast.Signature{Name: "getSize", ReturnType: "int", Kind: ast.KindGetter}
	comment := Generate("", sig, cfg)

	assert.Equal(t, "Returns the value.", comment.Brief())
	assert.Equal(t, "Size {5}.", comment.Tags()[0].Text)
}

func TestRenderWrapsTagLines(t *testing.T) {
	comment := Comment{
		TagChar:        '@',
		TagIndentation: 4,
		Lines: []Line{
			{Kind: LineBrief, Text: "Brief."},
			{Kind: LineBlank},
			{Kind: LineTag, Tag: TagParam, Name: "x", Text: "aaa bbb ccc"},
		},
	}

	assert.Equal(t, "/*!\n * Brief.\n *\n * @param x aaa\n *     bbb ccc\n */", comment.Render(16))
	assert.Equal(t, "/*!\n * Brief.\n *\n * @param x aaa bbb ccc\n */", comment.Text())
}

func TestGenerateTagStartLine(t *testing.T) {
	assert.Equal(t, " *", GenerateTagStartLine(""))
	assert.Equal(t, "     *", GenerateTagStartLine("    "))
}

func TestGenerateIndentation(t *testing.T) {
	column, ok := GenerateIndentation(4, " * @param value the value")
	require.True(t, ok)
	assert.Equal(t, 11, column)

	_, ok = GenerateIndentation(1, "int x = 0;")
	assert.False(t, ok)
}

func TestUnabbreviate(t *testing.T) {
	table := map[string]string{"cnt": "count", "idx": "index"}
	assert.Equal(t, "item count", Unabbreviate("itemCnt", table))
	assert.Equal(t, "index of item", Unabbreviate("IDX_of_item", table))
}

func TestGenerateFileComment(t *testing.T) {
	cfg := config.Default()
	cfg.Author = "Jane Doe"

	text, anchor := GenerateFileComment(ast.DocumentMetadata{FileName: "main.cpp", Date: "2024-05-01"}, cfg)
	expected := "/*!\n" +
		" * @file main.cpp\n" +
		" * @brief \n" +
		" *\n" +
		" * @author Jane Doe\n" +
		" * @date 2024-05-01\n" +
		" */"
	assert.Equal(t, expected, text)
	assert.Equal(t, 2, anchor)

	text, _ = GenerateFileComment(ast.DocumentMetadata{FileName: "main.cpp"}, config.Default())
	assert.Equal(t, "/*!\n * @file main.cpp\n * @brief \n */", text)
}

func TestFormatAndSentence(t *testing.T) {
	assert.Equal(t, "a and {3}", format("{0} and {3}", "a"))
	assert.Equal(t, "no placeholders", format("no placeholders", "x"))
	assert.Equal(t, "Hello world.", sentence("  hello   world.. "))
	assert.Equal(t, "", sentence("  "))
	assert.Equal(t, "If true, x. Otherwise not x.", sentence("If true, x. Otherwise not x."))
}
