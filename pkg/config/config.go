// Package config holds the settings snapshot that drives comment generation,
// loads it from a YAML settings file and publishes replacements to consumers.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FileName is the settings file looked up in the working directory.
const FileName = ".autodoxy.yaml"

// TagStyle selects the tag character.
type TagStyle string

const (
	// TagStyleJavaDoc writes @param tags.
	TagStyleJavaDoc TagStyle = "javadoc"
	// TagStyleQt writes \param tags.
	TagStyleQt TagStyle = "qt"
)

var (
	ErrInvalidTagStyle       = errors.New("invalid tag style")
	ErrNegativeIndentation   = errors.New("tag indentation must not be negative")
	ErrNegativeLineWidth     = errors.New("line width must not be negative")
	ErrDuplicateAbbreviation = errors.New("duplicate abbreviation")
)

// ValidationError reports the setting that failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Templates are the phrasing templates for smart comments. Placeholders are
// positional: {0} the name phrase, {1} an article or qualifier placed before
// the name, {2} the subject verb of a boolean getter.
type Templates struct {
	BriefSetter     string `mapstructure:"brief_setter" yaml:"brief_setter"`
	BriefGetter     string `mapstructure:"brief_getter" yaml:"brief_getter"`
	BriefBoolGetter string `mapstructure:"brief_bool_getter" yaml:"brief_bool_getter"`
	ParamSetter     string `mapstructure:"param_setter" yaml:"param_setter"`
	ParamBoolean    string `mapstructure:"param_boolean" yaml:"param_boolean"`
	ParamOutput     string `mapstructure:"param_output" yaml:"param_output"`
	Return          string `mapstructure:"return" yaml:"return"`
	ReturnBoolean   string `mapstructure:"return_boolean" yaml:"return_boolean"`
}

// Configuration is an immutable settings snapshot. Do not modify a snapshot
// obtained from a Store; build a new one and Replace it.
type Configuration struct {
	TagStyle                     TagStyle          `mapstructure:"tag_style" yaml:"tag_style"`
	TagIndentation               int               `mapstructure:"tag_indentation" yaml:"tag_indentation"`
	LineWidth                    int               `mapstructure:"line_width" yaml:"line_width"` // 0 disables wrapping
	SmartComments                bool              `mapstructure:"smart_comments" yaml:"smart_comments"`
	SmartCommentsForAllFunctions bool              `mapstructure:"smart_comments_for_all_functions" yaml:"smart_comments_for_all_functions"`
	Author                       string            `mapstructure:"author" yaml:"author"`
	Abbreviations                map[string]string `mapstructure:"abbreviations" yaml:"abbreviations"`
	Templates                    Templates         `mapstructure:"templates" yaml:"templates"`
}

// DefaultTemplates returns the built-in phrasing.
func DefaultTemplates() Templates {
	return Templates{
		BriefSetter:     "Sets the {1}{0}.",
		BriefGetter:     "Returns the {1}{0}.",
		BriefBoolGetter: "Returns true if the {1}{2} {0}.",
		ParamSetter:     "{0} to set.",
		ParamBoolean:    "If true, {0}. Otherwise not {0}.",
		ParamOutput:     "Receives the {0}.",
		Return:          "The {0}.",
		ReturnBoolean:   "True if {0}. False if not.",
	}
}

// Default returns the built-in configuration.
func Default() *Configuration {
	return &Configuration{
		TagStyle:                     TagStyleJavaDoc,
		TagIndentation:               4,
		SmartComments:                true,
		SmartCommentsForAllFunctions: true,
		Abbreviations:                map[string]string{},
		Templates:                    DefaultTemplates(),
	}
}

// TagChar returns the tag character for the configured style.
func (c *Configuration) TagChar() rune {
	if c.TagStyle == TagStyleQt {
		return '\\'
	}
	return '@'
}

// Validate checks the configuration and normalises abbreviation keys to lower
// case.
func (c *Configuration) Validate() error {
	switch TagStyle(strings.ToLower(string(c.TagStyle))) {
	case TagStyleJavaDoc, "":
		c.TagStyle = TagStyleJavaDoc
	case TagStyleQt:
		c.TagStyle = TagStyleQt
	default:
		return &ValidationError{Field: "tag_style", Err: fmt.Errorf("%w: %q", ErrInvalidTagStyle, c.TagStyle)}
	}

	if c.TagIndentation < 0 {
		return &ValidationError{Field: "tag_indentation", Err: ErrNegativeIndentation}
	}
	if c.LineWidth < 0 {
		return &ValidationError{Field: "line_width", Err: ErrNegativeLineWidth}
	}

	normalized := make(map[string]string, len(c.Abbreviations))
	for _, key := range sortedKeys(c.Abbreviations) {
		lower := strings.ToLower(strings.TrimSpace(key))
		if lower == "" {
			continue
		}
		if _, exists := normalized[lower]; exists {
			return &ValidationError{Field: "abbreviations", Err: fmt.Errorf("%w: %q", ErrDuplicateAbbreviation, lower)}
		}
		normalized[lower] = c.Abbreviations[key]
	}
	c.Abbreviations = normalized

	return nil
}

// Clone returns a deep copy.
func (c *Configuration) Clone() *Configuration {
	clone := *c
	clone.Abbreviations = make(map[string]string, len(c.Abbreviations))
	for key, value := range c.Abbreviations {
		clone.Abbreviations[key] = value
	}
	return &clone
}

// TemplateWarning names a template that lacks a placeholder it is documented
// to use. Such templates still work; the missing value is simply not shown.
type TemplateWarning struct {
	Template    string
	Placeholder string
}

func (w TemplateWarning) String() string {
	return fmt.Sprintf("template %s does not use %s", w.Template, w.Placeholder)
}

// Lint reports templates that do not reference their name placeholder.
func (c *Configuration) Lint() []TemplateWarning {
	templates := []struct {
		key   string
		value string
	}{
		{"brief_setter", c.Templates.BriefSetter},
		{"brief_getter", c.Templates.BriefGetter},
		{"brief_bool_getter", c.Templates.BriefBoolGetter},
		{"param_setter", c.Templates.ParamSetter},
		{"param_boolean", c.Templates.ParamBoolean},
		{"param_output", c.Templates.ParamOutput},
		{"return", c.Templates.Return},
		{"return_boolean", c.Templates.ReturnBoolean},
	}

	var warnings []TemplateWarning
	for _, template := range templates {
		if !strings.Contains(template.value, "{0}") {
			warnings = append(warnings, TemplateWarning{Template: template.key, Placeholder: "{0}"})
		}
	}
	if !strings.Contains(c.Templates.BriefBoolGetter, "{2}") {
		warnings = append(warnings, TemplateWarning{Template: "brief_bool_getter", Placeholder: "{2}"})
	}
	return warnings
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
