package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"camel case", "getMaxRetries", []string{"get", "Max", "Retries"}},
		{"snake case", "set_max_retries", []string{"set", "max", "retries"}},
		{"acronym", "getHTTPResponse", []string{"get", "HTTP", "Response"}},
		{"trailing acronym", "parseURL", []string{"parse", "URL"}},
		{"digits", "get2ndValue", []string{"get2nd", "Value"}},
		{"destructor", "~Widget", []string{"Widget"}},
		{"single word", "count", []string{"count"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitIdentifier(tt.input))
		})
	}
}

func TestUnabbreviate(t *testing.T) {
	table := map[string]string{"cnt": "count", "max": "maximum"}

	tests := []struct {
		name     string
		words    []string
		expected string
	}{
		{"single match", []string{"Cnt"}, "count"},
		{"mixed", []string{"max", "Retry", "Cnt"}, "maximum retry count"},
		{"no match lower-cased", []string{"HTTP", "Response"}, "http response"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Unabbreviate(tt.words, table))
		})
	}
}

func TestIsValidCppIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"value", true},
		{"_private", true},
		{"value2", true},
		{"2value", false},
		{"a-b", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidCppIdentifier(tt.input))
		})
	}
}

func TestRemoveTemplateParams(t *testing.T) {
	assert.Equal(t, "Map::iterator", RemoveTemplateParams("Map<K, V>::iterator"))
	assert.Equal(t, "Outer::Inner", RemoveTemplateParams("Outer<std::vector<int>>::Inner"))
	assert.Equal(t, "plain", RemoveTemplateParams("plain"))
}

func TestIsDoxygenComment(t *testing.T) {
	assert.True(t, IsDoxygenComment("  /*! brief"))
	assert.True(t, IsDoxygenComment("/// brief"))
	assert.True(t, IsDoxygenComment("/** brief */"))
	assert.False(t, IsDoxygenComment("// plain"))
	assert.False(t, IsDoxygenComment("int x;"))
}

func TestLeadingWhitespaceAndCapitalize(t *testing.T) {
	assert.Equal(t, "  \t", LeadingWhitespace("  \tint x;"))
	assert.Equal(t, "", LeadingWhitespace("x"))
	assert.Equal(t, "Sets the value.", Capitalize("sets the value."))
	assert.Equal(t, "{0} to set.", Capitalize("{0} to set."))
	assert.Equal(t, "", Capitalize(""))
}
