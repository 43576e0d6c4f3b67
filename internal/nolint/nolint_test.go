package nolint

import (
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNolintRules(t *testing.T) {
	t.Parallel()
	result := parseIgnoreRuleNames("rule1, rule2,,rule3")
	assert.Len(t, result, 3)
	for _, rule := range []string{"rule1", "rule2", "rule3"} {
		assert.Contains(t, result, rule)
	}
	assert.Empty(t, parseIgnoreRuleNames(""))
}

func TestParseDirective(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line    string
		rules   []string
		wantErr bool
	}{
		{line: "# nolint", rules: []string{}},
		{line: "#nolint", rules: []string{}},
		{line: "  # nolint:non-canonical", rules: []string{"non-canonical"}},
		{line: "# nolint: a, b", rules: []string{"a", "b"}},
		{line: "# nolint:", wantErr: true},
		{line: "# nolintfoo", wantErr: true},
		{line: "# just a comment", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			rules, err := parseDirective(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, rules, len(tt.rules))
			for _, r := range tt.rules {
				assert.Contains(t, rules, r)
			}
		})
	}
}

func TestIsNolint(t *testing.T) {
	t.Parallel()
	source := `# queries for the catalog
# nolint
bird!
dog
# nolint:non-canonical
# second comment
mammal^4

# nolint:truncated-input

kraken`

	manager := Parse("test.lucene", strings.Split(source, "\n"))

	tests := []struct {
		rule     string
		line     int
		expected bool
	}{
		{"anyrule", 3, true},           // covered by a bare nolint
		{"anyrule", 4, false},          // only the next query is covered
		{"non-canonical", 7, true},     // comments between directive and query are skipped
		{"invalid-query", 7, false},    // other rules still apply
		{"truncated-input", 11, false}, // a blank line ends the directive
		{"truncated-input", 9, true},   // the directive line itself
		{"anyrule", 1, false},          // ordinary comment
		{"non-canonical", 12, false},   // past the end
		{"non-canonical", 5, true},     // directive line
		{"non-canonical", 6, true},     // intermediate comment
		{"dangling-boolean-operator", 2, true},
	}

	for _, tt := range tests {
		pos := token.Position{Filename: "test.lucene", Line: tt.line, Column: 1}
		assert.Equal(t, tt.expected, manager.IsNolint(pos, tt.rule), "line %d rule %s", tt.line, tt.rule)
	}

	other := token.Position{Filename: "other.lucene", Line: 3, Column: 1}
	assert.False(t, manager.IsNolint(other, "anyrule"))
}

func TestIsComment(t *testing.T) {
	t.Parallel()
	assert.True(t, IsComment("# x"))
	assert.True(t, IsComment("   #x"))
	assert.False(t, IsComment("a # b"))
	assert.False(t, IsComment(""))
}
