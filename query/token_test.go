package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_Canonical(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kind     Kind
		value    string
		expected string
	}{
		{KindTerm, "cat?", `cat\?`},
		{KindPhrase, "dog cat", `"dog cat"`},
		{KindWhitespace, "         ", " "},
		{KindFieldName, "mouse", "mouse:"},
		{KindWildcardTerm, "fox*", "fox*"},
		{KindRegularExpression, "joh?n(ath[oa]n)", "/joh?n(ath[oa]n)/"},
		{KindFuzzyTerm, "cow", "cow~"},
		{KindFuzzyTerm, "cow~", "cow~"},
		{KindProximity, "5", "~5"},
		{KindDate, "01/25/1979", "1979/01/25"},
		{KindBalancedRange, "1 .. 5", "[1 TO 5]"},
		{KindRangeOperator, "..", "TO"},
		{KindComparisonOperator, ">=", ">="},
		{KindBoost, "2", "^2"},
		{KindBooleanPrefix, "+", "+"},
		{KindBooleanOperator, "AND", "AND"},
		{KindGroup, "dog cat", "(dog cat)"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()
			tok, err := NewToken(tt.kind, tt.value)
			require.NoError(t, err)

			assert.Equal(t, tt.kind, tok.Kind())
			assert.True(t, tok.Is(tt.kind))
			assert.Equal(t, tt.value, tok.Value())
			assert.Equal(t, tt.kind.Composite(), tok.Composite())
			assert.Equal(t, tt.expected, Canonical(tok))
		})
	}
}

func TestToken_DroppedValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		kind  Kind
		value string
	}{
		{"zero boost", KindBoost, "0"},
		{"negative boost", KindBoost, "-1"},
		{"text boost", KindBoost, "high"},
		{"zero proximity", KindProximity, "0"},
		{"text proximity", KindProximity, "near"},
		{"unknown comparison", KindComparisonOperator, "=>"},
		{"unknown prefix", KindBooleanPrefix, "!"},
		{"lowercase operator", KindBooleanOperator, "and"},
		{"range without operator", KindBalancedRange, "1 5"},
		{"range with extra terms", KindBalancedRange, "1 2 TO 5"},
		{"unreadable date", KindDate, "99/99/9999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tok, err := NewToken(tt.kind, tt.value)
			require.NoError(t, err)

			out, ok := NewSerializer().Token(tok)
			assert.False(t, ok)
			assert.Empty(t, out)
			assert.Empty(t, Canonical(tok))
		})
	}
}

func TestToken_FractionalNumbers(t *testing.T) {
	t.Parallel()
	boost, err := NewToken(KindBoost, "0.5")
	require.NoError(t, err)
	assert.Equal(t, "^0.5", Canonical(boost))

	proximity, err := NewToken(KindProximity, "1.5")
	require.NoError(t, err)
	assert.Equal(t, "~1.5", Canonical(proximity))
}

func TestToken_Composite(t *testing.T) {
	t.Parallel()
	group, err := NewToken(KindGroup, "dog cat")
	require.NoError(t, err)

	assert.Equal(t, 3, group.Len())
	assert.Equal(t, []Kind{KindTerm, KindWhitespace, KindTerm}, KindsOf(group.Children()))
	assert.Equal(t, "dog", group.Child(0).Value())
	assert.Equal(t, 4, group.Child(2).Position())
	assert.False(t, group.Truncated())

	// mutating the returned slice leaves the token untouched
	children := group.Children()
	children[0] = Token{}
	assert.Equal(t, "dog", group.Child(0).Value())

	literal, err := NewToken(KindTerm, "dog")
	require.NoError(t, err)
	assert.Empty(t, literal.Children())
	assert.Equal(t, 0, literal.Len())
}

func TestToken_UnknownKind(t *testing.T) {
	t.Parallel()
	_, err := NewToken(Kind(42), "x")
	assert.ErrorIs(t, err, ErrUnknownKind)

	assert.Empty(t, Canonical(Token{kind: Kind(-1), value: "x"}))
}

func TestToken_String(t *testing.T) {
	t.Parallel()
	term, err := NewToken(KindTerm, "a\tb")
	require.NoError(t, err)
	assert.Equal(t, `term(a\tb)`, term.String())

	group, err := NewToken(KindGroup, "a b")
	require.NoError(t, err)
	expected := "group(3 children):\n  0: term(a)\n  1: whitespace( )\n  2: term(b)"
	assert.Equal(t, expected, group.String())
}

func TestPreserveRangeBrackets(t *testing.T) {
	t.Parallel()
	tokens := Tokenize("{alpha TO omega] [1 .. 5}")
	require.Len(t, tokens, 3)

	assert.Equal(t, "[alpha TO omega] [1 TO 5]", NewSerializer().Tokens(tokens))
	assert.Equal(t, "{alpha TO omega] [1 TO 5}", NewSerializer(PreserveRangeBrackets(true)).Tokens(tokens))
}
