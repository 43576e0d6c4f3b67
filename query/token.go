package query

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Token is a single lexical unit of a query string.
//
// Literal tokens carry only their captured value. Composite tokens (groups
// and balanced ranges) additionally own the tokens obtained by lexing their
// value again with the same pattern table. Tokens are immutable.
type Token struct {
	kind      Kind
	value     string
	source    string
	pos       int
	children  []Token
	truncated bool
}

// NewToken builds a token of the given kind from its captured value.
// Composite kinds lex value immediately to produce their children.
func NewToken(kind Kind, value string) (Token, error) {
	return newToken(kind, value, value, 0, nil)
}

func newToken(kind Kind, value, source string, pos int, opts []Option) (Token, error) {
	if !kind.Valid() {
		return Token{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}

	t := Token{
		kind:   kind,
		value:  value,
		source: source,
		pos:    pos,
	}
	if kind.Composite() {
		l := NewLexer(value, opts...)
		t.children = l.Tokenize()
		t.truncated = l.Truncated()
	}
	return t, nil
}

// Kind returns the token's lexical category.
func (t Token) Kind() Kind { return t.kind }

// Value returns the captured value, without delimiters.
func (t Token) Value() string { return t.value }

// Source returns the full matched text, delimiters included.
func (t Token) Source() string { return t.source }

// Position returns the byte offset of the match in the lexed text.
// Children are positioned relative to their parent's value.
func (t Token) Position() int { return t.pos }

// Is reports whether the token is of kind k.
func (t Token) Is(k Kind) bool { return t.kind == k }

// Composite reports whether the token owns a nested token sequence.
func (t Token) Composite() bool { return t.kind.Composite() }

// Children returns a copy of a composite token's nested sequence.
func (t Token) Children() []Token { return slices.Clone(t.children) }

// Len returns the number of children.
func (t Token) Len() int { return len(t.children) }

// Child returns the i-th child.
func (t Token) Child(i int) Token { return t.children[i] }

// Truncated reports whether lexing the token's value, or the value of any
// nested composite, stopped before the end of the input.
func (t Token) Truncated() bool {
	if t.truncated {
		return true
	}
	for _, c := range t.children {
		if c.Truncated() {
			return true
		}
	}
	return false
}

func (t Token) String() string {
	if !t.Composite() {
		return fmt.Sprintf("%s(%s)", t.kind, quote(t.value))
	}

	result := fmt.Sprintf("%s(%d children):\n", t.kind, len(t.children))
	for i, child := range t.children {
		childStr := strings.ReplaceAll(child.String(), "\n", "\n  ")
		result += fmt.Sprintf("  %d: %s\n", i, childStr)
	}
	return strings.TrimRight(result, "\n")
}

func quote(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}

// KindsOf returns the kind of every token in ts, in order.
func KindsOf(ts []Token) []Kind {
	kinds := make([]Kind, len(ts))
	for i, t := range ts {
		kinds[i] = t.kind
	}
	return kinds
}
