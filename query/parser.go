package query

import (
	"slices"
	"strings"
)

// Validation messages reported by Parser.
const (
	ErrNoTokens        = "no tokens to parse"
	ErrInvalidQuery    = "query is invalid"
	ErrDanglingBoolean = "dangling boolean operator not allowed"
	ErrOrphanFieldName = "orphan field names not allowed"
)

// Parser validates a token sequence and renders it canonically.
// A Parser keeps the state of its last Parse call and is not safe for
// concurrent use.
type Parser struct {
	tokens     []Token
	serializer *Serializer
	parsed     string
	errors     []string
}

// NewParser creates a new Parser instance
func NewParser(tokens []Token, opts ...SerializerOption) *Parser {
	return &Parser{
		tokens:     tokens,
		serializer: NewSerializer(opts...),
	}
}

// Parse validates tokens, replacing the tokens given to NewParser when
// non-empty, and returns the canonical query. ok is false when validation
// failed; Errors explains why. Errors from earlier calls are discarded.
func (p *Parser) Parse(tokens ...Token) (string, bool) {
	p.errors = p.errors[:0]
	if len(tokens) > 0 {
		p.tokens = tokens
	}
	p.parsed = p.serializer.Tokens(p.tokens)

	if !p.Valid() {
		return "", false
	}
	return p.parsed, true
}

// Valid re-runs validation against the last parse.
func (p *Parser) Valid() bool {
	p.validate()
	return len(p.errors) == 0
}

// Errors returns the distinct validation messages of the last parse.
func (p *Parser) Errors() []string {
	return slices.Clone(p.errors)
}

// Parsed returns the canonical text of the last parse, whether or not it
// was valid.
func (p *Parser) Parsed() string {
	return p.parsed
}

// Tokens returns the tokens being validated.
func (p *Parser) Tokens() []Token {
	return p.tokens
}

func (p *Parser) validate() {
	switch {
	case len(p.tokens) == 0:
		p.addError(ErrNoTokens)
	case strings.TrimSpace(p.parsed) == "":
		p.addError(ErrInvalidQuery)
	default:
		if danglingBoolean(p.tokens) {
			p.addError(ErrDanglingBoolean)
		}
		if orphanFieldName(p.tokens) {
			p.addError(ErrOrphanFieldName)
		}
	}
}

func (p *Parser) addError(msg string) {
	if !slices.Contains(p.errors, msg) {
		p.errors = append(p.errors, msg)
	}
}

// danglingBoolean reports a boolean operator with no right-hand operand:
// it is last, or it is glued to a final token.
func danglingBoolean(ts []Token) bool {
	for i, t := range ts {
		if !t.Is(KindBooleanOperator) {
			continue
		}
		if i+1 >= len(ts) {
			return true
		}
		if !ts[i+1].Is(KindWhitespace) && i+2 >= len(ts) {
			return true
		}
	}
	return false
}

// orphanFieldName reports a field name with no value directly after it.
func orphanFieldName(ts []Token) bool {
	for i, t := range ts {
		if !t.Is(KindFieldName) {
			continue
		}
		if i+1 >= len(ts) || ts[i+1].Is(KindWhitespace) {
			return true
		}
	}
	return false
}
