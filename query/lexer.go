package query

import (
	"errors"

	"go.uber.org/zap"
)

// ErrUnknownKind is returned when a token is requested for a kind outside
// the pattern table.
var ErrUnknownKind = errors.New("unknown token kind")

// Option configures a Lexer.
type Option func(*Lexer)

// WithLogger sets the logger used to report skipped matches.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Lexer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithPatterns replaces the pattern table. Composite tokens are lexed
// with the same table.
func WithPatterns(patterns []Pattern) Option {
	return func(l *Lexer) {
		l.patterns = patterns
	}
}

// Lexer is responsible for scanning the input string and producing tokens.
type Lexer struct {
	input     string
	position  int
	tokens    []Token
	patterns  []Pattern
	logger    *zap.Logger
	opts      []Option
	truncated bool
	done      bool
}

// NewLexer returns a new Lexer with the given input and initializes state.
func NewLexer(input string, opts ...Option) *Lexer {
	l := &Lexer{
		input:    input,
		patterns: Patterns,
		logger:   zap.NewNop(),
		opts:     opts,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tokenize processes the entire input and produces the list of tokens.
// At each position the first pattern of the table that matches wins. When
// no pattern matches the rest of the input is dropped and Truncated
// reports true. Calling Tokenize again returns the same tokens.
func (l *Lexer) Tokenize() []Token {
	if l.done {
		return l.tokens
	}
	l.done = true

	for l.position < len(l.input) {
		if !l.next() {
			l.truncated = true
			l.logger.Debug("no pattern matches, dropping remaining input",
				zap.Int("position", l.position),
				zap.String("remaining", l.input[l.position:]))
			break
		}
	}
	return l.tokens
}

// next matches one pattern at the cursor and reports whether the cursor
// moved.
func (l *Lexer) next() bool {
	rest := l.input[l.position:]
	for _, p := range l.patterns {
		m := p.Expr.FindStringSubmatchIndex(rest)
		if m == nil || m[1] == 0 {
			continue
		}

		start := l.position
		source := rest[:m[1]]
		value := ""
		if len(m) >= 4 && m[2] >= 0 {
			value = rest[m[2]:m[3]]
		}
		l.position += m[1]

		tok, err := newToken(p.Kind, value, source, start, l.opts)
		if err != nil {
			// the cursor has already moved past the match
			l.logger.Debug("skipping unmappable match",
				zap.Int("position", start),
				zap.String("source", source),
				zap.Error(err))
			return true
		}
		l.tokens = append(l.tokens, tok)
		return true
	}
	return false
}

// Tokens returns the tokens produced so far.
func (l *Lexer) Tokens() []Token {
	return l.tokens
}

// Truncated reports whether Tokenize stopped before the end of the input,
// either here or inside a composite token.
func (l *Lexer) Truncated() bool {
	if l.truncated {
		return true
	}
	for _, t := range l.tokens {
		if t.Truncated() {
			return true
		}
	}
	return false
}

// TruncatedAt returns the byte offset where lexing stopped, or -1 when the
// whole input was consumed.
func (l *Lexer) TruncatedAt() int {
	if !l.truncated {
		return -1
	}
	return l.position
}

// Tokenize lexes input with the default pattern table.
func Tokenize(input string, opts ...Option) []Token {
	return NewLexer(input, opts...).Tokenize()
}
