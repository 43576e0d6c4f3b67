// Package luzene normalizes Lucene/Elasticsearch query strings.
//
// A Query wraps one raw query string. It lexes the text on first use,
// validates the token stream and renders it in canonical form:
//
//	q := luzene.New(`title:"brown cow" AND date:[1/25/2014 TO 3/25/2014]`)
//	canonical, ok := q.Parse()
//	if !ok {
//		fmt.Println(q.Errors())
//	}
//
// The lexer, token model and serializer live in the query package.
package luzene

import (
	"go.uber.org/zap"

	"github.com/gnoswap-labs/luzene/query"
)

// Option configures a Query.
type Option func(*Query)

// WithLogger sets the logger shared by the lexer and the serializer.
func WithLogger(logger *zap.Logger) Option {
	return func(q *Query) {
		if logger == nil {
			return
		}
		q.lexOpts = append(q.lexOpts, query.WithLogger(logger))
		q.serOpts = append(q.serOpts, query.WithSerializerLogger(logger))
	}
}

// WithDateNormalizer replaces the collaborator used for date tokens.
func WithDateNormalizer(n query.DateNormalizer) Option {
	return func(q *Query) {
		q.serOpts = append(q.serOpts, query.WithDateNormalizer(n))
	}
}

// WithPreserveRangeBrackets keeps the original range delimiters instead
// of rewriting them to square brackets.
func WithPreserveRangeBrackets(preserve bool) Option {
	return func(q *Query) {
		q.serOpts = append(q.serOpts, query.PreserveRangeBrackets(preserve))
	}
}

// WithPatterns lexes with a custom pattern table.
func WithPatterns(patterns []query.Pattern) Option {
	return func(q *Query) {
		q.lexOpts = append(q.lexOpts, query.WithPatterns(patterns))
	}
}

// Query is a raw query string together with its lexed and validated
// forms. It is not safe for concurrent use.
type Query struct {
	original string
	lexOpts  []query.Option
	serOpts  []query.SerializerOption

	lexer  *query.Lexer
	parser *query.Parser
}

// New creates a Query for text. Nothing is lexed until the tokens are
// needed.
func New(text string, opts ...Option) *Query {
	q := &Query{original: text}
	for _, opt := range opts {
		opt(q)
	}
	q.parser = query.NewParser(nil, q.serOpts...)
	return q
}

// Original returns the raw text.
func (q *Query) Original() string {
	return q.original
}

// SetValue replaces the raw text and discards the previous tokens.
func (q *Query) SetValue(text string) {
	q.original = text
	q.lexer = nil
}

// Tokens lexes the raw text once and returns the root-level tokens.
func (q *Query) Tokens() []query.Token {
	if q.lexer == nil {
		q.lexer = query.NewLexer(q.original, q.lexOpts...)
	}
	return q.lexer.Tokenize()
}

// Syntax returns the kind tree of the tokens.
func (q *Query) Syntax() []any {
	return query.Syntax(q.Tokens())
}

// Parse validates the tokens and returns the canonical query. ok is false
// when the query is invalid; Errors explains why.
func (q *Query) Parse() (string, bool) {
	tokens := q.Tokens()
	if len(tokens) == 0 {
		// an empty variadic call would keep the previous value's tokens
		q.parser = query.NewParser(nil, q.serOpts...)
	}
	return q.parser.Parse(tokens...)
}

// Value is Parse without the validity flag: the canonical query or "".
func (q *Query) Value() string {
	v, _ := q.Parse()
	return v
}

// String implements fmt.Stringer with the canonical query.
func (q *Query) String() string {
	return q.Value()
}

// Valid parses the query and reports whether it passed validation.
func (q *Query) Valid() bool {
	_, ok := q.Parse()
	return ok
}

// Errors returns the validation messages of the most recent parse.
func (q *Query) Errors() []string {
	return q.parser.Errors()
}

// Truncated reports whether lexing stopped before the end of the text.
func (q *Query) Truncated() bool {
	q.Tokens()
	return q.lexer.Truncated()
}

// TruncatedAt returns the byte offset where lexing stopped, or -1.
func (q *Query) TruncatedAt() int {
	q.Tokens()
	return q.lexer.TruncatedAt()
}

// Parse is a shorthand for New(text).Parse().
func Parse(text string, opts ...Option) (string, bool) {
	return New(text, opts...).Parse()
}
