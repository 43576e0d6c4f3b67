package query

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/luzene/internal/dates"
)

// DateNormalizer interprets the text of a date token.
type DateNormalizer interface {
	Normalize(text string) (time.Time, error)
}

var (
	wildcardEscaper = NewEscaper("*", "?")
	fuzzyEscaper    = NewEscaper("~")

	comparisonOperators = []string{">", ">=", "<", "<="}
	booleanPrefixes     = []string{"+", "-"}
	booleanOperators    = []string{"AND", "OR", "NOT", "&&", "||", "!"}
)

// canonicalizer renders one token. ok is false when the token must be
// dropped from the output.
type canonicalizer func(s *Serializer, t Token) (out string, ok bool)

var canonicalizers [len(kindNames)]canonicalizer

// The table is filled in init because group and range rendering recurse
// through Serializer.Tokens, which reads the table.
func init() {
	canonicalizers = [len(kindNames)]canonicalizer{
		KindTerm:               escaped(defaultEscaper),
		KindPhrase:             canonicalPhrase,
		KindWhitespace:         func(*Serializer, Token) (string, bool) { return " ", true },
		KindFieldName:          canonicalFieldName,
		KindWildcardTerm:       escaped(wildcardEscaper),
		KindRegularExpression:  func(_ *Serializer, t Token) (string, bool) { return "/" + t.value + "/", true },
		KindFuzzyTerm:          canonicalFuzzy,
		KindProximity:          positiveNumber("~"),
		KindDate:               canonicalDate,
		KindBalancedRange:      canonicalRange,
		KindRangeOperator:      func(*Serializer, Token) (string, bool) { return "TO", true },
		KindComparisonOperator: oneOf(comparisonOperators),
		KindBoost:              positiveNumber("^"),
		KindBooleanPrefix:      oneOf(booleanPrefixes),
		KindBooleanOperator:    oneOf(booleanOperators),
		KindGroup:              canonicalGroup,
	}
}

// SerializerOption configures a Serializer.
type SerializerOption func(*Serializer)

// WithDateNormalizer sets the collaborator used for date tokens.
func WithDateNormalizer(n DateNormalizer) SerializerOption {
	return func(s *Serializer) {
		if n != nil {
			s.dates = n
		}
	}
}

// WithSerializerLogger sets the logger used to report dropped tokens.
func WithSerializerLogger(logger *zap.Logger) SerializerOption {
	return func(s *Serializer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// PreserveRangeBrackets keeps the source delimiters of balanced ranges
// ({a TO b} stays exclusive) instead of always emitting square brackets.
func PreserveRangeBrackets(preserve bool) SerializerOption {
	return func(s *Serializer) {
		s.preserveBrackets = preserve
	}
}

// Serializer turns tokens back into canonical query text.
type Serializer struct {
	dates            DateNormalizer
	logger           *zap.Logger
	preserveBrackets bool
}

// NewSerializer returns a Serializer using the built-in date normalizer.
func NewSerializer(opts ...SerializerOption) *Serializer {
	s := &Serializer{
		dates:  dates.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSerializer = NewSerializer()

// Token renders t. ok is false when the token has nothing valid to
// contribute and is dropped; that is not an error on its own.
func (s *Serializer) Token(t Token) (string, bool) {
	if !t.kind.Valid() {
		return "", false
	}
	out, ok := canonicalizers[t.kind](s, t)
	if !ok || out == "" {
		return "", false
	}
	return out, true
}

// Tokens concatenates the canonical form of ts. Dropped tokens contribute
// nothing.
func (s *Serializer) Tokens(ts []Token) string {
	var b strings.Builder
	for _, t := range ts {
		if out, ok := s.Token(t); ok {
			b.WriteString(out)
		}
	}
	return b.String()
}

// Canonical renders t with the default serializer. A dropped token yields
// the empty string.
func Canonical(t Token) string {
	out, _ := defaultSerializer.Token(t)
	return out
}

// CanonicalString renders ts with the default serializer.
func CanonicalString(ts []Token) string {
	return defaultSerializer.Tokens(ts)
}

func escaped(e *Escaper) canonicalizer {
	return func(_ *Serializer, t Token) (string, bool) {
		return e.Escape(t.value), true
	}
}

func canonicalPhrase(_ *Serializer, t Token) (string, bool) {
	return `"` + defaultEscaper.Escape(t.value) + `"`, true
}

// canonicalFuzzy restores the trailing ~ the lexer strips from the value.
func canonicalFuzzy(_ *Serializer, t Token) (string, bool) {
	return fuzzyEscaper.Escape(strings.TrimRight(t.value, "~")) + "~", true
}

func canonicalFieldName(_ *Serializer, t Token) (string, bool) {
	// *: addresses every field and must stay unescaped
	if t.value == "*" {
		return "*:", true
	}
	return defaultEscaper.Escape(t.value) + ":", true
}

func positiveNumber(prefix string) canonicalizer {
	return func(_ *Serializer, t Token) (string, bool) {
		n, err := strconv.ParseFloat(t.value, 64)
		if err != nil || n <= 0 {
			return "", false
		}
		return prefix + t.value, true
	}
}

func oneOf(allowed []string) canonicalizer {
	return func(_ *Serializer, t Token) (string, bool) {
		if !slices.Contains(allowed, t.value) {
			return "", false
		}
		return t.value, true
	}
}

func canonicalDate(s *Serializer, t Token) (string, bool) {
	d, err := s.dates.Normalize(t.value)
	if err != nil {
		s.logger.Debug("dropping unrecognized date",
			zap.String("value", t.value),
			zap.Int("position", t.pos),
			zap.Error(err))
		return "", false
	}
	return d.Format(dates.Layout), true
}

func canonicalGroup(s *Serializer, t Token) (string, bool) {
	return "(" + s.Tokens(t.children) + ")", true
}

func canonicalRange(s *Serializer, t Token) (string, bool) {
	if !wellFormedRange(t.children) {
		return "", false
	}

	opening, closing := "[", "]"
	if s.preserveBrackets && len(t.source) >= 2 {
		opening, closing = t.source[:1], t.source[len(t.source)-1:]
	}
	return opening + s.Tokens(t.children) + closing, true
}

// wellFormedRange accepts "low TO high" with or without the surrounding
// whitespace tokens.
func wellFormedRange(children []Token) bool {
	switch len(children) {
	case 3:
		return children[1].Is(KindRangeOperator)
	case 5:
		return children[2].Is(KindRangeOperator)
	default:
		return false
	}
}
