package query

import "regexp"

// Pattern pairs a token kind with the expression that recognizes it.
// Capture group 1 holds the token value.
type Pattern struct {
	Kind Kind
	Expr *regexp.Regexp
}

// Patterns is the lexical priority table. At every cursor position the
// lexer tries the entries top down and keeps the first match, so the order
// here decides every ambiguity (an AND inside a word, a date vs. a term).
var Patterns = []Pattern{
	{KindGroup, anchored(`\(([^()]+)\)`)},
	{KindBalancedRange, anchored(`(?:\{|\[)([^{}\[\]]+(?: TO | \.{2} )[^{}\[\]]+)(?:\}|\])`)},
	{KindBooleanOperator, anchored(`(AND|OR|NOT|&{2}|\|{2}|!)`)},
	{KindDate, anchored(`(\b(?:\d{4}/\d{1,2}/\d{1,2}|\d{1,2}/\d{1,2}/\d{4})\b)`)},
	{KindFieldName, anchored(`(\w+|\*):`)},
	{KindFuzzyTerm, anchored(`(\w+)~`)},
	{KindPhrase, anchored(`(?:"|')([^"']+)(?:"|')`)},
	{KindWhitespace, anchored(`(\s+)`)},
	{KindWildcardTerm, anchored(`(\w*[?*]\w+|\w+[?*]\w*|\*)`)},
	{KindRegularExpression, anchored(`/(.+?)/`)},
	{KindProximity, anchored(`~(\d+(?:\.\d+)?)`)},
	{KindRangeOperator, anchored(`(TO|\.{2})`)},
	{KindComparisonOperator, anchored(`((?:>|<)=?)`)},
	{KindBoost, anchored(`\^(\d+(?:\.\d+)?)`)},
	{KindBooleanPrefix, anchored(`([+-])`)},
	{KindTerm, anchored(`(\S+)`)},
}

// anchored compiles expr so that it only matches at the start of the input.
func anchored(expr string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + expr + `)`)
}

// PatternFor returns the table entry for kind.
func PatternFor(kind Kind) (Pattern, bool) {
	for _, p := range Patterns {
		if p.Kind == kind {
			return p, true
		}
	}
	return Pattern{}, false
}
