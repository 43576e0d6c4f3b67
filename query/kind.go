package query

import "fmt"

// Kind identifies the lexical category of a token.
type Kind int

const (
	KindGroup              Kind = iota // (inner)
	KindBalancedRange                  // [a TO b] or {a .. b}
	KindBooleanOperator                // AND, OR, NOT, &&, ||, !
	KindDate                           // 2013/01/01 or 1/25/2014
	KindFieldName                      // name:
	KindFuzzyTerm                      // word~
	KindPhrase                         // "quoted text"
	KindWhitespace                     // run of blanks
	KindWildcardTerm                   // qu?ck, bro*, *
	KindRegularExpression              // /regex/
	KindProximity                      // ~5
	KindRangeOperator                  // TO or ..
	KindComparisonOperator             // >, >=, <, <=
	KindBoost                          // ^2
	KindBooleanPrefix                  // + or -
	KindTerm                           // anything else up to whitespace
)

var kindNames = [...]string{
	KindGroup:              "group",
	KindBalancedRange:      "balanced_range",
	KindBooleanOperator:    "boolean_operator",
	KindDate:               "date",
	KindFieldName:          "field_name",
	KindFuzzyTerm:          "fuzzy_term",
	KindPhrase:             "phrase",
	KindWhitespace:         "whitespace",
	KindWildcardTerm:       "wildcard_term",
	KindRegularExpression:  "regular_expression",
	KindProximity:          "proximity",
	KindRangeOperator:      "range_operator",
	KindComparisonOperator: "comparison_operator",
	KindBoost:              "boost",
	KindBooleanPrefix:      "boolean_prefix",
	KindTerm:               "term",
}

// Kinds returns every kind in lexical priority order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// Composite reports whether tokens of this kind own a nested token sequence.
func (k Kind) Composite() bool {
	return k == KindGroup || k == KindBalancedRange
}

// MarshalText renders the kind by name so it can be used as a JSON map key.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown token kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind returns the kind with the given name, e.g. "field_name".
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown token kind %q", name)
}
