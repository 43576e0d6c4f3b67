package query

// Syntax describes the shape of a token sequence. Each literal token
// becomes its Kind and each composite becomes a single-entry
// map[Kind][]any holding the syntax of its children.
func Syntax(ts []Token) []any {
	out := make([]any, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Syntax())
	}
	return out
}

// Syntax describes the token: its kind, or for composites a map from its
// kind to the syntax of its children.
func (t Token) Syntax() any {
	if !t.Composite() {
		return t.kind
	}
	return map[Kind][]any{t.kind: Syntax(t.children)}
}
