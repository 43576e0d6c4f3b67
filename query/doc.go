/*
Package query provides a lexer, validator and canonical serializer for the
Lucene/Elasticsearch query string mini-language.

# Overview

A query string is lexed into a flat sequence of typed tokens. Groups and
ranges are composite: their inner text is lexed again with the same rules
and kept as child tokens. The sequence is then checked for structural
mistakes and written back out in a canonical, escaped form.

	tokens := query.Tokenize(`(cat AND dog) OR mouse:mighty`)
	parser := query.NewParser(tokens)
	canonical, ok := parser.Parse()
	if !ok {
		fmt.Println(parser.Errors())
	}

# Token Kinds

The lexer tries the following kinds in order at every position and keeps
the first match:

  - group: (quick OR brown)
  - balanced_range: [2012/01/01 TO 2012/12/31], {1 .. 5}
  - boolean_operator: AND, OR, NOT, &&, ||, !
  - date: 2012/01/01, 1/25/2014
  - field_name: status:, *:
  - fuzzy_term: quikc~
  - phrase: "john smith"
  - whitespace
  - wildcard_term: qu?ck, bro*, *
  - regular_expression: /joh?n(ath[oa]n)/
  - proximity: ~5
  - range_operator: TO, ..
  - comparison_operator: >, >=, <, <=
  - boost: ^2
  - boolean_prefix: +, -
  - term: anything else up to the next whitespace

If nothing matches at a position the remaining input is dropped. The
lexer records this so callers can tell.

# Canonical Form

Reserved characters (+ - && || ! ( ) { } [ ] ^ " ~ * ? : \ /) are escaped
with a backslash, whitespace runs collapse to one space, ".." becomes TO
and phrases are double quoted. Tokens whose value cannot be rendered (a
zero boost, a malformed range, a date that cannot be read) are dropped
silently; if nothing is left the parser reports the query as invalid.

# Validation

The parser reports:

  - no tokens to parse
  - query is invalid
  - dangling boolean operator not allowed
  - orphan field names not allowed

Errors are cleared on every Parse call.
*/
package query
