// Package internal lints query files.
//
// A query file holds one query per line. Blank lines and lines starting
// with '#' are skipped; a "# nolint" or "# nolint:rule-a,rule-b" comment
// silences the query below it.
//
// Key components:
//
// Engine: Lexes and validates every query of a file and applies the lint
// rules to the result. Rule severities come from the configuration; a rule
// set to OFF is not run.
//
// LintRule: The contract for a rule. The built-in rules report the
// validator errors (no-tokens, invalid-query, dangling-boolean-operator,
// orphan-field-name), lexer truncation (truncated-input) and queries that
// differ from their canonical form (non-canonical).
//
// Cache: Keeps the issues of unchanged files between runs.
//
// Watcher: Re-lints query files on every write.
//
// IgnorePath: Ignored directories are kept in a path trie so that a file is
// skipped when any of its parent directories was ignored.
//
// Usage:
//
//	engine, err := internal.NewEngine(nil)
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("queries/catalog.lucene")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range issues {
//	    fmt.Printf("%s: %s at %s\n", issue.Rule, issue.Message, issue.Start)
//	}
//
// This package is intended for internal use within the linting tool and should not be
// imported by external packages.
package internal
