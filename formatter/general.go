package formatter

const issueBody = `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}` +
	`{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding}}` +
	`{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent}}`

type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return issueBody +
		`{{suggestion "Suggestion" .Suggestion .Padding .MaxLineNumWidth .StartLine}}` +
		`{{note .Note}}` + "\n"
}

// CanonicalFormFormatter shows the rewritten query below the original.
type CanonicalFormFormatter struct{}

func (f *CanonicalFormFormatter) IssueTemplate() string {
	return issueBody +
		`{{suggestion "Canonical form" .Suggestion .Padding .MaxLineNumWidth .StartLine}}` + "\n"
}

// TruncatedInputFormatter underlines the ignored tail of the query and
// never offers a suggestion.
type TruncatedInputFormatter struct{}

func (f *TruncatedInputFormatter) IssueTemplate() string {
	return issueBody + `{{note .Note}}` + "\n"
}
