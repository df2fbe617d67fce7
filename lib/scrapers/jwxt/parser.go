package jwxt

// Parser bundles the page classification and extraction rules for
// this site behind a value that can be handed to code expecting a
// per-site parser.
type Parser struct{}

func (Parser) Classify(html string) PageKind {
	return Classify(html)
}

func (Parser) ExtractSignatures(html string) []string {
	return ExtractSignatures(html)
}
