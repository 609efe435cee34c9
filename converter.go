package docdex

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML (e.g. from an Extractor) into
	// Markdown, preserving fenced code blocks and their languages.
	Convert(html string) (string, error)
}
