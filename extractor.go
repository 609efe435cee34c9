package docdex

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML with navigation,
	// boilerplate and hidden subtrees removed.
	ContentHTML string
}

// Extractor isolates the main documentation content from raw HTML.
//
// Extraction degrades rather than fails: when no structural match is
// found it falls back to the body, then to the whole document, because
// partial or noisy content is preferable to a hard failure mid-crawl.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
