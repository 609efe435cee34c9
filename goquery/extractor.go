// Package goquery provides CSS-selector based implementations of content
// extraction and link discovery for documentation pages.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hasna/docdex"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docdex.Extractor at compile time.
var _ docdex.Extractor = (*Extractor)(nil)

// contentSelectors is the structural selector priority list. The first
// selector with a non-empty match wins; it is a priority list, not a
// union.
var contentSelectors = []string{
	"main article",
	"article",
	"main",
	"[role=\"main\"]",
	".theme-doc-markdown", // Docusaurus
	".markdown-body",
	".docs-content",
	".documentation",
	".doc-content",
	".content-body",
	"#main-content",
	".main-content",
}

// boilerplateSelectors match elements removed before extraction:
// navigation chrome, scripts, hidden subtrees, and the usual cookie,
// consent, and modal containers.
var boilerplateSelectors = []string{
	"nav", "header", "footer", "aside",
	"script", "style", "noscript",
	"[aria-hidden=\"true\"]",
	"[class*=\"cookie\"]", "[id*=\"cookie\"]",
	"[class*=\"consent\"]",
	"[class*=\"modal\"]", "[class*=\"popup\"]",
	".banner", "[class*=\"announcement-bar\"]",
}

// Extractor isolates main documentation content using an ordered list of
// structural selectors, degrading to the body and then the whole
// document. An optional Fallback extractor handles pages where selector
// extraction produces no usable text.
type Extractor struct {
	// Fallback, when set, is consulted if structural extraction yields
	// empty content (e.g. a content-density extractor).
	Fallback docdex.Extractor
}

// NewExtractor creates a new Extractor without a fallback.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. It never
// fails on missing structure: partial or noisy content is preferable to
// a hard failure during a multi-page crawl.
func (e *Extractor) Extract(rawHTML string) (*docdex.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		// Unparsable input degrades to the raw document.
		return &docdex.ExtractResult{ContentHTML: rawHTML}, nil
	}

	title := extractTitle(doc)

	for _, sel := range boilerplateSelectors {
		doc.Find(sel).Remove()
	}
	for _, n := range doc.Nodes {
		removeComments(n)
	}

	contentHTML := selectContent(doc)

	if strings.TrimSpace(textOf(contentHTML)) == "" && e.Fallback != nil {
		result, err := e.Fallback.Extract(rawHTML)
		if err == nil && strings.TrimSpace(result.ContentHTML) != "" {
			if result.Title == "" {
				result.Title = title
			}
			return result, nil
		}
	}

	return &docdex.ExtractResult{
		Title:       title,
		ContentHTML: contentHTML,
	}, nil
}

// selectContent returns the first structural selector match, falling
// back to the body contents, then the whole document.
func selectContent(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if strings.TrimSpace(sel.Text()) == "" {
			continue
		}
		if h, err := goquery.OuterHtml(sel); err == nil {
			return h
		}
	}

	if body := doc.Find("body").First(); body.Length() > 0 {
		if h, err := body.Html(); err == nil {
			return h
		}
	}

	h, err := doc.Html()
	if err != nil {
		return ""
	}
	return h
}

// extractTitle prefers og:title metadata, then <title>, then the first
// h1.
func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find("meta[property=\"og:title\"]").First().Attr("content"); ok {
		if t := strings.TrimSpace(og); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// removeComments strips HTML comment nodes from the parsed tree.
func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}

// textOf returns the visible text of an HTML fragment.
func textOf(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return doc.Text()
}
