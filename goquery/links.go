package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hasna/docdex"
)

// Ensure LinkSelector implements docdex.LinkSelector at compile time.
var _ docdex.LinkSelector = (*LinkSelector)(nil)

// selectorConfig pairs a CSS selector with the priority and source label
// of the links it yields.
type selectorConfig struct {
	selector string
	priority docdex.LinkPriority
	source   string
}

// semanticConfigs prioritize links by where they appear on the page.
// Navigation and TOC links reach most of a documentation site fastest.
var semanticConfigs = []selectorConfig{
	{".toc a[href]", docdex.PriorityTOC, "toc"},
	{".table-of-contents a[href]", docdex.PriorityTOC, "toc"},
	{"nav a[href]", docdex.PriorityNavigation, "nav"},
	{".sidebar a[href]", docdex.PriorityNavigation, "nav"},
	{"[class*=\"menu\"] a[href]", docdex.PriorityNavigation, "nav"},
	{"main a[href]", docdex.PriorityContent, "content"},
	{"article a[href]", docdex.PriorityContent, "content"},
	{"footer a[href]", docdex.PriorityFooter, "footer"},
}

// LinkSelector extracts prioritized links from HTML using semantic CSS
// selectors, with a low-priority fallback over all anchors so sites with
// non-semantic markup still get their links discovered.
type LinkSelector struct{}

// NewLinkSelector creates a new LinkSelector.
func NewLinkSelector() *LinkSelector {
	return &LinkSelector{}
}

// ExtractLinks parses HTML and returns discovered links with priority.
// Links are deduplicated by resolved URL, keeping the highest-priority
// occurrence; fragments are stripped. Non-HTTP hrefs (javascript:,
// mailto:, tel:, data:) are skipped. The selector does not filter by
// host: scope decisions belong to the crawler.
func (s *LinkSelector) ExtractLinks(rawHTML string, baseURL string) ([]docdex.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]int)
	var links []docdex.DiscoveredLink

	collect := func(sel *goquery.Selection, priority docdex.LinkPriority, source string) {
		href, ok := sel.Attr("href")
		if !ok || href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}

		link := docdex.DiscoveredLink{
			URL:      resolved,
			Priority: priority,
			Text:     strings.TrimSpace(sel.Text()),
			Source:   source,
		}

		if idx, ok := seen[resolved]; ok {
			if priority > links[idx].Priority {
				links[idx] = link
			}
			return
		}
		seen[resolved] = len(links)
		links = append(links, link)
	}

	for _, config := range semanticConfigs {
		doc.Find(config.selector).Each(func(_ int, sel *goquery.Selection) {
			collect(sel, config.priority, config.source)
		})
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		collect(sel, docdex.PriorityFallback, "fallback")
	})

	return links, nil
}

// resolveURL resolves a relative href against a base URL, stripping
// fragments. Returns "" for unparsable hrefs and self-referential links.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if resolved.String() == baseNoFragment.String() {
		return ""
	}
	return resolved.String()
}

// isNonHTTPLink reports whether a href uses a scheme that is never
// crawled.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
