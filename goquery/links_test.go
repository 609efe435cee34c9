package goquery_test

import (
	"testing"

	"github.com/hasna/docdex"
	"github.com/hasna/docdex/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkSelector_resolves_relative_urls(t *testing.T) {
	t.Parallel()

	html := `<body><main>
		<a href="/docs/intro">Intro</a>
		<a href="advanced">Advanced</a>
	</main></body>`

	links, err := goquery.NewLinkSelector().ExtractLinks(html, "https://example.com/docs/")
	require.NoError(t, err)
	require.Len(t, links, 2)

	assert.Equal(t, "https://example.com/docs/intro", links[0].URL)
	assert.Equal(t, "https://example.com/docs/advanced", links[1].URL)
}

func TestLinkSelector_nav_links_outrank_content_links(t *testing.T) {
	t.Parallel()

	html := `<body>
		<nav><a href="/docs/guide">Guide</a></nav>
		<main><a href="/docs/guide">Guide inline</a><a href="/docs/other">Other</a></main>
	</body>`

	links, err := goquery.NewLinkSelector().ExtractLinks(html, "https://example.com/")
	require.NoError(t, err)

	byURL := make(map[string]docdex.DiscoveredLink)
	for _, l := range links {
		byURL[l.URL] = l
	}

	assert.Equal(t, docdex.PriorityNavigation, byURL["https://example.com/docs/guide"].Priority)
	assert.Equal(t, docdex.PriorityContent, byURL["https://example.com/docs/other"].Priority)
}

func TestLinkSelector_skips_non_http_and_self_links(t *testing.T) {
	t.Parallel()

	html := `<body><main>
		<a href="javascript:void(0)">JS</a>
		<a href="mailto:docs@example.com">Mail</a>
		<a href="#section">Anchor</a>
		<a href="/docs/real">Real</a>
	</main></body>`

	links, err := goquery.NewLinkSelector().ExtractLinks(html, "https://example.com/")
	require.NoError(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/docs/real", links[0].URL)
}

func TestLinkSelector_keeps_external_links_for_crawler_to_filter(t *testing.T) {
	t.Parallel()

	html := `<body><main><a href="https://other.com/docs">External</a></main></body>`

	links, err := goquery.NewLinkSelector().ExtractLinks(html, "https://example.com/")
	require.NoError(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, "https://other.com/docs", links[0].URL)
}

func TestLinkSelector_deduplicates_by_stripped_fragment(t *testing.T) {
	t.Parallel()

	html := `<body><main>
		<a href="/docs/page#a">Part A</a>
		<a href="/docs/page#b">Part B</a>
	</main></body>`

	links, err := goquery.NewLinkSelector().ExtractLinks(html, "https://example.com/")
	require.NoError(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/docs/page", links[0].URL)
}
