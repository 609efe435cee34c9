// Package crawl drives bounded crawling of documentation sites. It
// coordinates frontier management, fetching, content extraction, and
// markdown conversion, producing crawled pages for the ingestion
// pipeline.
package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hasna/docdex"
	"golang.org/x/sync/errgroup"
)

// Crawl defaults and frontier sizing.
const (
	DefaultMaxPages    = 100
	DefaultConcurrency = 5

	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// Options configures a single crawl session.
type Options struct {
	// MaxPages caps successfully fetched pages. Defaults to
	// DefaultMaxPages.
	MaxPages int

	// AllowedDomains restricts fetching. URLs outside the list are
	// discovered but never fetched. Empty means same-host as the seed.
	AllowedDomains []string

	// ExcludePatterns are glob-like patterns (see docdex.PathPattern)
	// matched against URL paths; matching URLs are skipped before
	// fetch.
	ExcludePatterns []string

	// Events receives progress events. Optional.
	Events docdex.CrawlEventFunc
}

// Crawler crawls a bounded set of same-site documentation pages starting
// from a seed URL.
type Crawler struct {
	Fetcher     docdex.Fetcher
	Extractor   docdex.Extractor
	Converter   docdex.Converter
	Links       docdex.LinkSelector
	Sitemaps    docdex.SitemapService // optional frontier pre-seed
	RateLimiter docdex.DomainLimiter  // optional
	Concurrency int
	RetryDelays []time.Duration
}

// crawlState is the mutable state shared by crawl workers. MaxPages is
// enforced with the shared fetched counter, not per worker.
type crawlState struct {
	mu      sync.Mutex
	fetched int
	pages   []*docdex.CrawledPage
	errors  []docdex.CrawlError
}

// Crawl fetches up to opts.MaxPages pages reachable from seedURL.
//
// Per-page failures are recorded in the result and never abort the
// crawl. The result always carries partial progress, including when the
// context is canceled mid-crawl. Only an invalid seed URL or exclude
// pattern fails the whole operation.
func (c *Crawler) Crawl(ctx context.Context, seedURL string, opts Options) (*docdex.CrawlResult, error) {
	seed, err := url.Parse(seedURL)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "invalid seed URL %q: %v", seedURL, err)
	}
	if seed.Scheme != "http" && seed.Scheme != "https" {
		return nil, docdex.Errorf(docdex.EINVALID, "unsupported seed URL scheme %q", seed.Scheme)
	}

	excludes := make([]*docdex.PathPattern, 0, len(opts.ExcludePatterns))
	for _, pattern := range opts.ExcludePatterns {
		p, err := docdex.CompilePathPattern(pattern)
		if err != nil {
			return nil, err
		}
		excludes = append(excludes, p)
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	allowed := opts.AllowedDomains
	if len(allowed) == 0 {
		allowed = []string{seed.Hostname()}
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(docdex.DiscoveredLink{URL: seedURL, Priority: docdex.PriorityTOC, Source: "seed"})
	c.seedFromSitemap(ctx, seedURL, frontier)

	state := &crawlState{}
	start := time.Now()

	for ctx.Err() == nil {
		state.mu.Lock()
		done := state.fetched >= maxPages
		state.mu.Unlock()
		if done {
			break
		}

		batch := c.nextBatch(frontier, concurrency, allowed, excludes, opts.Events)
		if len(batch) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, link := range batch {
			g.Go(func() error {
				c.processLink(gctx, link, maxPages, frontier, state, opts.Events)
				return nil
			})
		}
		_ = g.Wait()
	}

	result := &docdex.CrawlResult{
		Pages:      state.pages,
		TotalPages: len(state.pages),
		Duration:   time.Since(start),
		Errors:     state.errors,
	}
	emit(opts.Events, docdex.CrawlEvent{Type: docdex.EventComplete, Fetched: result.TotalPages})
	return result, nil
}

// nextBatch pops up to n fetchable links, applying the scheme, domain
// and exclude-pattern boundaries. Filtered links are consumed so the
// loop always makes progress.
func (c *Crawler) nextBatch(frontier *Frontier, n int, allowed []string, excludes []*docdex.PathPattern, events docdex.CrawlEventFunc) []docdex.DiscoveredLink {
	var batch []docdex.DiscoveredLink
	for len(batch) < n {
		link, ok := frontier.Pop()
		if !ok {
			break
		}

		u, err := url.Parse(link.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		if !domainAllowed(u.Hostname(), allowed) {
			// Discovered but never fetched: this is a scope
			// boundary, not a filter.
			continue
		}
		if matchesAny(excludes, u.Path) {
			emit(events, docdex.CrawlEvent{Type: docdex.EventSkipped, URL: link.URL})
			continue
		}

		batch = append(batch, link)
	}
	return batch
}

// processLink fetches, extracts, and converts a single URL, pushing any
// discovered links back onto the frontier.
func (c *Crawler) processLink(ctx context.Context, link docdex.DiscoveredLink, maxPages int, frontier *Frontier, state *crawlState, events docdex.CrawlEventFunc) {
	emit(events, docdex.CrawlEvent{Type: docdex.EventNavigating, URL: link.URL})

	u, err := url.Parse(link.URL)
	if err != nil {
		state.recordError(link.URL, err)
		return
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			return // context canceled
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, link.URL, c.Fetcher.Fetch, delays)
	if err != nil {
		state.recordError(link.URL, err)
		emit(events, docdex.CrawlEvent{Type: docdex.EventError, URL: link.URL, Err: err})
		return
	}

	// Link discovery happens before the maxPages check so the frontier
	// keeps filling even when this page ends up over the cap.
	if c.Links != nil {
		if links, err := c.Links.ExtractLinks(html, link.URL); err == nil {
			for _, discovered := range links {
				frontier.Push(discovered)
			}
		}
	}

	extracted, err := c.Extractor.Extract(html)
	if err != nil {
		state.recordError(link.URL, err)
		emit(events, docdex.CrawlEvent{Type: docdex.EventError, URL: link.URL, Err: err})
		return
	}

	markdown, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		state.recordError(link.URL, err)
		emit(events, docdex.CrawlEvent{Type: docdex.EventError, URL: link.URL, Err: err})
		return
	}
	if strings.TrimSpace(markdown) == "" {
		err := docdex.Errorf(docdex.EINVALID, "extraction produced empty content")
		state.recordError(link.URL, err)
		emit(events, docdex.CrawlEvent{Type: docdex.EventError, URL: link.URL, Err: err})
		return
	}

	page := &docdex.CrawledPage{
		URL:       link.URL,
		Path:      u.Path,
		Title:     extracted.Title,
		Content:   markdown,
		HTML:      html,
		CrawledAt: time.Now().UTC(),
	}

	state.mu.Lock()
	if state.fetched >= maxPages {
		state.mu.Unlock()
		return
	}
	state.fetched++
	state.pages = append(state.pages, page)
	fetched := state.fetched
	state.mu.Unlock()

	emit(events, docdex.CrawlEvent{Type: docdex.EventExtracted, URL: link.URL, Fetched: fetched})
}

// seedFromSitemap pushes sitemap URLs onto the frontier when the site
// publishes one. Sitemap failures are ignored: recursive link discovery
// covers sites without one.
func (c *Crawler) seedFromSitemap(ctx context.Context, seedURL string, frontier *Frontier) {
	if c.Sitemaps == nil {
		return
	}
	urls, err := c.Sitemaps.DiscoverURLs(ctx, seedURL)
	if err != nil {
		return
	}
	for _, u := range urls {
		frontier.Push(docdex.DiscoveredLink{
			URL:      u,
			Priority: docdex.PriorityNavigation,
			Source:   "sitemap",
		})
	}
}

func (s *crawlState) recordError(url string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, docdex.CrawlError{URL: url, Reason: err.Error()})
}

func domainAllowed(host string, allowed []string) bool {
	host = strings.ToLower(host)
	for _, domain := range allowed {
		domain = strings.ToLower(domain)
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func matchesAny(patterns []*docdex.PathPattern, path string) bool {
	for _, p := range patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}

func emit(events docdex.CrawlEventFunc, event docdex.CrawlEvent) {
	if events != nil {
		events(event)
	}
}
