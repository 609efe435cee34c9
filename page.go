package docdex

import (
	"context"
	"time"
)

// CrawledPage represents a single documentation page produced by a crawl.
// It is immutable after creation and owned by the crawl session that
// produced it.
type CrawledPage struct {
	URL       string    `json:"url"`
	Path      string    `json:"path"` // URL path component
	Title     string    `json:"title"`
	Content   string    `json:"content"` // Markdown
	HTML      string    `json:"-"`       // raw fetched HTML, not persisted
	CrawledAt time.Time `json:"crawledAt"`
}

// CrawlError records a single per-page failure during a crawl.
// Per-page failures never abort the crawl.
type CrawlError struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// CrawlResult holds the outcome of a crawl session. Partial progress is
// always returned: pages fetched before a failure are never discarded.
type CrawlResult struct {
	Pages      []*CrawledPage `json:"pages"`
	TotalPages int            `json:"totalPages"`
	Duration   time.Duration  `json:"duration"`
	Errors     []CrawlError   `json:"errors"`
}

// CrawlEventType identifies a crawl progress event.
type CrawlEventType string

// Crawl event types, emitted in roughly this order per page.
const (
	EventNavigating CrawlEventType = "navigating"
	EventExtracted  CrawlEventType = "extracted"
	EventSkipped    CrawlEventType = "skipped"
	EventError      CrawlEventType = "error"
	EventComplete   CrawlEventType = "complete"
)

// CrawlEvent reports crawl progress. Events are an observability hook,
// not part of the correctness contract.
type CrawlEvent struct {
	Type    CrawlEventType
	URL     string
	Fetched int // pages successfully fetched so far
	Err     error
}

// CrawlEventFunc is called as the crawler makes progress.
type CrawlEventFunc func(CrawlEvent)

// DocFile is a markdown document handed to the chunker, addressed by a
// repository-style file path derived from the page URL.
type DocFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Fetcher retrieves HTML from URLs. Implementations may use plain HTTP
// or browser automation for JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the HTML for the URL. The context controls
	// timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// PageService persists crawled pages per library. Pages are replaced
// wholesale on re-ingestion because chunk boundaries may shift between
// crawls.
type PageService interface {
	// ReplacePages deletes all pages for the library and stores the
	// given set in a single transaction.
	ReplacePages(ctx context.Context, libraryID string, pages []*CrawledPage) error

	// FindPagesByLibrary returns all pages for a library ordered by URL.
	FindPagesByLibrary(ctx context.Context, libraryID string) ([]*CrawledPage, error)
}
