// Package ingest orchestrates the documentation ingestion pipeline:
// crawl a site, chunk the markdown, embed the chunks, and persist
// vectors and metadata.
package ingest

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/hasna/docdex"
	"github.com/hasna/docdex/crawl"
	"github.com/hasna/docdex/fs"
	"golang.org/x/sync/errgroup"
)

// Embedding pipeline defaults. Concurrency and the inter-batch pause
// keep embedding API usage under provider rate limits.
const (
	DefaultEmbedConcurrency = 5
	DefaultBatchDelay       = 200 * time.Millisecond
	upsertBatchSize         = 100
)

// Crawler crawls a documentation site starting from a seed URL.
type Crawler interface {
	Crawl(ctx context.Context, seedURL string, opts crawl.Options) (*docdex.CrawlResult, error)
}

// Splitter splits markdown files into chunks.
type Splitter interface {
	Split(files []docdex.DocFile) ([]docdex.Chunk, error)
}

// AddOptions configures one ingestion.
type AddOptions struct {
	// Name is the library display name. Defaults to the library ID.
	Name string

	// MaxPages, AllowedDomains and ExcludePatterns bound the crawl.
	MaxPages        int
	AllowedDomains  []string
	ExcludePatterns []string

	// Events receives crawl progress events. Optional.
	Events docdex.CrawlEventFunc
}

// AddResult summarizes a completed ingestion.
type AddResult struct {
	Library       *docdex.LibraryMetadata
	PagesCrawled  int
	ChunksIndexed int
	ChunksFailed  int
}

// Ingestor runs the ingestion pipeline.
type Ingestor struct {
	Crawler   Crawler
	Splitter  Splitter
	Embedder  docdex.Embedder
	Index     docdex.VectorIndex
	Libraries docdex.LibraryService
	Pages     docdex.PageService

	// EmbedConcurrency is the number of chunks embedded concurrently.
	// Defaults to DefaultEmbedConcurrency.
	EmbedConcurrency int

	// BatchDelay is the pause between embedding batches. Defaults to
	// DefaultBatchDelay.
	BatchDelay time.Duration
}

// Add ingests the documentation site at seedURL: crawl, chunk, embed,
// upsert vectors, and record library metadata. Re-ingesting an existing
// library replaces its pages and updates its metadata in place.
//
// Individual chunk embedding failures skip only that chunk; the count
// of skipped chunks is reported in the result.
func (ing *Ingestor) Add(ctx context.Context, seedURL string, opts AddOptions) (*AddResult, error) {
	libraryID, err := docdex.LibraryIDFromURL(seedURL)
	if err != nil {
		return nil, err
	}

	result, err := ing.Crawler.Crawl(ctx, seedURL, crawl.Options{
		MaxPages:        opts.MaxPages,
		AllowedDomains:  opts.AllowedDomains,
		ExcludePatterns: opts.ExcludePatterns,
		Events:          opts.Events,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Pages) == 0 {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "no pages could be crawled from %s", seedURL)
	}

	files, crawledURLs := pagesToFiles(result.Pages)

	chunks, err := ing.Splitter.Split(files)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, docdex.Errorf(docdex.EINVALID, "crawled pages produced no chunks")
	}

	vectors, failed, err := ing.embedChunks(ctx, libraryID, chunks)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, docdex.Errorf(docdex.EUNAVAILABLE, "all %d chunks failed to embed", len(chunks))
	}

	if err := ing.ensureIndex(ctx, libraryID, len(vectors[0].Data)); err != nil {
		return nil, err
	}

	for start := 0; start < len(vectors); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(vectors))
		if err := ing.Index.Upsert(ctx, libraryID, vectors[start:end]); err != nil {
			return nil, err
		}
	}

	lib, err := ing.saveLibrary(ctx, libraryID, seedURL, opts.Name, len(result.Pages), len(vectors), crawledURLs)
	if err != nil {
		return nil, err
	}

	if err := ing.Pages.ReplacePages(ctx, libraryID, result.Pages); err != nil {
		return nil, err
	}

	return &AddResult{
		Library:       lib,
		PagesCrawled:  len(result.Pages),
		ChunksIndexed: len(vectors),
		ChunksFailed:  failed,
	}, nil
}

// Preview runs only the crawl stage: it reports what a full ingestion
// would fetch without chunking, embedding, or persisting anything.
func (ing *Ingestor) Preview(ctx context.Context, seedURL string, opts AddOptions) (*docdex.CrawlResult, error) {
	if _, err := docdex.LibraryIDFromURL(seedURL); err != nil {
		return nil, err
	}
	return ing.Crawler.Crawl(ctx, seedURL, crawl.Options{
		MaxPages:        opts.MaxPages,
		AllowedDomains:  opts.AllowedDomains,
		ExcludePatterns: opts.ExcludePatterns,
		Events:          opts.Events,
	})
}

// Delete removes a library: its vector index, stored pages, and
// metadata record.
func (ing *Ingestor) Delete(ctx context.Context, libraryID string) error {
	lib, err := ing.Libraries.FindLibraryByID(ctx, libraryID)
	if err != nil {
		return err
	}

	if err := ing.Index.DeleteIndex(ctx, lib.IndexName); err != nil && docdex.ErrorCode(err) != docdex.ENOTFOUND {
		return err
	}

	// Pages cascade with the library row.
	return ing.Libraries.DeleteLibrary(ctx, libraryID)
}

// pagesToFiles converts crawled pages into markdown files keyed by
// their URL-derived paths. Pages with unmappable URLs are dropped.
func pagesToFiles(pages []*docdex.CrawledPage) ([]docdex.DocFile, []string) {
	files := make([]docdex.DocFile, 0, len(pages))
	urls := make([]string, 0, len(pages))
	for _, page := range pages {
		path, err := fs.URLToPath(page.URL)
		if err != nil {
			continue
		}
		files = append(files, docdex.DocFile{Path: path, Content: page.Content})
		urls = append(urls, page.URL)
	}
	return files, urls
}

// embedChunks embeds chunks in bounded concurrent batches, pausing
// between batches. A failed embedding skips that chunk rather than
// aborting the whole ingestion.
func (ing *Ingestor) embedChunks(ctx context.Context, libraryID string, chunks []docdex.Chunk) ([]docdex.VectorData, int, error) {
	concurrency := ing.EmbedConcurrency
	if concurrency <= 0 {
		concurrency = DefaultEmbedConcurrency
	}
	delay := ing.BatchDelay
	if delay <= 0 {
		delay = DefaultBatchDelay
	}

	chunkIndexes := chunkIndexesByFile(chunks)

	var mu sync.Mutex
	var vectors []docdex.VectorData
	failed := 0

	for start := 0; start < len(chunks); start += concurrency {
		if start > 0 {
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(delay):
			}
		}

		end := min(start+concurrency, len(chunks))
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			chunk := chunks[i]
			g.Go(func() error {
				data, err := ing.Embedder.Embed(gctx, chunk.Content)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed++
					return nil
				}
				vectors = append(vectors, docdex.VectorData{
					Key:  chunk.ID,
					Data: data,
					Metadata: docdex.VectorMetadata{
						LibraryID:  libraryID,
						FilePath:   chunk.FilePath,
						ChunkIndex: chunkIndexes[chunk.ID],
						Title:      chunk.Title,
						Type:       chunk.Type,
						Content:    chunk.Content,
					},
				})
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, 0, err
		}
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
	}

	return vectors, failed, nil
}

// chunkIndexesByFile assigns each chunk its ordinal position within its
// source file.
func chunkIndexesByFile(chunks []docdex.Chunk) map[string]int {
	perFile := make(map[string]int)
	indexes := make(map[string]int, len(chunks))
	for _, chunk := range chunks {
		indexes[chunk.ID] = perFile[chunk.FilePath]
		perFile[chunk.FilePath]++
	}
	return indexes
}

// ensureIndex creates the library's vector index if it doesn't exist.
func (ing *Ingestor) ensureIndex(ctx context.Context, indexName string, dimensions int) error {
	names, err := ing.Index.ListIndexes(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == indexName {
			return nil
		}
	}
	return ing.Index.CreateIndex(ctx, indexName, dimensions)
}

// saveLibrary creates or updates the library metadata record.
func (ing *Ingestor) saveLibrary(ctx context.Context, libraryID, seedURL, name string, pageCount, chunkCount int, crawledURLs []string) (*docdex.LibraryMetadata, error) {
	if name == "" {
		name = libraryID
	}

	domain := ""
	if u, err := url.Parse(seedURL); err == nil {
		domain = u.Hostname()
	}

	lib := &docdex.LibraryMetadata{
		ID:          libraryID,
		Name:        name,
		WebsiteURL:  seedURL,
		DocsURL:     seedURL,
		Domain:      domain,
		IndexedAt:   time.Now().UTC(),
		ChunkCount:  chunkCount,
		PageCount:   pageCount,
		IndexName:   libraryID,
		CrawledURLs: crawledURLs,
	}

	existing, err := ing.Libraries.FindLibraryByID(ctx, libraryID)
	switch {
	case err == nil:
		// Re-ingestion keeps the original display name unless the
		// caller supplied a new one.
		if name == libraryID && existing.Name != "" {
			lib.Name = existing.Name
		}
		if err := ing.Libraries.UpdateLibrary(ctx, lib); err != nil {
			return nil, err
		}
	case docdex.ErrorCode(err) == docdex.ENOTFOUND:
		if err := ing.Libraries.CreateLibrary(ctx, lib); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return lib, nil
}
