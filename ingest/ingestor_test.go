package ingest_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hasna/docdex"
	"github.com/hasna/docdex/chunker"
	"github.com/hasna/docdex/crawl"
	"github.com/hasna/docdex/ingest"
	"github.com/hasna/docdex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crawlerReturning is a stub Crawler yielding a fixed result.
type crawlerReturning struct {
	result *docdex.CrawlResult
	err    error
	opts   crawl.Options
}

func (c *crawlerReturning) Crawl(_ context.Context, _ string, opts crawl.Options) (*docdex.CrawlResult, error) {
	c.opts = opts
	return c.result, c.err
}

// upsertRecorder collects upserted vectors across calls.
type upsertRecorder struct {
	mu      sync.Mutex
	vectors []docdex.VectorData
	indexes []string
	created map[string]int
}

func newUpsertRecorder(existing ...string) *upsertRecorder {
	return &upsertRecorder{indexes: existing, created: map[string]int{}}
}

func (r *upsertRecorder) index() *mock.VectorIndex {
	return &mock.VectorIndex{
		ListIndexesFn: func(ctx context.Context) ([]string, error) {
			return r.indexes, nil
		},
		CreateIndexFn: func(ctx context.Context, name string, dimensions int) error {
			r.created[name] = dimensions
			r.indexes = append(r.indexes, name)
			return nil
		},
		UpsertFn: func(ctx context.Context, indexName string, vectors []docdex.VectorData) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.vectors = append(r.vectors, vectors...)
			return nil
		},
		DeleteIndexFn: func(ctx context.Context, name string) error { return nil },
	}
}

func crawledSite() *docdex.CrawlResult {
	return &docdex.CrawlResult{
		Pages: []*docdex.CrawledPage{
			{
				URL:     "https://example.com/docs/intro",
				Title:   "Intro",
				Content: "# Intro\n\nThis library does things.",
			},
			{
				URL:     "https://example.com/docs/auth",
				Title:   "Auth",
				Content: "# Auth\n\nUse an API key.",
			},
		},
		TotalPages: 2,
	}
}

func memoryLibraries() (*mock.LibraryService, map[string]*docdex.LibraryMetadata) {
	store := map[string]*docdex.LibraryMetadata{}
	svc := &mock.LibraryService{
		FindLibraryByIDFn: func(ctx context.Context, id string) (*docdex.LibraryMetadata, error) {
			if lib, ok := store[id]; ok {
				return lib, nil
			}
			return nil, docdex.Errorf(docdex.ENOTFOUND, "library not found")
		},
		CreateLibraryFn: func(ctx context.Context, lib *docdex.LibraryMetadata) error {
			store[lib.ID] = lib
			return nil
		},
		UpdateLibraryFn: func(ctx context.Context, lib *docdex.LibraryMetadata) error {
			if _, ok := store[lib.ID]; !ok {
				return docdex.Errorf(docdex.ENOTFOUND, "library not found")
			}
			store[lib.ID] = lib
			return nil
		},
		DeleteLibraryFn: func(ctx context.Context, id string) error {
			if _, ok := store[id]; !ok {
				return docdex.Errorf(docdex.ENOTFOUND, "library not found")
			}
			delete(store, id)
			return nil
		},
	}
	return svc, store
}

func newTestIngestor(crawler ingest.Crawler, rec *upsertRecorder) (*ingest.Ingestor, map[string]*docdex.LibraryMetadata) {
	libs, store := memoryLibraries()
	return &ingest.Ingestor{
		Crawler:  crawler,
		Splitter: chunker.New(),
		Embedder: &mock.Embedder{
			EmbedFn: func(ctx context.Context, text string) ([]float32, error) {
				return []float32{0.1, 0.2, 0.3}, nil
			},
		},
		Index:     rec.index(),
		Libraries: libs,
		Pages: &mock.PageService{
			ReplacePagesFn: func(ctx context.Context, libraryID string, pages []*docdex.CrawledPage) error {
				return nil
			},
		},
		BatchDelay: time.Millisecond,
	}, store
}

func TestIngestor_Add_indexes_crawled_site(t *testing.T) {
	t.Parallel()

	rec := newUpsertRecorder()
	ing, store := newTestIngestor(&crawlerReturning{result: crawledSite()}, rec)

	result, err := ing.Add(context.Background(), "https://example.com/docs", ingest.AddOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.PagesCrawled)
	assert.Equal(t, 2, result.ChunksIndexed)
	assert.Zero(t, result.ChunksFailed)

	// Index created with the embedding dimensionality.
	assert.Equal(t, map[string]int{"example-com": 3}, rec.created)
	assert.Len(t, rec.vectors, 2)
	for _, v := range rec.vectors {
		assert.Equal(t, "example-com", v.Metadata.LibraryID)
		assert.NotEmpty(t, v.Metadata.Content)
		assert.NotEmpty(t, v.Metadata.FilePath)
	}

	lib := store["example-com"]
	require.NotNil(t, lib)
	assert.Equal(t, 2, lib.PageCount)
	assert.Equal(t, 2, lib.ChunkCount)
	assert.Equal(t, "example-com", lib.IndexName)
	assert.Len(t, lib.CrawledURLs, 2)
}

func TestIngestor_Add_updates_existing_library(t *testing.T) {
	t.Parallel()

	rec := newUpsertRecorder("example-com")
	ing, store := newTestIngestor(&crawlerReturning{result: crawledSite()}, rec)
	store["example-com"] = &docdex.LibraryMetadata{
		ID: "example-com", Name: "Example Docs", WebsiteURL: "https://example.com/docs",
		IndexName: "example-com", ChunkCount: 1, PageCount: 1,
	}

	result, err := ing.Add(context.Background(), "https://example.com/docs", ingest.AddOptions{})
	require.NoError(t, err)

	// Existing index is reused, display name is kept.
	assert.Empty(t, rec.created)
	assert.Equal(t, "Example Docs", result.Library.Name)
	assert.Equal(t, 2, store["example-com"].PageCount)
}

func TestIngestor_Add_skips_chunks_that_fail_to_embed(t *testing.T) {
	t.Parallel()

	rec := newUpsertRecorder()
	ing, _ := newTestIngestor(&crawlerReturning{result: crawledSite()}, rec)

	calls := 0
	var mu sync.Mutex
	ing.Embedder = &mock.Embedder{
		EmbedFn: func(ctx context.Context, text string) ([]float32, error) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if calls == 1 {
				return nil, docdex.Errorf(docdex.EUNAVAILABLE, "rate limited")
			}
			return []float32{0.1, 0.2}, nil
		},
	}

	result, err := ing.Add(context.Background(), "https://example.com/docs", ingest.AddOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ChunksIndexed)
	assert.Equal(t, 1, result.ChunksFailed)
	assert.Len(t, rec.vectors, 1)
}

func TestIngestor_Add_fails_when_nothing_embeds(t *testing.T) {
	t.Parallel()

	rec := newUpsertRecorder()
	ing, _ := newTestIngestor(&crawlerReturning{result: crawledSite()}, rec)
	ing.Embedder = &mock.Embedder{
		EmbedFn: func(ctx context.Context, text string) ([]float32, error) {
			return nil, docdex.Errorf(docdex.EUNAVAILABLE, "down")
		},
	}

	_, err := ing.Add(context.Background(), "https://example.com/docs", ingest.AddOptions{})
	require.Error(t, err)
	assert.Equal(t, docdex.EUNAVAILABLE, docdex.ErrorCode(err))
}

func TestIngestor_Add_fails_for_empty_crawl(t *testing.T) {
	t.Parallel()

	rec := newUpsertRecorder()
	ing, _ := newTestIngestor(&crawlerReturning{result: &docdex.CrawlResult{}}, rec)

	_, err := ing.Add(context.Background(), "https://example.com/docs", ingest.AddOptions{})
	require.Error(t, err)
	assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
}

func TestIngestor_Add_rejects_invalid_seed_URL(t *testing.T) {
	t.Parallel()

	rec := newUpsertRecorder()
	ing, _ := newTestIngestor(&crawlerReturning{result: crawledSite()}, rec)

	_, err := ing.Add(context.Background(), "not-a-url", ingest.AddOptions{})
	require.Error(t, err)
	assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
}

func TestIngestor_Add_passes_crawl_bounds_through(t *testing.T) {
	t.Parallel()

	crawler := &crawlerReturning{result: crawledSite()}
	rec := newUpsertRecorder()
	ing, _ := newTestIngestor(crawler, rec)

	_, err := ing.Add(context.Background(), "https://example.com/docs", ingest.AddOptions{
		MaxPages:        25,
		AllowedDomains:  []string{"example.com"},
		ExcludePatterns: []string{"**/changelog/**"},
	})
	require.NoError(t, err)

	assert.Equal(t, 25, crawler.opts.MaxPages)
	assert.Equal(t, []string{"example.com"}, crawler.opts.AllowedDomains)
	assert.Equal(t, []string{"**/changelog/**"}, crawler.opts.ExcludePatterns)
}

func TestIngestor_Preview_crawls_without_indexing(t *testing.T) {
	t.Parallel()

	rec := newUpsertRecorder()
	ing, store := newTestIngestor(&crawlerReturning{result: crawledSite()}, rec)

	result, err := ing.Preview(context.Background(), "https://example.com/docs", ingest.AddOptions{MaxPages: 7})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalPages)
	// Nothing is embedded, upserted, or persisted.
	assert.Empty(t, rec.created)
	assert.Empty(t, rec.vectors)
	assert.Empty(t, store)
}

func TestIngestor_Preview_rejects_invalid_seed_URL(t *testing.T) {
	t.Parallel()

	rec := newUpsertRecorder()
	ing, _ := newTestIngestor(&crawlerReturning{result: crawledSite()}, rec)

	_, err := ing.Preview(context.Background(), "not-a-url", ingest.AddOptions{})
	require.Error(t, err)
	assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
}

func TestIngestor_Delete_removes_index_and_metadata(t *testing.T) {
	t.Parallel()

	rec := newUpsertRecorder()
	ing, store := newTestIngestor(&crawlerReturning{result: crawledSite()}, rec)

	_, err := ing.Add(context.Background(), "https://example.com/docs", ingest.AddOptions{})
	require.NoError(t, err)

	deleted := ""
	ing.Index = &mock.VectorIndex{
		DeleteIndexFn: func(ctx context.Context, name string) error {
			deleted = name
			return nil
		},
	}

	require.NoError(t, ing.Delete(context.Background(), "example-com"))
	assert.Equal(t, "example-com", deleted)
	assert.NotContains(t, store, "example-com")
}

func TestIngestor_Delete_returns_ENOTFOUND_for_unknown_library(t *testing.T) {
	t.Parallel()

	rec := newUpsertRecorder()
	ing, _ := newTestIngestor(&crawlerReturning{result: crawledSite()}, rec)

	err := ing.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
}
