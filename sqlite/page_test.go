package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/hasna/docdex"
	"github.com/hasna/docdex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLibrary(t *testing.T, db *sqlite.DB) string {
	t.Helper()
	lib := testLibrary()
	require.NoError(t, sqlite.NewLibraryService(db).CreateLibrary(context.Background(), lib))
	return lib.ID
}

func testPages() []*docdex.CrawledPage {
	now := time.Now().UTC().Truncate(time.Second)
	return []*docdex.CrawledPage{
		{URL: "https://example.com/docs", Path: "/docs", Title: "Docs", Content: "# Docs", CrawledAt: now},
		{URL: "https://example.com/docs/intro", Path: "/docs/intro", Title: "Intro", Content: "# Intro", CrawledAt: now},
	}
}

func TestPageService_ReplacePages(t *testing.T) {
	t.Parallel()

	t.Run("stores pages for a library", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		libID := setupLibrary(t, db)
		svc := sqlite.NewPageService(db)
		ctx := context.Background()

		require.NoError(t, svc.ReplacePages(ctx, libID, testPages()))

		pages, err := svc.FindPagesByLibrary(ctx, libID)
		require.NoError(t, err)
		require.Len(t, pages, 2)
		assert.Equal(t, "https://example.com/docs", pages[0].URL)
		assert.Equal(t, "Docs", pages[0].Title)
		assert.Equal(t, "# Docs", pages[0].Content)
	})

	t.Run("replaces previous pages entirely", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		libID := setupLibrary(t, db)
		svc := sqlite.NewPageService(db)
		ctx := context.Background()

		require.NoError(t, svc.ReplacePages(ctx, libID, testPages()))
		require.NoError(t, svc.ReplacePages(ctx, libID, []*docdex.CrawledPage{
			{URL: "https://example.com/docs/only", Title: "Only", Content: "x"},
		}))

		pages, err := svc.FindPagesByLibrary(ctx, libID)
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, "https://example.com/docs/only", pages[0].URL)
	})

	t.Run("requires library ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		err := svc.ReplacePages(context.Background(), "", nil)
		require.Error(t, err)
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})
}

func TestPageService_FindPagesByLibrary(t *testing.T) {
	t.Parallel()

	t.Run("returns empty for unknown library", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		pages, err := svc.FindPagesByLibrary(context.Background(), "missing")
		require.NoError(t, err)
		assert.Empty(t, pages)
	})
}

func TestPageService_pages_cascade_on_library_delete(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	libID := setupLibrary(t, db)
	pageSvc := sqlite.NewPageService(db)
	libSvc := sqlite.NewLibraryService(db)
	ctx := context.Background()

	require.NoError(t, pageSvc.ReplacePages(ctx, libID, testPages()))
	require.NoError(t, libSvc.DeleteLibrary(ctx, libID))

	pages, err := pageSvc.FindPagesByLibrary(ctx, libID)
	require.NoError(t, err)
	assert.Empty(t, pages)
}
