package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hasna/docdex"
)

// Compile-time interface verification.
var _ docdex.PageService = (*PageService)(nil)

// PageService implements docdex.PageService using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

// ReplacePages atomically replaces a library's stored pages with the
// given set. Re-ingestion never leaves stale pages behind.
func (s *PageService) ReplacePages(ctx context.Context, libraryID string, pages []*docdex.CrawledPage) error {
	if libraryID == "" {
		return docdex.Errorf(docdex.EINVALID, "library ID required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE library_id = ?", libraryID); err != nil {
		return err
	}

	for _, page := range pages {
		crawledAt := page.CrawledAt
		if crawledAt.IsZero() {
			crawledAt = time.Now().UTC()
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pages (id, library_id, url, path, title, content, crawled_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), libraryID, page.URL, page.Path, page.Title, page.Content,
			crawledAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindPagesByLibrary retrieves a library's pages ordered by URL.
func (s *PageService) FindPagesByLibrary(ctx context.Context, libraryID string) ([]*docdex.CrawledPage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, path, title, content, crawled_at
		FROM pages
		WHERE library_id = ?
		ORDER BY url ASC
	`, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*docdex.CrawledPage
	for rows.Next() {
		var page docdex.CrawledPage
		var crawledAt string

		if err := rows.Scan(&page.URL, &page.Path, &page.Title, &page.Content, &crawledAt); err != nil {
			return nil, err
		}
		if page.CrawledAt, err = parseRFC3339(crawledAt, "crawled_at"); err != nil {
			return nil, err
		}

		pages = append(pages, &page)
	}

	return pages, rows.Err()
}
