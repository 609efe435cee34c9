package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/hasna/docdex"
)

// Compile-time interface verification.
var _ docdex.LibraryService = (*LibraryService)(nil)

// LibraryService implements docdex.LibraryService using SQLite.
type LibraryService struct {
	db *DB
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(db *DB) *LibraryService {
	return &LibraryService{db: db}
}

// CreateLibrary creates a new library record.
func (s *LibraryService) CreateLibrary(ctx context.Context, lib *docdex.LibraryMetadata) error {
	if err := lib.Validate(); err != nil {
		return err
	}

	if lib.IndexedAt.IsZero() {
		lib.IndexedAt = time.Now().UTC()
	}

	crawledURLs, err := marshalStringList(lib.CrawledURLs)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO libraries (id, name, website_url, docs_url, domain, index_name, indexed_at, chunk_count, page_count, crawled_urls)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lib.ID, lib.Name, lib.WebsiteURL, lib.DocsURL, lib.Domain, lib.IndexName,
		lib.IndexedAt.Format(time.RFC3339), lib.ChunkCount, lib.PageCount, crawledURLs)

	return err
}

// FindLibraryByID retrieves a library by its sanitized ID.
func (s *LibraryService) FindLibraryByID(ctx context.Context, id string) (*docdex.LibraryMetadata, error) {
	return s.findLibrary(ctx, "id = ?", id)
}

// FindLibraryByName retrieves a library by its display name.
func (s *LibraryService) FindLibraryByName(ctx context.Context, name string) (*docdex.LibraryMetadata, error) {
	return s.findLibrary(ctx, "name = ?", name)
}

func (s *LibraryService) findLibrary(ctx context.Context, where string, arg any) (*docdex.LibraryMetadata, error) {
	var lib docdex.LibraryMetadata
	var indexedAt, crawledURLs string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, website_url, docs_url, domain, index_name, indexed_at, chunk_count, page_count, crawled_urls
		FROM libraries
		WHERE `+where,
		arg,
	).Scan(&lib.ID, &lib.Name, &lib.WebsiteURL, &lib.DocsURL, &lib.Domain, &lib.IndexName,
		&indexedAt, &lib.ChunkCount, &lib.PageCount, &crawledURLs)

	if err == sql.ErrNoRows {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "library not found")
	}
	if err != nil {
		return nil, err
	}

	if lib.IndexedAt, err = parseRFC3339(indexedAt, "indexed_at"); err != nil {
		return nil, err
	}
	if lib.CrawledURLs, err = unmarshalStringList(crawledURLs, "crawled_urls"); err != nil {
		return nil, err
	}

	return &lib, nil
}

// FindLibraries retrieves all libraries ordered by name.
func (s *LibraryService) FindLibraries(ctx context.Context) ([]*docdex.LibraryMetadata, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, website_url, docs_url, domain, index_name, indexed_at, chunk_count, page_count, crawled_urls
		FROM libraries
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var libs []*docdex.LibraryMetadata
	for rows.Next() {
		var lib docdex.LibraryMetadata
		var indexedAt, crawledURLs string

		if err := rows.Scan(&lib.ID, &lib.Name, &lib.WebsiteURL, &lib.DocsURL, &lib.Domain, &lib.IndexName,
			&indexedAt, &lib.ChunkCount, &lib.PageCount, &crawledURLs); err != nil {
			return nil, err
		}

		if lib.IndexedAt, err = parseRFC3339(indexedAt, "indexed_at"); err != nil {
			return nil, err
		}
		if lib.CrawledURLs, err = unmarshalStringList(crawledURLs, "crawled_urls"); err != nil {
			return nil, err
		}

		libs = append(libs, &lib)
	}

	return libs, rows.Err()
}

// UpdateLibrary replaces the mutable fields of an existing library.
func (s *LibraryService) UpdateLibrary(ctx context.Context, lib *docdex.LibraryMetadata) error {
	if err := lib.Validate(); err != nil {
		return err
	}

	crawledURLs, err := marshalStringList(lib.CrawledURLs)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE libraries
		SET name = ?, website_url = ?, docs_url = ?, domain = ?, index_name = ?,
			indexed_at = ?, chunk_count = ?, page_count = ?, crawled_urls = ?
		WHERE id = ?
	`, lib.Name, lib.WebsiteURL, lib.DocsURL, lib.Domain, lib.IndexName,
		lib.IndexedAt.Format(time.RFC3339), lib.ChunkCount, lib.PageCount, crawledURLs, lib.ID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return docdex.Errorf(docdex.ENOTFOUND, "library not found")
	}

	return nil
}

// DeleteLibrary permanently removes a library record. Pages cascade.
func (s *LibraryService) DeleteLibrary(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM libraries WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return docdex.Errorf(docdex.ENOTFOUND, "library not found")
	}

	return nil
}
