package mock

import (
	"context"

	"github.com/hasna/docdex"
)

var _ docdex.PageService = (*PageService)(nil)

// PageService is a mock implementation of docdex.PageService.
type PageService struct {
	ReplacePagesFn       func(ctx context.Context, libraryID string, pages []*docdex.CrawledPage) error
	FindPagesByLibraryFn func(ctx context.Context, libraryID string) ([]*docdex.CrawledPage, error)
}

func (s *PageService) ReplacePages(ctx context.Context, libraryID string, pages []*docdex.CrawledPage) error {
	return s.ReplacePagesFn(ctx, libraryID, pages)
}

func (s *PageService) FindPagesByLibrary(ctx context.Context, libraryID string) ([]*docdex.CrawledPage, error) {
	return s.FindPagesByLibraryFn(ctx, libraryID)
}
