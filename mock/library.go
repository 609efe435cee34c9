package mock

import (
	"context"

	"github.com/hasna/docdex"
)

var _ docdex.LibraryService = (*LibraryService)(nil)

// LibraryService is a mock implementation of docdex.LibraryService.
type LibraryService struct {
	CreateLibraryFn     func(ctx context.Context, lib *docdex.LibraryMetadata) error
	FindLibraryByIDFn   func(ctx context.Context, id string) (*docdex.LibraryMetadata, error)
	FindLibraryByNameFn func(ctx context.Context, name string) (*docdex.LibraryMetadata, error)
	FindLibrariesFn     func(ctx context.Context) ([]*docdex.LibraryMetadata, error)
	UpdateLibraryFn     func(ctx context.Context, lib *docdex.LibraryMetadata) error
	DeleteLibraryFn     func(ctx context.Context, id string) error
}

func (s *LibraryService) CreateLibrary(ctx context.Context, lib *docdex.LibraryMetadata) error {
	return s.CreateLibraryFn(ctx, lib)
}

func (s *LibraryService) FindLibraryByID(ctx context.Context, id string) (*docdex.LibraryMetadata, error) {
	return s.FindLibraryByIDFn(ctx, id)
}

func (s *LibraryService) FindLibraryByName(ctx context.Context, name string) (*docdex.LibraryMetadata, error) {
	return s.FindLibraryByNameFn(ctx, name)
}

func (s *LibraryService) FindLibraries(ctx context.Context) ([]*docdex.LibraryMetadata, error) {
	return s.FindLibrariesFn(ctx)
}

func (s *LibraryService) UpdateLibrary(ctx context.Context, lib *docdex.LibraryMetadata) error {
	return s.UpdateLibraryFn(ctx, lib)
}

func (s *LibraryService) DeleteLibrary(ctx context.Context, id string) error {
	return s.DeleteLibraryFn(ctx, id)
}
