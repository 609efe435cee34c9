package mock

import (
	"context"

	"github.com/hasna/docdex"
)

var _ docdex.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a mock implementation of docdex.VectorIndex.
type VectorIndex struct {
	UpsertFn      func(ctx context.Context, indexName string, vectors []docdex.VectorData) error
	QueryFn       func(ctx context.Context, indexName string, vector []float32, topK int) ([]docdex.SearchResult, error)
	ListIndexesFn func(ctx context.Context) ([]string, error)
	CreateIndexFn func(ctx context.Context, name string, dimensions int) error
	DeleteIndexFn func(ctx context.Context, name string) error
}

func (v *VectorIndex) Upsert(ctx context.Context, indexName string, vectors []docdex.VectorData) error {
	return v.UpsertFn(ctx, indexName, vectors)
}

func (v *VectorIndex) Query(ctx context.Context, indexName string, vector []float32, topK int) ([]docdex.SearchResult, error) {
	return v.QueryFn(ctx, indexName, vector, topK)
}

func (v *VectorIndex) ListIndexes(ctx context.Context) ([]string, error) {
	return v.ListIndexesFn(ctx)
}

func (v *VectorIndex) CreateIndex(ctx context.Context, name string, dimensions int) error {
	return v.CreateIndexFn(ctx, name, dimensions)
}

func (v *VectorIndex) DeleteIndex(ctx context.Context, name string) error {
	return v.DeleteIndexFn(ctx, name)
}
