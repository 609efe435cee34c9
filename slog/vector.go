package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/hasna/docdex"
)

// Ensure LoggingVectorIndex implements docdex.VectorIndex.
var _ docdex.VectorIndex = (*LoggingVectorIndex)(nil)

// LoggingVectorIndex wraps a VectorIndex with debug logging.
type LoggingVectorIndex struct {
	next   docdex.VectorIndex
	logger *slog.Logger
}

// NewLoggingVectorIndex creates a new LoggingVectorIndex.
func NewLoggingVectorIndex(next docdex.VectorIndex, logger *slog.Logger) *LoggingVectorIndex {
	return &LoggingVectorIndex{next: next, logger: logger}
}

// Upsert delegates to the wrapped index and logs the operation.
func (v *LoggingVectorIndex) Upsert(ctx context.Context, indexName string, vectors []docdex.VectorData) (err error) {
	defer func(begin time.Time) {
		v.logger.Info("vector upsert",
			"index", indexName,
			"count", len(vectors),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return v.next.Upsert(ctx, indexName, vectors)
}

// Query delegates to the wrapped index and logs the operation.
func (v *LoggingVectorIndex) Query(ctx context.Context, indexName string, vector []float32, topK int) (results []docdex.SearchResult, err error) {
	defer func(begin time.Time) {
		v.logger.Info("vector query",
			"index", indexName,
			"topK", topK,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return v.next.Query(ctx, indexName, vector, topK)
}

// ListIndexes delegates to the wrapped index.
func (v *LoggingVectorIndex) ListIndexes(ctx context.Context) ([]string, error) {
	return v.next.ListIndexes(ctx)
}

// CreateIndex delegates to the wrapped index and logs the operation.
func (v *LoggingVectorIndex) CreateIndex(ctx context.Context, name string, dimensions int) (err error) {
	defer func(begin time.Time) {
		v.logger.Info("vector index create",
			"index", name,
			"dimensions", dimensions,
			"err", err,
		)
	}(time.Now())
	return v.next.CreateIndex(ctx, name, dimensions)
}

// DeleteIndex delegates to the wrapped index and logs the operation.
func (v *LoggingVectorIndex) DeleteIndex(ctx context.Context, name string) (err error) {
	defer func(begin time.Time) {
		v.logger.Info("vector index delete",
			"index", name,
			"err", err,
		)
	}(time.Now())
	return v.next.DeleteIndex(ctx, name)
}
