package docdex

import "context"

// VectorMetadata is a denormalized copy of chunk identity stored
// alongside the vector, so retrieval never needs a second lookup.
type VectorMetadata struct {
	LibraryID  string    `json:"libraryId"`
	Version    string    `json:"version,omitempty"`
	FilePath   string    `json:"filePath"`
	ChunkIndex int       `json:"chunkIndex"`
	Title      string    `json:"title"`
	Type       ChunkType `json:"type"`
	Content    string    `json:"content"`
}

// VectorData is the unit persisted to the external vector index.
// One per chunk; Key is unique within an index.
type VectorData struct {
	Key      string         `json:"key"`
	Data     []float32      `json:"data"`
	Metadata VectorMetadata `json:"metadata"`
}

// SearchResult is a single match returned by a nearest-neighbor query.
// Higher scores are more relevant. Transient, never persisted.
type SearchResult struct {
	Key      string         `json:"key"`
	Score    float64        `json:"score"`
	Metadata VectorMetadata `json:"metadata"`
}

// Embedder turns text into a fixed-length vector via an external
// embedding API. Embeddings are deterministic for identical input text
// and model version; callers must not assume cross-version stability.
//
// Failures are never swallowed: a zero or garbage vector is worse than a
// missing one, so an embedding error must abort indexing of that text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex is a thin client for an external vector index service.
type VectorIndex interface {
	// Upsert stores vectors in the named index. Idempotent by key:
	// re-upserting a key replaces its vector and metadata.
	Upsert(ctx context.Context, indexName string, vectors []VectorData) error

	// Query returns up to topK nearest vectors by similarity, in
	// descending score order. Tie ordering is index-internal and
	// unspecified.
	Query(ctx context.Context, indexName string, vector []float32, topK int) ([]SearchResult, error)

	// ListIndexes returns the names of all indexes.
	ListIndexes(ctx context.Context) ([]string, error)

	// CreateIndex creates a named index for vectors of the given
	// dimension. Creating an existing index is not an error.
	CreateIndex(ctx context.Context, name string, dimensions int) error

	// DeleteIndex removes an index and all its vectors.
	DeleteIndex(ctx context.Context, name string) error
}
