package docdex

// ChunkType distinguishes prose chunks from standalone code blocks.
type ChunkType string

// Chunk types.
const (
	ChunkTypeText ChunkType = "text"
	ChunkTypeCode ChunkType = "code"
)

// Chunk is the unit of embedding and retrieval: a bounded section of
// extracted documentation with positional and heading metadata.
//
// ID is derived from the chunk's source region, so re-chunking unchanged
// source text reproduces identical IDs. TokenCount is a deterministic
// estimate of the content length (see EstimateTokens), not exact
// tokenizer output, and must be recomputed whenever Content changes.
type Chunk struct {
	ID               string    `json:"id"`
	Content          string    `json:"content"`
	Title            string    `json:"title"`
	Type             ChunkType `json:"type"`
	FilePath         string    `json:"filePath"`
	HeadingHierarchy []string  `json:"headingHierarchy"`
	CodeLanguage     string    `json:"codeLanguage,omitempty"`
	TokenCount       int       `json:"tokenCount"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return Errorf(EINVALID, "chunk ID required")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	if c.FilePath == "" {
		return Errorf(EINVALID, "chunk file path required")
	}
	if c.Type != ChunkTypeText && c.Type != ChunkTypeCode {
		return Errorf(EINVALID, "chunk type must be %q or %q", ChunkTypeText, ChunkTypeCode)
	}
	return nil
}
