// Package gemini implements embedding and question answering using
// Google Gemini models.
package gemini

import (
	"context"

	"github.com/hasna/docdex"
	"google.golang.org/genai"
)

const embeddingModel = "gemini-embedding-001"

var _ docdex.Embedder = (*Embedder)(nil)

// Embedder implements docdex.Embedder using the Gemini embedding API.
type Embedder struct {
	client *genai.Client
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client}
}

// Embed returns the embedding vector for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "text required")
	}

	result, err := e.client.Models.EmbedContent(ctx, embeddingModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		nil,
	)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, docdex.Errorf(docdex.EINTERNAL, "gemini returned empty embedding")
	}

	return result.Embeddings[0].Values, nil
}
