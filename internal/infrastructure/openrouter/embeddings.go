package openrouter

import (
	"context"
	"fmt"
)

// DefaultEmbeddingModel is used when no model is configured
const DefaultEmbeddingModel = "openai/text-embedding-3-small"

// Embedder produces text embeddings through the /embeddings API
type Embedder struct {
	client    *Client
	model     string
	dimension int
}

// NewEmbedder creates an embedder; dimension 0 accepts whatever the model returns
func NewEmbedder(client *Client, model string, dimension int) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{client: client, model: model, dimension: dimension}
}

// Embed returns the embedding vector for text
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp EmbeddingResponse
	if err := e.client.postJSON(ctx, "/embeddings", EmbeddingRequest{Model: e.model, Input: text}, &resp); err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}

	vector, err := embeddingVector(&resp)
	if err != nil {
		return nil, err
	}
	if e.dimension > 0 && len(vector) != e.dimension {
		return nil, fmt.Errorf("unexpected embedding dimension %d, want %d", len(vector), e.dimension)
	}
	return vector, nil
}

// Dimension returns the configured vector size
func (e *Embedder) Dimension() int {
	return e.dimension
}
