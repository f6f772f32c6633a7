package bedrock

import (
	"context"
	"fmt"
)

type titanRequest struct {
	InputText string `json:"inputText"`
}

type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// Embedder calls a Titan text embedding model
type Embedder struct {
	api     InvokeModelAPI
	modelID string
}

// NewEmbedder creates a Titan embedder
func NewEmbedder(api InvokeModelAPI, modelID string) *Embedder {
	if modelID == "" {
		modelID = DefaultEmbeddingModel
	}
	return &Embedder{api: api, modelID: modelID}
}

// Embed returns the embedding of text
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp titanResponse
	if err := invoke(ctx, e.api, e.modelID, titanRequest{InputText: text}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("%s returned an empty embedding", e.modelID)
	}
	return resp.Embedding, nil
}

// Dimension returns the Titan vector size
func (e *Embedder) Dimension() int {
	return titanDimension
}
