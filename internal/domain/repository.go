package domain

import (
	"context"
	"time"
)

// TextExtractor turns uploaded document bytes into ordered page texts
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) ([]string, error)
}

// RequirementExtractor asks a language model for the raw requirement JSON of a document.
// The returned text is untrusted and must go through the normalizer.
type RequirementExtractor interface {
	ExtractRequirements(ctx context.Context, prompt, documentText string) (string, error)
}

// Embedder defines the interface for text embedding providers
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// EmbeddingCache memoizes embeddings by normalized text
type EmbeddingCache interface {
	Get(ctx context.Context, key string) ([]float32, error)
	Set(ctx context.Context, key string, vector []float32, ttl time.Duration) error
}

// QuoteArchive persists completed quotes
type QuoteArchive interface {
	Save(ctx context.Context, quote *QuoteResult) error
}
