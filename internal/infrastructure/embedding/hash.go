// Package embedding holds embedders that need no remote provider.
package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDimension matches the size of the hosted embedding models
const DefaultDimension = 1536

// HashEmbedder builds deterministic bag-of-words vectors by feature hashing.
// Texts sharing tokens get a positive cosine, identical texts get 1.
type HashEmbedder struct {
	dimension int
}

// NewHashEmbedder creates a hashing embedder of the given size
func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &HashEmbedder{dimension: dimension}
}

// Embed returns the L2-normalized token hash vector of text
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vector := make([]float32, e.dimension)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		sum := h.Sum32()

		idx := int(sum % uint32(e.dimension))
		if sum&(1<<31) != 0 {
			vector[idx]--
		} else {
			vector[idx]++
		}
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vector, nil
	}
	norm = math.Sqrt(norm)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
	return vector, nil
}

// Dimension returns the vector size
func (e *HashEmbedder) Dimension() int {
	return e.dimension
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
