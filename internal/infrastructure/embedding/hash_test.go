package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(64)
	ctx := context.Background()

	a, err := e.Embed(ctx, "11kV Copper Cable")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "11kv copper cable")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, cosine(a, b), 1e-6)
}

func TestHashEmbedder_Similarity(t *testing.T) {
	e := NewHashEmbedder(DefaultDimension)
	ctx := context.Background()

	req, _ := e.Embed(ctx, "copper cable 11kv xlpe")
	near, _ := e.Embed(ctx, "11kv copper xlpe cable armoured")
	far, _ := e.Embed(ctx, "acb breaker 1600a")

	assert.Greater(t, cosine(req, near), cosine(req, far))
}

func TestHashEmbedder_EmptyText(t *testing.T) {
	e := NewHashEmbedder(0)
	v, err := e.Embed(context.Background(), "  ")

	require.NoError(t, err)
	assert.Equal(t, DefaultDimension, e.Dimension())
	assert.Len(t, v, DefaultDimension)
	assert.Zero(t, cosine(v, v))
}

func TestHashEmbedder_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHashEmbedder(8).Embed(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
