package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/anshumaan69/tenderflow/internal/domain"
	"github.com/anshumaan69/tenderflow/internal/observability"
)

// Strategy names accepted by NewSimilarityStrategy
const (
	StrategyStructured = "structured"
	StrategyVector     = "vector"
)

// Defaults for the vector strategy
const (
	DefaultEmbeddingTimeout = 10 * time.Second
	DefaultEmbeddingTTL     = 720 * time.Hour
	DefaultEmbeddingDim     = 1536
)

// structuredAttributes is the fixed checklist compared by the structured strategy
var structuredAttributes = []string{
	domain.SpecVoltage,
	domain.SpecMaterial,
	domain.SpecCore,
	domain.SpecInsulation,
	domain.SpecRating,
}

// SimilarityStrategy scores a requirement against a catalog product on a 0-100 scale
type SimilarityStrategy interface {
	Name() string
	Score(ctx context.Context, req domain.Requirement, product domain.CatalogProduct) float64
}

// StructuredStrategy compares the attribute checklist present on both sides
type StructuredStrategy struct{}

// Name returns the strategy name
func (StructuredStrategy) Name() string { return StrategyStructured }

// Compare returns the attributes that matched and the attributes that were compared
func (StructuredStrategy) Compare(req domain.Requirement, product domain.CatalogProduct) (matched, compared []string) {
	for _, attr := range structuredAttributes {
		want := strings.TrimSpace(specValue(req.Specs, attr))
		have := strings.TrimSpace(specValue(product.Specs, attr))
		if want == "" || have == "" {
			continue
		}
		compared = append(compared, attr)
		if strings.Contains(strings.ToLower(have), strings.ToLower(want)) {
			matched = append(matched, attr)
		}
	}
	return matched, compared
}

// Score returns matched/compared * 100, or 0 when nothing could be compared
func (s StructuredStrategy) Score(_ context.Context, req domain.Requirement, product domain.CatalogProduct) float64 {
	matched, compared := s.Compare(req, product)
	if len(compared) == 0 {
		return 0
	}
	return float64(len(matched)) / float64(len(compared)) * 100
}

// VectorConfig holds configuration for the embedding-based strategy
type VectorConfig struct {
	Timeout  time.Duration // per embedding call
	CacheTTL time.Duration
	Logger   zerolog.Logger
}

// VectorStrategy scores by cosine similarity of text embeddings.
// Embeddings are memoized per normalized text in the owned cache.
type VectorStrategy struct {
	embedder domain.Embedder
	cache    domain.EmbeddingCache
	timeout  time.Duration
	ttl      time.Duration
	logger   zerolog.Logger
	inflight singleflight.Group
}

// NewVectorStrategy creates a vector strategy backed by embedder and cache
func NewVectorStrategy(embedder domain.Embedder, cache domain.EmbeddingCache, config VectorConfig) *VectorStrategy {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultEmbeddingTimeout
	}
	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = DefaultEmbeddingTTL
	}
	return &VectorStrategy{
		embedder: embedder,
		cache:    cache,
		timeout:  timeout,
		ttl:      ttl,
		logger:   config.Logger,
	}
}

// Name returns the strategy name
func (s *VectorStrategy) Name() string { return StrategyVector }

// Score returns the clamped cosine similarity of the two texts times 100
func (s *VectorStrategy) Score(ctx context.Context, req domain.Requirement, product domain.CatalogProduct) float64 {
	a := s.vector(ctx, requirementText(req))
	b := s.vector(ctx, productText(product))

	sim := cosineSimilarity(a, b)
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim * 100
}

// vector returns the embedding for text, or a zero vector when the provider fails
func (s *VectorStrategy) vector(ctx context.Context, text string) []float32 {
	key := normalizeText(text)

	if s.cache != nil {
		if vec, err := s.cache.Get(ctx, key); err == nil {
			observability.EmbeddingCache.WithLabelValues("hit").Inc()
			return vec
		}
	}
	observability.EmbeddingCache.WithLabelValues("miss").Inc()

	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		vec, err := s.embedder.Embed(callCtx, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("%w: empty vector", domain.ErrEmbeddingUnavailable)
		}

		if s.cache != nil {
			if err := s.cache.Set(ctx, key, vec, s.ttl); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache embedding")
			}
		}
		return vec, nil
	})
	if err != nil {
		observability.EmbeddingCache.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Str("text", truncateForLog(key)).Msg("embedding failed, using zero vector")
		return make([]float32, s.dimension())
	}
	return v.([]float32)
}

func (s *VectorStrategy) dimension() int {
	if d := s.embedder.Dimension(); d > 0 {
		return d
	}
	return DefaultEmbeddingDim
}

// NewSimilarityStrategy selects a strategy by name for the deployment
func NewSimilarityStrategy(name string, embedder domain.Embedder, cache domain.EmbeddingCache, config VectorConfig) (SimilarityStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyStructured:
		return StructuredStrategy{}, nil
	case StrategyVector:
		if embedder == nil {
			return nil, fmt.Errorf("%w: vector strategy requires an embedder", domain.ErrInvalidRequest)
		}
		return NewVectorStrategy(embedder, cache, config), nil
	default:
		return nil, fmt.Errorf("%w: unknown matching strategy %q", domain.ErrInvalidRequest, name)
	}
}

// cosineSimilarity returns 0 for zero-magnitude or mismatched vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// requirementText is the embedding input for a requirement: name + serialized specs
func requirementText(req domain.Requirement) string {
	return strings.TrimSpace(req.Name + " " + serializeSpecs(req.Specs))
}

// productText is the embedding input for a product: name + description + serialized specs
func productText(p domain.CatalogProduct) string {
	return strings.TrimSpace(p.Name + " " + p.Description + " " + serializeSpecs(p.Specs))
}

// serializeSpecs renders specs as "key: value" pairs in sorted key order
func serializeSpecs(specs map[string]string) string {
	if len(specs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := strings.TrimSpace(specs[k]); v != "" {
			parts = append(parts, k+": "+v)
		}
	}
	return strings.Join(parts, ", ")
}

func specValue(specs map[string]string, key string) string {
	if v, ok := specs[key]; ok {
		return v
	}
	for k, v := range specs {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func truncateForLog(s string) string {
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
