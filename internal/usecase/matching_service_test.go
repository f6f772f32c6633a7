package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshumaan69/tenderflow/internal/catalog"
	"github.com/anshumaan69/tenderflow/internal/domain"
)

// fixedStrategy scores products from a lookup table
type fixedStrategy map[string]float64

func (f fixedStrategy) Name() string { return "fixed" }

func (f fixedStrategy) Score(_ context.Context, _ domain.Requirement, p domain.CatalogProduct) float64 {
	return f[p.ID]
}

func newTestMatcher(strategy SimilarityStrategy) *MatchingService {
	return NewMatchingService(strategy, MatchConfig{Logger: zerolog.Nop()})
}

func TestNewMatchingService(t *testing.T) {
	t.Run("uses defaults when zero", func(t *testing.T) {
		svc := NewMatchingService(nil, MatchConfig{})
		if svc.policy.PartialThreshold != 40 {
			t.Errorf("PartialThreshold = %v, want 40 (default)", svc.policy.PartialThreshold)
		}
		if svc.policy.PerfectThreshold != 100 {
			t.Errorf("PerfectThreshold = %v, want 100 (default)", svc.policy.PerfectThreshold)
		}
		if svc.topN != 3 {
			t.Errorf("topN = %v, want 3", svc.topN)
		}
		if svc.concurrency != DefaultConcurrency {
			t.Errorf("concurrency = %v, want %v", svc.concurrency, DefaultConcurrency)
		}
		if svc.StrategyName() != StrategyStructured {
			t.Errorf("strategy = %v, want structured", svc.StrategyName())
		}
	})

	t.Run("creates service with provided thresholds", func(t *testing.T) {
		svc := NewMatchingService(StructuredStrategy{}, MatchConfig{
			Policy: MatchPolicy{PartialThreshold: 50, PerfectThreshold: 90},
			TopN:   5,
		})
		if svc.policy.PartialThreshold != 50 || svc.policy.PerfectThreshold != 90 {
			t.Errorf("policy = %+v, want 50/90", svc.policy)
		}
		if svc.topN != 5 {
			t.Errorf("topN = %v, want 5", svc.topN)
		}
	})

	t.Run("clamps negative partial threshold to zero", func(t *testing.T) {
		svc := NewMatchingService(nil, MatchConfig{Policy: MatchPolicy{PartialThreshold: -10}})
		if svc.policy.PartialThreshold != 0 {
			t.Errorf("PartialThreshold = %v, want 0", svc.policy.PartialThreshold)
		}
		if svc.policy.PerfectThreshold != 100 {
			t.Errorf("PerfectThreshold = %v, want 100 (default)", svc.policy.PerfectThreshold)
		}
	})

	t.Run("honours zero partial threshold when perfect is set", func(t *testing.T) {
		svc := NewMatchingService(nil, MatchConfig{Policy: MatchPolicy{PartialThreshold: 0, PerfectThreshold: 100}})
		if svc.policy.PartialThreshold != 0 {
			t.Errorf("PartialThreshold = %v, want 0", svc.policy.PartialThreshold)
		}
		if got := svc.Classify(&domain.MatchCandidate{Score: 20}); got != domain.StatusPartial {
			t.Errorf("Classify(20) = %v, want partial", got)
		}
		if got := svc.Classify(&domain.MatchCandidate{Score: 0}); got != domain.StatusMismatch {
			t.Errorf("Classify(0) = %v, want mismatch", got)
		}
	})
}

func TestClassify(t *testing.T) {
	svc := newTestMatcher(StructuredStrategy{})

	testCases := []struct {
		name      string
		candidate *domain.MatchCandidate
		want      domain.Status
	}{
		{"no candidate", nil, domain.StatusMismatch},
		{"zero", &domain.MatchCandidate{Score: 0}, domain.StatusMismatch},
		{"exactly 40 is mismatch", &domain.MatchCandidate{Score: 40}, domain.StatusMismatch},
		{"just above 40", &domain.MatchCandidate{Score: 40.01}, domain.StatusPartial},
		{"41 is partial", &domain.MatchCandidate{Score: 41}, domain.StatusPartial},
		{"99.9 is partial", &domain.MatchCandidate{Score: 99.9}, domain.StatusPartial},
		{"100 is match", &domain.MatchCandidate{Score: 100}, domain.StatusMatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := svc.Classify(tc.candidate); got != tc.want {
				t.Errorf("Classify() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRank(t *testing.T) {
	ctx := context.Background()
	products := catalog.Default().Products()

	t.Run("sorts descending and keeps top 3", func(t *testing.T) {
		svc := newTestMatcher(fixedStrategy{"CBL-LV-001": 50, "WIR-Hs-002": 90, "ACC-LUG-001": 70, "SWG-ACB-001": 10})

		got, err := svc.Rank(ctx, domain.Requirement{Name: "x"}, products)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "WIR-Hs-002", got[0].Product.ID)
		assert.Equal(t, "ACC-LUG-001", got[1].Product.ID)
		assert.Equal(t, "CBL-LV-001", got[2].Product.ID)
	})

	t.Run("ties keep catalog declaration order", func(t *testing.T) {
		svc := newTestMatcher(StructuredStrategy{})
		req := domain.Requirement{Name: "Copper cable", Specs: map[string]string{"material": "Copper"}}

		first, err := svc.Rank(ctx, req, products)
		require.NoError(t, err)
		ids := []string{first[0].Product.ID, first[1].Product.ID, first[2].Product.ID}
		assert.Equal(t, []string{"CBL-HV-002", "CBL-HV-003", "CBL-LV-002"}, ids)

		for i := 0; i < 10; i++ {
			again, err := svc.Rank(ctx, req, products)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("all zero scores keep declaration order", func(t *testing.T) {
		svc := newTestMatcher(fixedStrategy{})
		got, err := svc.Rank(ctx, domain.Requirement{Name: "x"}, products)
		require.NoError(t, err)
		assert.Equal(t, "CBL-HV-001", got[0].Product.ID)
		assert.Equal(t, "CBL-HV-002", got[1].Product.ID)
	})

	t.Run("empty catalog", func(t *testing.T) {
		svc := newTestMatcher(StructuredStrategy{})
		got, err := svc.Rank(ctx, domain.Requirement{Name: "x"}, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		svc := newTestMatcher(StructuredStrategy{})
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := svc.Rank(cancelled, domain.Requirement{Name: "x"}, products)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestMatchRequirement(t *testing.T) {
	ctx := context.Background()
	products := catalog.Default().Products()
	svc := newTestMatcher(StructuredStrategy{})

	t.Run("identical specs match CBL-HV-001 at catalog price", func(t *testing.T) {
		req := hvCableRequirement()
		item, err := svc.MatchRequirement(ctx, req, products)
		require.NoError(t, err)

		assert.Equal(t, domain.StatusMatch, item.Status)
		assert.Equal(t, "CBL-HV-001", item.ProductID)
		assert.Equal(t, "11kV XLPE 3-Core Aluminum Cable", item.MatchedName)
		assert.Equal(t, "11kV Cable", item.Name)
		assert.Equal(t, int64(1200), item.UnitPrice)
		assert.Equal(t, int64(500*1200), item.Total)
		assert.Equal(t, 100, item.Confidence)
		assert.Equal(t, "CBL-HV-001", item.ID)
		require.Len(t, item.Alternatives, 3)
		assert.Equal(t, 100.0, item.Alternatives[0].Score)
	})

	t.Run("unmatched voltage is a mismatch with zero price", func(t *testing.T) {
		req := domain.Requirement{Index: 3, Name: "LV Cable", Quantity: 20, Specs: map[string]string{"voltage": "400V"}}
		item, err := svc.MatchRequirement(ctx, req, products)
		require.NoError(t, err)

		assert.Equal(t, domain.StatusMismatch, item.Status)
		assert.Equal(t, int64(0), item.UnitPrice)
		assert.Equal(t, int64(0), item.Total)
		assert.Equal(t, 0, item.Confidence)
		assert.Empty(t, item.MatchedName)
		assert.Empty(t, item.ProductID)
		assert.Equal(t, domain.MismatchNote, item.Notes)
		assert.Equal(t, "REQ-4", item.ID)
	})

	t.Run("partial match explains differing specs", func(t *testing.T) {
		req := domain.Requirement{Name: "Cu cable", Quantity: 2, Specs: map[string]string{
			"voltage": "11kV", "material": "Copper", "core": "3-Core", "insulation": "XLPE",
		}}
		item, err := svc.MatchRequirement(ctx, req, products)
		require.NoError(t, err)

		assert.Equal(t, domain.StatusPartial, item.Status)
		assert.Equal(t, "CBL-HV-001", item.ID)
		assert.Equal(t, "CBL-HV-001", item.ProductID)
		assert.Equal(t, 75, item.Confidence)
		assert.Equal(t, int64(2400), item.Total)
		assert.Contains(t, item.Notes, "material requested Copper, offered Aluminum")
	})

	t.Run("score of exactly 40 is a mismatch", func(t *testing.T) {
		svc := newTestMatcher(fixedStrategy{"CBL-HV-001": 40})
		item, err := svc.MatchRequirement(ctx, domain.Requirement{Name: "x", Quantity: 5}, products)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusMismatch, item.Status)
		assert.Equal(t, int64(0), item.Total)
		assert.Equal(t, 40, item.Confidence)
	})

	t.Run("empty catalog is a mismatch", func(t *testing.T) {
		item, err := svc.MatchRequirement(ctx, domain.Requirement{Name: "x", Quantity: 1}, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusMismatch, item.Status)
		assert.Empty(t, item.Alternatives)
	})
}

func TestMatchAll(t *testing.T) {
	ctx := context.Background()
	products := catalog.Default().Products()

	t.Run("preserves requirement order", func(t *testing.T) {
		svc := NewMatchingService(StructuredStrategy{}, MatchConfig{Concurrency: 3, Logger: zerolog.Nop()})

		var reqs []domain.Requirement
		for i := 0; i < 20; i++ {
			req := hvCableRequirement()
			req.Index = i
			req.Quantity = i + 1
			reqs = append(reqs, req)
		}

		items, err := svc.MatchAll(ctx, reqs, products)
		require.NoError(t, err)
		require.Len(t, items, 20)
		for i, item := range items {
			assert.Equal(t, i+1, item.Quantity)
			assert.Equal(t, int64(i+1)*1200, item.Total)
		}
	})

	t.Run("no requirements", func(t *testing.T) {
		svc := newTestMatcher(StructuredStrategy{})
		items, err := svc.MatchAll(ctx, nil, products)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("cancelled context fails with matching stage", func(t *testing.T) {
		svc := newTestMatcher(StructuredStrategy{})
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := svc.MatchAll(cancelled, []domain.Requirement{hvCableRequirement()}, products)
		require.Error(t, err)

		var stageErr *domain.StageError
		require.True(t, errors.As(err, &stageErr))
		assert.Equal(t, domain.StageMatching, stageErr.Stage)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("degraded embeddings do not fail the run", func(t *testing.T) {
		embedder := NewMockEmbedder()
		embedder.Err = errProvider
		vector := NewVectorStrategy(embedder, NewMockEmbeddingCache(), VectorConfig{Logger: zerolog.Nop()})
		svc := newTestMatcher(vector)

		items, err := svc.MatchAll(ctx, []domain.Requirement{hvCableRequirement()}, products)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, domain.StatusMismatch, items[0].Status)
		assert.Equal(t, int64(0), items[0].Total)
	})
}
