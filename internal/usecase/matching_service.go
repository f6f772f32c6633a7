package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/anshumaan69/tenderflow/internal/domain"
)

// Matching defaults
const (
	DefaultPartialThreshold = 40.0
	DefaultPerfectThreshold = 100.0
	DefaultTopN             = 3
	DefaultConcurrency      = 4
)

// MatchPolicy holds the classification thresholds.
// score >= Perfect is a match, Partial < score < Perfect is partial, anything else is a mismatch.
// The zero value means the default 40/100 policy; a zero PartialThreshold is honoured
// whenever PerfectThreshold is set.
type MatchPolicy struct {
	PartialThreshold float64
	PerfectThreshold float64
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Policy      MatchPolicy
	TopN        int
	Concurrency int
	Logger      zerolog.Logger
}

// MatchingService ranks catalog products for each requirement and classifies the best one
type MatchingService struct {
	strategy    SimilarityStrategy
	policy      MatchPolicy
	topN        int
	concurrency int
	logger      zerolog.Logger
}

// NewMatchingService creates a new matching service with the given strategy and configuration
func NewMatchingService(strategy SimilarityStrategy, config MatchConfig) *MatchingService {
	policy := config.Policy
	if policy.PerfectThreshold <= 0 {
		policy.PerfectThreshold = DefaultPerfectThreshold
		if policy.PartialThreshold == 0 {
			policy.PartialThreshold = DefaultPartialThreshold
		}
	}
	if policy.PartialThreshold < 0 {
		policy.PartialThreshold = 0
	}

	topN := config.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if strategy == nil {
		strategy = StructuredStrategy{}
	}

	return &MatchingService{
		strategy:    strategy,
		policy:      policy,
		topN:        topN,
		concurrency: concurrency,
		logger:      config.Logger,
	}
}

// StrategyName returns the name of the configured similarity strategy
func (s *MatchingService) StrategyName() string {
	return s.strategy.Name()
}

// Rank scores the requirement against every product and returns the top candidates.
// Ties keep catalog declaration order.
func (s *MatchingService) Rank(
	ctx context.Context,
	req domain.Requirement,
	products []domain.CatalogProduct,
) ([]domain.MatchCandidate, error) {
	candidates := make([]domain.MatchCandidate, 0, len(products))

	for _, product := range products {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		candidates = append(candidates, domain.MatchCandidate{
			Product: product,
			Score:   s.strategy.Score(ctx, req, product),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > s.topN {
		candidates = candidates[:s.topN]
	}
	return candidates, nil
}

// Classify maps the top candidate onto a line item status
func (s *MatchingService) Classify(candidate *domain.MatchCandidate) domain.Status {
	if candidate == nil {
		return domain.StatusMismatch
	}
	switch {
	case candidate.Score >= s.policy.PerfectThreshold:
		return domain.StatusMatch
	case candidate.Score > s.policy.PartialThreshold:
		return domain.StatusPartial
	default:
		return domain.StatusMismatch
	}
}

// MatchRequirement ranks, classifies and prices a single requirement
func (s *MatchingService) MatchRequirement(
	ctx context.Context,
	req domain.Requirement,
	products []domain.CatalogProduct,
) (domain.QuoteLineItem, error) {
	candidates, err := s.Rank(ctx, req, products)
	if err != nil {
		return domain.QuoteLineItem{}, err
	}

	var best *domain.MatchCandidate
	if len(candidates) > 0 {
		best = &candidates[0]
	}
	status := s.Classify(best)

	var item domain.QuoteLineItem
	if status == domain.StatusMismatch {
		lineID := fmt.Sprintf(domain.UnmatchedIDFmt, req.Index+1)
		item = domain.NewLineItem(lineID, req.Name, domain.LineKindProduct, req.Quantity, 0, status)
		item.Notes = domain.MismatchNote
	} else {
		item = domain.NewLineItem(best.Product.ID, req.Name, domain.LineKindProduct, req.Quantity, best.Product.UnitPrice, status)
		item.ProductID = best.Product.ID
		item.MatchedName = best.Product.Name
		item.Notes = explainMatch(req, best.Product, status)
	}

	if best != nil {
		item.Confidence = int(math.Round(best.Score))
	}
	item.RequestedSpecs = req.Specs
	item.Alternatives = toAlternatives(candidates)

	s.logger.Debug().
		Int("requirement_index", req.Index).
		Str("requirement", req.Name).
		Str("status", string(item.Status)).
		Int("confidence", item.Confidence).
		Str("product_id", item.ProductID).
		Msg("requirement matched")

	return item, nil
}

// MatchAll matches requirements concurrently and returns line items in requirement order
func (s *MatchingService) MatchAll(
	ctx context.Context,
	reqs []domain.Requirement,
	products []domain.CatalogProduct,
) ([]domain.QuoteLineItem, error) {
	items := make([]domain.QuoteLineItem, len(reqs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			item, err := s.MatchRequirement(gCtx, req, products)
			if err != nil {
				return &domain.StageError{Stage: domain.StageMatching, RequirementIndex: req.Index, Err: err}
			}
			items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Strategies swallow provider errors, so a cancelled run can still finish scoring
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStageError(domain.StageMatching, err)
	}
	return items, nil
}

// explainMatch lists differing attributes for partial matches
func explainMatch(req domain.Requirement, product domain.CatalogProduct, status domain.Status) string {
	if status != domain.StatusPartial {
		return ""
	}

	matched, compared := StructuredStrategy{}.Compare(req, product)
	if len(compared) == 0 {
		return fmt.Sprintf("Closest catalog item %s selected by similarity. Verify specifications.", product.ID)
	}

	ok := make(map[string]bool, len(matched))
	for _, m := range matched {
		ok[m] = true
	}
	var diffs []string
	for _, attr := range compared {
		if !ok[attr] {
			diffs = append(diffs, fmt.Sprintf("%s requested %s, offered %s",
				attr, specValue(req.Specs, attr), specValue(product.Specs, attr)))
		}
	}
	if len(diffs) == 0 {
		return fmt.Sprintf("Closest catalog item %s selected by similarity. Verify specifications.", product.ID)
	}
	return fmt.Sprintf("Partial match on %d/%d specs: %s.", len(matched), len(compared), strings.Join(diffs, "; "))
}

func toAlternatives(candidates []domain.MatchCandidate) []domain.Alternative {
	if len(candidates) == 0 {
		return nil
	}
	alts := make([]domain.Alternative, len(candidates))
	for i, c := range candidates {
		alts[i] = domain.Alternative{
			ID:    c.Product.ID,
			Name:  c.Product.Name,
			Score: c.Score,
			Specs: c.Product.Specs,
		}
	}
	return alts
}
