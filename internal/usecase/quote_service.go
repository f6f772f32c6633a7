package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anshumaan69/tenderflow/internal/domain"
	"github.com/anshumaan69/tenderflow/internal/observability"
)

// DefaultModelTimeout bounds a single language model call
const DefaultModelTimeout = 60 * time.Second

// Inventory is the read-only catalog the pipeline quotes against
type Inventory interface {
	Products() []domain.CatalogProduct
	Services() []domain.ServiceDefinition
}

// QuoteServiceConfig holds configuration for the quote pipeline
type QuoteServiceConfig struct {
	ModelTimeout     time.Duration
	MaxDocumentChars int
	Logger           zerolog.Logger
}

// QuoteService runs the extraction-to-quote pipeline for one document at a time.
// It never returns an error: failures come back as a failed QuoteResult.
type QuoteService struct {
	inventory     Inventory
	textExtractor domain.TextExtractor
	reqExtractor  domain.RequirementExtractor
	matcher       *MatchingService
	detector      *ServiceDetector
	normalizer    *Normalizer
	preprocessor  *DocumentPreprocessor
	modelTimeout  time.Duration
	logger        zerolog.Logger
}

// NewQuoteService creates a new quote service with dependencies.
// textExtractor may be nil when only plain text documents are processed.
func NewQuoteService(
	inventory Inventory,
	textExtractor domain.TextExtractor,
	reqExtractor domain.RequirementExtractor,
	matcher *MatchingService,
	detector *ServiceDetector,
	config QuoteServiceConfig,
) *QuoteService {
	modelTimeout := config.ModelTimeout
	if modelTimeout <= 0 {
		modelTimeout = DefaultModelTimeout
	}
	if matcher == nil {
		matcher = NewMatchingService(StructuredStrategy{}, MatchConfig{Logger: config.Logger})
	}
	if detector == nil {
		detector = NewServiceDetector(DetectExtracted)
	}

	return &QuoteService{
		inventory:     inventory,
		textExtractor: textExtractor,
		reqExtractor:  reqExtractor,
		matcher:       matcher,
		detector:      detector,
		normalizer:    NewNormalizer(config.Logger),
		preprocessor:  NewDocumentPreprocessor(config.MaxDocumentChars, config.Logger),
		modelTimeout:  modelTimeout,
		logger:        config.Logger,
	}
}

// textSource yields the document text for the extracting stage
type textSource func(ctx context.Context) (string, error)

// ProcessDocument quotes an already-extracted document text
func (s *QuoteService) ProcessDocument(ctx context.Context, documentText string) *domain.QuoteResult {
	return s.process(ctx, func(context.Context) (string, error) {
		return s.preprocessor.Prepare(documentText), nil
	})
}

// ProcessUpload extracts text from document bytes and quotes it
func (s *QuoteService) ProcessUpload(ctx context.Context, data []byte) *domain.QuoteResult {
	return s.process(ctx, func(ctx context.Context) (string, error) {
		if len(data) == 0 {
			return "", fmt.Errorf("%w: empty upload", domain.ErrExtractionFailed)
		}
		if s.textExtractor == nil {
			return "", fmt.Errorf("%w: no text extractor configured", domain.ErrExtractionFailed)
		}

		pages, err := s.textExtractor.ExtractText(ctx, data)
		if err != nil {
			if errors.Is(err, domain.ErrExtractionFailed) {
				return "", err
			}
			return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
		}
		return s.preprocessor.JoinPages(pages), nil
	})
}

func (s *QuoteService) process(ctx context.Context, source textSource) *domain.QuoteResult {
	start := time.Now()
	quoteID := uuid.NewString()
	logger := s.logger.With().Str("quote_id", quoteID).Logger()

	result, err := s.run(ctx, logger, source)
	if err != nil {
		result = failureResult(err)
		observability.PipelineFailures.WithLabelValues(result.Error.Stage).Inc()
		observability.QuotesProcessed.WithLabelValues("failed").Inc()
		logger.Error().
			Err(err).
			Str("stage", result.Error.Stage).
			Int("requirement_index", result.Error.RequirementIndex).
			Msg("quote pipeline failed")
	} else {
		observability.QuotesProcessed.WithLabelValues("success").Inc()
		logger.Info().
			Int("items", len(result.Items)).
			Int64("grand_total", result.GrandTotal()).
			Dur("duration", time.Since(start)).
			Msg("quote generated")
	}

	for _, item := range result.Items {
		observability.LineItems.WithLabelValues(string(item.Status)).Inc()
	}
	observability.PipelineDuration.Observe(time.Since(start).Seconds())

	result.ID = quoteID
	result.Strategy = s.matcher.StrategyName()
	result.GeneratedAt = time.Now().UTC()
	return result
}

// run walks the stages Extracting -> Normalizing -> Matching -> ServiceDetecting -> Assembling
func (s *QuoteService) run(ctx context.Context, logger zerolog.Logger, source textSource) (*domain.QuoteResult, error) {
	if err := enterStage(ctx, logger, domain.StageExtracting); err != nil {
		return nil, err
	}
	text, err := source(ctx)
	if err != nil {
		return nil, domain.NewStageError(domain.StageExtracting, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewStageError(domain.StageExtracting,
			fmt.Errorf("%w: document contains no usable text", domain.ErrExtractionFailed))
	}

	raw, err := s.extractRequirements(ctx, text)
	if err != nil {
		return nil, domain.NewStageError(domain.StageExtracting, err)
	}

	if err := enterStage(ctx, logger, domain.StageNormalizing); err != nil {
		return nil, err
	}
	extraction, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, domain.NewStageError(domain.StageNormalizing, err)
	}
	logger.Debug().
		Int("requirements", len(extraction.Requirements)).
		Int("dropped", len(extraction.Dropped)).
		Int("testing_requirements", len(extraction.TestingRequirements)).
		Msg("extraction normalized")

	if err := enterStage(ctx, logger, domain.StageMatching); err != nil {
		return nil, err
	}
	products, err := s.matcher.MatchAll(ctx, extraction.Requirements, s.inventory.Products())
	if err != nil {
		return nil, err
	}

	if err := enterStage(ctx, logger, domain.StageServiceDetecting); err != nil {
		return nil, err
	}
	services := s.detector.Detect(extraction.TestingRequirements, text, s.inventory.Services())

	if err := enterStage(ctx, logger, domain.StageAssembling); err != nil {
		return nil, err
	}
	return AssembleQuote(products, services, extraction.Company), nil
}

// extractRequirements calls the language model under the configured timeout
func (s *QuoteService) extractRequirements(ctx context.Context, text string) (string, error) {
	if s.reqExtractor == nil {
		return "", fmt.Errorf("%w: no requirement extractor configured", domain.ErrModelUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()

	raw, err := s.reqExtractor.ExtractRequirements(callCtx, ExtractionPrompt, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	return raw, nil
}

func enterStage(ctx context.Context, logger zerolog.Logger, stage string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStageError(stage, err)
	}
	logger.Debug().Str("stage", stage).Msg("entering stage")
	return nil
}

// failureResult builds the single-line failure payload for err
func failureResult(err error) *domain.QuoteResult {
	stage := domain.StageFailed
	index := domain.DocumentLevel
	message := err.Error()

	var stageErr *domain.StageError
	if errors.As(err, &stageErr) {
		stage = stageErr.Stage
		index = stageErr.RequirementIndex
		message = stageErr.Err.Error()
	}

	item := domain.NewLineItem(domain.ErrorLineItemID, message, domain.LineKindError, 0, 0, domain.StatusFailed)
	item.Notes = "Failed during " + stage

	return &domain.QuoteResult{
		Industry: domain.FailedIndustry,
		Items:    []domain.QuoteLineItem{item},
		Error: &domain.QuoteError{
			Stage:            stage,
			RequirementIndex: index,
			Kind:             domain.ErrorKind(err),
			Message:          message,
		},
	}
}
