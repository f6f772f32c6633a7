package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshumaan69/tenderflow/internal/catalog"
	"github.com/anshumaan69/tenderflow/internal/domain"
)

const sampleExtraction = `"company": "Metro Rail Corp",
  "requirements": [
    {"name": "11kV Cable", "quantity": 500, "specs": {"voltage": "11kV", "material": "Aluminum", "core": "3-Core", "insulation": "XLPE"}},
    {"name": "LV Feeder", "quantity": "20", "specs": {"voltage": "400V"}},
    {"name": "Cable gland", "quantity": "lots"}
  ],
  "testing_requirements": ["High Voltage Test", "Factory acceptance at works"]
}`

func newTestQuoteService(extractor domain.RequirementExtractor, text domain.TextExtractor, config QuoteServiceConfig) *QuoteService {
	config.Logger = zerolog.Nop()
	matcher := newTestMatcher(StructuredStrategy{})
	return NewQuoteService(catalog.Default(), text, extractor, matcher, NewServiceDetector(DetectExtracted), config)
}

func assertFailed(t *testing.T, q *domain.QuoteResult, stage string, target error) {
	t.Helper()
	require.NotNil(t, q)
	assert.Equal(t, domain.FailedIndustry, q.Industry)
	require.Len(t, q.Items, 1)

	item := q.Items[0]
	assert.Equal(t, domain.ErrorLineItemID, item.ID)
	assert.Equal(t, domain.StatusFailed, item.Status)
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, int64(0), item.UnitPrice)
	assert.Equal(t, int64(0), item.Total)
	assert.Equal(t, 0, item.Confidence)
	assert.NotEmpty(t, item.Name)
	assert.Equal(t, int64(0), q.GrandTotal())

	require.NotNil(t, q.Error)
	assert.Equal(t, stage, q.Error.Stage)
	assert.Equal(t, domain.ErrorKind(target), q.Error.Kind)
	assert.Equal(t, item.Name, q.Error.Message)
}

func TestNewQuoteService(t *testing.T) {
	svc := NewQuoteService(catalog.Default(), nil, nil, nil, nil, QuoteServiceConfig{})
	if svc.modelTimeout != DefaultModelTimeout {
		t.Errorf("modelTimeout = %v, want %v", svc.modelTimeout, DefaultModelTimeout)
	}
	if svc.detector.Mode() != DetectExtracted {
		t.Errorf("detector mode = %v, want extracted", svc.detector.Mode())
	}
	if svc.matcher == nil {
		t.Error("expected default matcher")
	}
}

func TestProcessDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("builds a full quote", func(t *testing.T) {
		extractor := &MockRequirementExtractor{Response: sampleExtraction}
		svc := newTestQuoteService(extractor, nil, QuoteServiceConfig{})

		q := svc.ProcessDocument(ctx, "  RFP for Metro Rail\n\n\n\nSupply of 11kV cable  ")

		require.Nil(t, q.Error)
		assert.Equal(t, "Metro Rail Corp", q.Industry)
		assert.Equal(t, StrategyStructured, q.Strategy)
		_, err := uuid.Parse(q.ID)
		assert.NoError(t, err)
		assert.False(t, q.GeneratedAt.IsZero())

		assert.Equal(t, ExtractionPrompt, extractor.LastPrompt)
		assert.Equal(t, "RFP for Metro Rail\n\nSupply of 11kV cable", extractor.LastText)

		require.Len(t, q.Items, 4)
		assert.Equal(t, []string{"CBL-HV-001", "REQ-2", "TEST-HV", "INSP-FACTORY"}, serviceIDs(q.Items))

		cable := q.Items[0]
		assert.Equal(t, domain.StatusMatch, cable.Status)
		assert.Equal(t, "CBL-HV-001", cable.ProductID)
		assert.Equal(t, int64(1200), cable.UnitPrice)
		assert.Equal(t, int64(600000), cable.Total)

		feeder := q.Items[1]
		assert.Equal(t, domain.StatusMismatch, feeder.Status)
		assert.Equal(t, 20, feeder.Quantity)
		assert.Equal(t, int64(0), feeder.Total)

		assert.Equal(t, int64(600000+15000+10000), q.GrandTotal())
	})

	t.Run("malformed extraction yields failed result", func(t *testing.T) {
		extractor := &MockRequirementExtractor{Response: `"requirements": [{"name": "11kV Cable", "quantity": 5`}
		svc := newTestQuoteService(extractor, nil, QuoteServiceConfig{})

		q := svc.ProcessDocument(ctx, "Supply of cable")
		assertFailed(t, q, domain.StageNormalizing, domain.ErrMalformedExtraction)
		assert.Contains(t, q.Items[0].Name, "malformed extraction")
	})

	t.Run("empty document fails extraction", func(t *testing.T) {
		extractor := &MockRequirementExtractor{Response: sampleExtraction}
		svc := newTestQuoteService(extractor, nil, QuoteServiceConfig{})

		q := svc.ProcessDocument(ctx, "   \n\t ")
		assertFailed(t, q, domain.StageExtracting, domain.ErrExtractionFailed)
		assert.Empty(t, extractor.LastText, "model must not be called")
	})

	t.Run("model failure is document level", func(t *testing.T) {
		extractor := &MockRequirementExtractor{Err: errProvider}
		svc := newTestQuoteService(extractor, nil, QuoteServiceConfig{})

		q := svc.ProcessDocument(ctx, "Supply of cable")
		assertFailed(t, q, domain.StageExtracting, domain.ErrModelUnavailable)
		assert.Equal(t, domain.DocumentLevel, q.Error.RequirementIndex)
	})

	t.Run("model timeout", func(t *testing.T) {
		extractor := &MockRequirementExtractor{Block: true}
		svc := newTestQuoteService(extractor, nil, QuoteServiceConfig{ModelTimeout: 20 * time.Millisecond})

		q := svc.ProcessDocument(ctx, "Supply of cable")
		assertFailed(t, q, domain.StageExtracting, domain.ErrModelUnavailable)
	})

	t.Run("missing model", func(t *testing.T) {
		svc := newTestQuoteService(nil, nil, QuoteServiceConfig{})
		q := svc.ProcessDocument(ctx, "Supply of cable")
		assertFailed(t, q, domain.StageExtracting, domain.ErrModelUnavailable)
	})

	t.Run("cancelled caller abandons the run", func(t *testing.T) {
		extractor := &MockRequirementExtractor{Response: sampleExtraction}
		svc := newTestQuoteService(extractor, nil, QuoteServiceConfig{})
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		q := svc.ProcessDocument(cancelled, "Supply of cable")
		assertFailed(t, q, domain.StageExtracting, context.Canceled)
		assert.Equal(t, "Cancelled", q.Error.Kind)
	})

	t.Run("no requirements still produces a quote", func(t *testing.T) {
		extractor := &MockRequirementExtractor{Response: `{"company": "Acme", "testing_requirements": ["type test"]}`}
		svc := newTestQuoteService(extractor, nil, QuoteServiceConfig{})

		q := svc.ProcessDocument(ctx, "Type testing only")
		require.Nil(t, q.Error)
		assert.Equal(t, []string{"TEST-TYPE"}, serviceIDs(q.Items))
	})
}

func TestProcessUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("joins extracted pages", func(t *testing.T) {
		extractor := &MockRequirementExtractor{Response: sampleExtraction}
		text := &MockTextExtractor{Pages: []string{"Page one", "", "Page two"}}
		svc := newTestQuoteService(extractor, text, QuoteServiceConfig{})

		q := svc.ProcessUpload(ctx, []byte("%PDF-1.7"))
		require.Nil(t, q.Error)
		assert.Equal(t, "Page one\n\nPage two", extractor.LastText)
	})

	t.Run("extractor error", func(t *testing.T) {
		text := &MockTextExtractor{Err: errors.New("corrupt file")}
		svc := newTestQuoteService(&MockRequirementExtractor{}, text, QuoteServiceConfig{})

		q := svc.ProcessUpload(ctx, []byte("garbage"))
		assertFailed(t, q, domain.StageExtracting, domain.ErrExtractionFailed)
		assert.Contains(t, q.Error.Message, "corrupt file")
	})

	t.Run("pages without text", func(t *testing.T) {
		text := &MockTextExtractor{Pages: []string{"  ", "\n"}}
		svc := newTestQuoteService(&MockRequirementExtractor{}, text, QuoteServiceConfig{})

		q := svc.ProcessUpload(ctx, []byte("%PDF"))
		assertFailed(t, q, domain.StageExtracting, domain.ErrExtractionFailed)
	})

	t.Run("empty upload", func(t *testing.T) {
		svc := newTestQuoteService(&MockRequirementExtractor{}, &MockTextExtractor{}, QuoteServiceConfig{})
		q := svc.ProcessUpload(ctx, nil)
		assertFailed(t, q, domain.StageExtracting, domain.ErrExtractionFailed)
	})

	t.Run("no text extractor configured", func(t *testing.T) {
		svc := newTestQuoteService(&MockRequirementExtractor{}, nil, QuoteServiceConfig{})
		q := svc.ProcessUpload(ctx, []byte("data"))
		assertFailed(t, q, domain.StageExtracting, domain.ErrExtractionFailed)
	})
}

func TestFailureResult(t *testing.T) {
	err := &domain.StageError{Stage: domain.StageMatching, RequirementIndex: 2, Err: context.DeadlineExceeded}
	q := failureResult(err)

	assert.Equal(t, domain.FailedIndustry, q.Industry)
	assert.Equal(t, domain.StageMatching, q.Error.Stage)
	assert.Equal(t, 2, q.Error.RequirementIndex)
	assert.Equal(t, "Cancelled", q.Error.Kind)
	assert.Equal(t, "Failed during matching", q.Items[0].Notes)

	plain := failureResult(errors.New("boom"))
	assert.Equal(t, domain.StageFailed, plain.Error.Stage)
	assert.Equal(t, "Internal", plain.Error.Kind)
}
