package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrExtractionFailed is returned when the text collaborator produced no usable text
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrMalformedExtraction is returned when model output cannot be parsed even after brace repair
	ErrMalformedExtraction = errors.New("malformed extraction")

	// ErrEmbeddingUnavailable is returned when the embedding provider fails or times out
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrModelUnavailable is returned when the language model call fails
	ErrModelUnavailable = errors.New("language model unavailable")

	// ErrInvalidRequirement is returned for a single extracted entry that cannot be used
	ErrInvalidRequirement = errors.New("invalid requirement")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited is returned when an upstream provider keeps rejecting calls
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Pipeline stages
const (
	StageIdle             = "idle"
	StageExtracting       = "extracting"
	StageNormalizing      = "normalizing"
	StageMatching         = "matching"
	StageServiceDetecting = "service_detecting"
	StageAssembling       = "assembling"
	StageDone             = "done"
	StageFailed           = "failed"
)

// DocumentLevel marks a StageError not tied to a single requirement
const DocumentLevel = -1

// StageError carries the pipeline stage and requirement that failed
type StageError struct {
	Stage            string
	RequirementIndex int
	Err              error
}

// NewStageError wraps err for a document-level failure in stage
func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, RequirementIndex: DocumentLevel, Err: err}
}

func (e *StageError) Error() string {
	if e.RequirementIndex >= 0 {
		return fmt.Sprintf("%s (requirement %d): %v", e.Stage, e.RequirementIndex, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ErrorKind maps an error onto the taxonomy name reported in QuoteError.Kind
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrExtractionFailed):
		return "ExtractionFailed"
	case errors.Is(err, ErrMalformedExtraction):
		return "MalformedExtraction"
	case errors.Is(err, ErrModelUnavailable):
		return "ModelUnavailable"
	case errors.Is(err, ErrEmbeddingUnavailable):
		return "EmbeddingUnavailable"
	case errors.Is(err, ErrInvalidRequest):
		return "InvalidRequest"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Cancelled"
	default:
		return "Internal"
	}
}
