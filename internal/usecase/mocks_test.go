package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/anshumaan69/tenderflow/internal/domain"
)

// MockEmbedder returns fixed vectors keyed by normalized text
type MockEmbedder struct {
	mu      sync.Mutex
	Vectors map[string][]float32
	Err     error
	Block   bool // wait for context cancellation
	Dim     int
	Calls   map[string]int
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Vectors: make(map[string][]float32),
		Calls:   make(map[string]int),
		Dim:     3,
	}
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.Calls[text]++
	m.mu.Unlock()

	if m.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if v, ok := m.Vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func (m *MockEmbedder) Dimension() int { return m.Dim }

func (m *MockEmbedder) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.Calls {
		total += n
	}
	return total
}

// MockEmbeddingCache is a map-backed EmbeddingCache
type MockEmbeddingCache struct {
	mu   sync.Mutex
	data map[string][]float32
}

func NewMockEmbeddingCache() *MockEmbeddingCache {
	return &MockEmbeddingCache{data: make(map[string][]float32)}
}

func (m *MockEmbeddingCache) Get(ctx context.Context, key string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockEmbeddingCache) Set(ctx context.Context, key string, vector []float32, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = vector
	return nil
}

func (m *MockEmbeddingCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// MockRequirementExtractor returns canned model output
type MockRequirementExtractor struct {
	Response   string
	Err        error
	Block      bool
	LastPrompt string
	LastText   string
}

func (m *MockRequirementExtractor) ExtractRequirements(ctx context.Context, prompt, documentText string) (string, error) {
	m.LastPrompt = prompt
	m.LastText = documentText
	if m.Block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.Response, m.Err
}

// MockTextExtractor returns canned pages
type MockTextExtractor struct {
	Pages []string
	Err   error
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, data []byte) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Pages, nil
}

var errProvider = errors.New("provider exploded")
