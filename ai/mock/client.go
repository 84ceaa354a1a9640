package mock

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/teambrief/teambrief/ai"
)

// DefaultDimensions is the vector width produced by the default mock
// behavior.
const DefaultDimensions = 1536

// MockEmbeddingClient is a test double for ai.EmbeddingClient.
// It allows custom behavior injection via function fields. Safe for
// concurrent use, like the implementations it stands in for.
type MockEmbeddingClient struct {
	// CreateEmbeddingsFunc is called by CreateEmbeddings if set.
	// If nil, uses default deterministic behavior.
	CreateEmbeddingsFunc func(ctx context.Context, model string, texts []string) (*ai.EmbeddingResponse, error)

	mu        sync.Mutex
	callCount int
}

// NewMockEmbeddingClient creates a mock client with default deterministic
// behavior. Returns the concrete type to allow test assertions.
func NewMockEmbeddingClient() *MockEmbeddingClient {
	return &MockEmbeddingClient{}
}

// CreateEmbeddings generates deterministic embeddings from text hashes.
// The default billed token count is a whitespace word count, which keeps
// budget arithmetic in tests easy to predict.
func (m *MockEmbeddingClient) CreateEmbeddings(ctx context.Context, model string, texts []string) (*ai.EmbeddingResponse, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.CreateEmbeddingsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, model, texts)
	}

	vectors := make([][]float32, len(texts))
	tokens := 0
	for i, text := range texts {
		vectors[i] = generateDeterministicVector(text, DefaultDimensions)
		tokens += len(strings.Fields(text))
	}

	return &ai.EmbeddingResponse{Vectors: vectors, TokensUsed: tokens}, nil
}

// CallCount returns the number of times CreateEmbeddings was called.
func (m *MockEmbeddingClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockEmbeddingClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.CreateEmbeddingsFunc = nil
}

// generateDeterministicVector creates a deterministic embedding vector from
// text. It uses FNV hash to ensure the same text always produces the same
// vector.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}

	var sumSquares float32
	for _, v := range vector {
		sumSquares += v * v
	}
	if sumSquares > 0 {
		norm := float32(1.0) / sumSquares
		for i := range vector {
			vector[i] *= norm
		}
	}

	return vector
}
