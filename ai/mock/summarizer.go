package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockSummarizer is a test double for ai.Summarizer. Safe for concurrent
// use.
type MockSummarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, uses default deterministic behavior.
	SummarizeFunc func(ctx context.Context, instruction, material string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockSummarizer creates a mock summarizer with default deterministic
// behavior.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// Summarize returns a short deterministic digest of the material.
func (m *MockSummarizer) Summarize(ctx context.Context, instruction, material string) (string, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.SummarizeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, instruction, material)
	}

	words := strings.Fields(material)
	if len(words) > 12 {
		words = words[:12]
	}
	return fmt.Sprintf("summary: %s", strings.Join(words, " ")), nil
}

// CallCount returns the number of times Summarize was called.
func (m *MockSummarizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockSummarizer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.SummarizeFunc = nil
}
