package mock

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/teambrief/teambrief/core"
	"github.com/teambrief/teambrief/vecstore"
)

// MockIndex is a test double for vecstore.Index backed by in-memory maps.
// It allows custom behavior injection via function fields.
type MockIndex struct {
	// UpsertFunc is called by Upsert if set.
	UpsertFunc func(ctx context.Context, partition string, items []vecstore.Item) (int, error)

	// QueryFunc is called by Query if set.
	QueryFunc func(ctx context.Context, partition string, vector []float32, topK int, filter map[string]any) ([]core.SearchResult, error)

	// DeleteFunc is called by Delete if set.
	DeleteFunc func(ctx context.Context, partition string, ids []string) error

	// StatsFunc is called by Stats if set.
	StatsFunc func(ctx context.Context) (*vecstore.IndexStats, error)

	mu         sync.Mutex
	partitions map[string]map[string]vecstore.Item
	dimension  int
	callCount  int
}

// NewMockIndex creates an empty in-memory index.
func NewMockIndex() *MockIndex {
	return &MockIndex{
		partitions: make(map[string]map[string]vecstore.Item),
	}
}

// Upsert stores items, replacing those that share an ID.
func (m *MockIndex) Upsert(ctx context.Context, partition string, items []vecstore.Item) (int, error) {
	m.bump()
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, partition, items)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	part, ok := m.partitions[partition]
	if !ok {
		part = make(map[string]vecstore.Item)
		m.partitions[partition] = part
	}
	for _, item := range items {
		part[item.ID] = item
		m.dimension = len(item.Vector)
	}
	return len(items), nil
}

// Query ranks the partition's items by cosine similarity to vector.
func (m *MockIndex) Query(ctx context.Context, partition string, vector []float32, topK int, filter map[string]any) ([]core.SearchResult, error) {
	m.bump()
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, partition, vector, topK, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var results []core.SearchResult
	for _, item := range m.partitions[partition] {
		if !matchesFilter(item.Metadata, filter) {
			continue
		}
		results = append(results, core.SearchResult{
			ID:       item.ID,
			Score:    cosineSimilarity(vector, item.Vector),
			Metadata: item.Metadata,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].ID < results[j].ID
		}
		return results[i].Score > results[j].Score
	})
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Delete removes items by ID. Unknown IDs are ignored.
func (m *MockIndex) Delete(ctx context.Context, partition string, ids []string) error {
	m.bump()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, partition, ids)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	part := m.partitions[partition]
	for _, id := range ids {
		delete(part, id)
	}
	return nil
}

// Stats reports counts over everything stored.
func (m *MockIndex) Stats(ctx context.Context) (*vecstore.IndexStats, error) {
	m.bump()
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &vecstore.IndexStats{
		Dimension:  m.dimension,
		Partitions: make(map[string]int),
	}
	for name, part := range m.partitions {
		if len(part) == 0 {
			continue
		}
		stats.Partitions[name] = len(part)
		stats.TotalVectors += len(part)
	}
	return stats, nil
}

// CallCount returns the number of index operations performed.
func (m *MockIndex) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Count returns the number of items held in one partition.
func (m *MockIndex) Count(partition string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.partitions[partition])
}

func (m *MockIndex) bump() {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()
}

func matchesFilter(metadata, filter map[string]any) bool {
	for key, want := range filter {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
