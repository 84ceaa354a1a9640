package vecstore

import (
	"context"

	"github.com/teambrief/teambrief/core"
)

// Item is one vector with its identity and metadata, the unit of upsert.
type Item struct {
	ID       string
	Vector   []float32
	Metadata map[string]any
}

// IndexStats describes the contents of a backing index.
type IndexStats struct {
	TotalVectors int            `json:"total_vectors"`
	Dimension    int            `json:"dimension"`
	Partitions   map[string]int `json:"partitions"`
}

// Index is the service boundary to a concrete vector backend. All
// operations address one partition; partition routing is the Store's
// concern. Implementations must be thread-safe for concurrent use.
type Index interface {
	// Upsert writes items into a partition, replacing items that share an
	// ID. Returns the number of items acknowledged.
	Upsert(ctx context.Context, partition string, items []Item) (int, error)

	// Query returns the topK nearest items to vector within a partition,
	// most similar first. A non-nil filter restricts candidates to items
	// whose metadata contains every filter entry.
	Query(ctx context.Context, partition string, vector []float32, topK int, filter map[string]any) ([]core.SearchResult, error)

	// Delete removes items by ID from a partition. Unknown IDs are not an
	// error.
	Delete(ctx context.Context, partition string, ids []string) error

	// Stats reports vector counts for the whole index and per partition.
	Stats(ctx context.Context) (*IndexStats, error)
}
