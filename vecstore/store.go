// Copyright 2025 Teambrief Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package vecstore

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/teambrief/teambrief/core"
)

// DefaultPartition receives vectors whose source is not in the routing
// table.
const DefaultPartition = "default"

// defaultUpsertBatch is the number of items written per index call.
const defaultUpsertBatch = 100

// partitionRouting maps logical sources to their partitions. Callers never
// name partitions directly.
var partitionRouting = map[core.Source]string{
	core.SourceChat:  "chat/",
	core.SourceDocs:  "docs/",
	core.SourceDrive: "drive/",
}

// Store routes vectors to source partitions and validates every operation
// before it reaches the backing index. The vector dimension is fixed at
// construction.
type Store struct {
	index     Index
	dimension int
	batchSize int
	logger    *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithUpsertBatchSize sets the number of items written per index call.
func WithUpsertBatchSize(size int) StoreOption {
	return func(s *Store) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// WithStoreLogger sets a custom logger. Default is slog.Default().
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store over the given index with a fixed vector
// dimension.
func NewStore(index Index, dimension int, opts ...StoreOption) (*Store, error) {
	if index == nil {
		return nil, ErrNilIndex
	}
	if dimension <= 0 {
		return nil, ErrInvalidDimension
	}

	s := &Store{
		index:     index,
		dimension: dimension,
		batchSize: defaultUpsertBatch,
		logger:    slog.Default().With("component", "vecstore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dimension returns the vector dimension fixed at construction.
func (s *Store) Dimension() int {
	return s.dimension
}

// PartitionFor resolves a logical source name to its partition. Unknown
// sources land in the default partition.
func (s *Store) PartitionFor(source string) string {
	if partition, ok := partitionRouting[core.Source(source)]; ok {
		return partition
	}
	return DefaultPartition
}

// Partitions returns every partition in the routing table plus the
// default, in stable order.
func (s *Store) Partitions() []string {
	partitions := make([]string, 0, len(partitionRouting)+1)
	for _, src := range core.KnownSources() {
		partitions = append(partitions, partitionRouting[src])
	}
	return append(partitions, DefaultPartition)
}

// Upsert writes vectors with their ids and metadata into the partition for
// source. Cardinality and dimension are validated before any I/O. Each
// item's metadata is stamped with an indexed_at timestamp. Returns the
// total acknowledged count.
func (s *Store) Upsert(ctx context.Context, vectors [][]float32, ids []string, metadata []map[string]any, source string) (int, error) {
	if len(vectors) != len(ids) || len(vectors) != len(metadata) {
		return 0, ErrCardinalityMismatch
	}
	if len(vectors) == 0 {
		return 0, nil
	}
	for _, vec := range vectors {
		if len(vec) != s.dimension {
			return 0, ErrDimensionMismatch
		}
	}

	partition := s.PartitionFor(source)
	indexedAt := time.Now().UTC().Format(time.RFC3339)

	items := make([]Item, len(vectors))
	for i := range vectors {
		meta := make(map[string]any, len(metadata[i])+1)
		maps.Copy(meta, metadata[i])
		meta["indexed_at"] = indexedAt
		items[i] = Item{ID: ids[i], Vector: vectors[i], Metadata: meta}
	}

	total := 0
	for start := 0; start < len(items); start += s.batchSize {
		end := min(start+s.batchSize, len(items))
		count, err := s.index.Upsert(ctx, partition, items[start:end])
		if err != nil {
			s.logger.Error("upsert batch failed",
				"partition", partition, "from", start, "to", end, "err", err)
			return total, err
		}
		total += count
	}

	s.logger.Info("vectors upserted",
		"partition", partition, "count", total)
	return total, nil
}

// Query returns the topK nearest results from the partition for source.
// Transient index failure degrades to an empty result.
func (s *Store) Query(ctx context.Context, vector []float32, source string, topK int, filter map[string]any) ([]core.SearchResult, error) {
	if len(vector) == 0 {
		return nil, ErrEmptyVector
	}
	if len(vector) != s.dimension {
		return nil, ErrDimensionMismatch
	}
	if topK <= 0 {
		return nil, ErrInvalidTopK
	}

	partition := s.PartitionFor(source)
	results, err := s.index.Query(ctx, partition, vector, topK, filter)
	if err != nil {
		s.logger.Error("query failed, returning empty result",
			"partition", partition, "err", err)
		return nil, nil
	}
	return results, nil
}

// QueryAllPartitions fans the query out across every routed partition.
// Partitions with zero results are omitted from the map.
func (s *Store) QueryAllPartitions(ctx context.Context, vector []float32, topK int, filter map[string]any) (map[string][]core.SearchResult, error) {
	if len(vector) == 0 {
		return nil, ErrEmptyVector
	}
	if len(vector) != s.dimension {
		return nil, ErrDimensionMismatch
	}
	if topK <= 0 {
		return nil, ErrInvalidTopK
	}

	all := make(map[string][]core.SearchResult)
	for _, partition := range s.Partitions() {
		results, err := s.index.Query(ctx, partition, vector, topK, filter)
		if err != nil {
			s.logger.Error("partition query failed, skipping",
				"partition", partition, "err", err)
			continue
		}
		if len(results) > 0 {
			all[partition] = results
		}
	}
	return all, nil
}

// DeleteVectors removes vectors by ID from the partition for source.
func (s *Store) DeleteVectors(ctx context.Context, ids []string, source string) error {
	if len(ids) == 0 {
		return nil
	}

	partition := s.PartitionFor(source)
	if err := s.index.Delete(ctx, partition, ids); err != nil {
		s.logger.Error("delete failed", "partition", partition, "err", err)
		return err
	}

	s.logger.Info("vectors deleted", "partition", partition, "count", len(ids))
	return nil
}

// Stats reports index contents.
func (s *Store) Stats(ctx context.Context) (*IndexStats, error) {
	return s.index.Stats(ctx)
}
