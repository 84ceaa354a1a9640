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


package pgvector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvec "github.com/pgvector/pgvector-go"

	"github.com/teambrief/teambrief/core"
	"github.com/teambrief/teambrief/vecstore"
)

// DefaultTable is the table vectors are stored in when none is configured.
const DefaultTable = "teambrief_vectors"

// Index implements vecstore.Index over a pgvector table. Vectors live in
// one table with a namespace column per partition.
type Index struct {
	pool      *pgxpool.Pool
	table     string
	dimension int
	logger    *slog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithTable sets the table name.
func WithTable(table string) Option {
	return func(i *Index) {
		if table != "" {
			i.table = table
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Index) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New connects to Postgres, verifies the connection and ensures the
// vector table exists. The concrete type is returned so callers can Close
// the pool; everything else goes through vecstore.Index.
func New(ctx context.Context, dsn string, dimension int, opts ...Option) (*Index, error) {
	if dimension <= 0 {
		return nil, vecstore.ErrInvalidDimension
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	i := &Index{
		pool:      pool,
		table:     DefaultTable,
		dimension: dimension,
		logger:    slog.Default().With("component", "pgvector_index"),
	}
	for _, opt := range opts {
		opt(i)
	}

	if err := i.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return i, nil
}

func (i *Index) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id        text NOT NULL,
			namespace text NOT NULL,
			embedding vector(%d) NOT NULL,
			metadata  jsonb NOT NULL DEFAULT '{}',
			PRIMARY KEY (id, namespace)
		)`, i.table, i.dimension),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_namespace_idx ON %s (namespace)`, i.table, i.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s
			USING hnsw (embedding vector_cosine_ops)`, i.table, i.table),
	}

	for _, stmt := range statements {
		if _, err := i.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Upsert writes items into a namespace, replacing rows that share an ID.
func (i *Index) Upsert(ctx context.Context, partition string, items []vecstore.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	sql := fmt.Sprintf(`INSERT INTO %s (id, namespace, embedding, metadata)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id, namespace)
		DO UPDATE SET embedding = EXCLUDED.embedding, metadata = EXCLUDED.metadata`, i.table)

	batch := &pgx.Batch{}
	for _, item := range items {
		meta, err := json.Marshal(item.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal metadata for %s: %w", item.ID, err)
		}
		batch.Queue(sql, item.ID, partition, pgvec.NewVector(item.Vector), meta)
	}

	results := i.pool.SendBatch(ctx, batch)
	defer results.Close()

	count := 0
	for range items {
		if _, err := results.Exec(); err != nil {
			return count, fmt.Errorf("upsert into %s: %w", partition, err)
		}
		count++
	}
	return count, nil
}

// Query returns the topK nearest rows in a namespace by cosine similarity.
func (i *Index) Query(ctx context.Context, partition string, vector []float32, topK int, filter map[string]any) ([]core.SearchResult, error) {
	sql := fmt.Sprintf(`SELECT id, metadata, 1 - (embedding <=> $1) AS score
		FROM %s
		WHERE namespace = $2`, i.table)
	args := []any{pgvec.NewVector(vector), partition}

	if len(filter) > 0 {
		filterJSON, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("marshal filter: %w", err)
		}
		sql += ` AND metadata @> $3`
		args = append(args, filterJSON)
	}
	sql += fmt.Sprintf(` ORDER BY embedding <=> $1 LIMIT %d`, topK)

	rows, err := i.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", partition, err)
	}
	defer rows.Close()

	var results []core.SearchResult
	for rows.Next() {
		var (
			result core.SearchResult
			meta   []byte
		)
		if err := rows.Scan(&result.ID, &meta, &result.Score); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal(meta, &result.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata for %s: %w", result.ID, err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// Delete removes rows by ID from a namespace.
func (i *Index) Delete(ctx context.Context, partition string, ids []string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE namespace = $1 AND id = ANY($2)`, i.table)
	if _, err := i.pool.Exec(ctx, sql, partition, ids); err != nil {
		return fmt.Errorf("delete from %s: %w", partition, err)
	}
	return nil
}

// Stats reports row counts for the table and per namespace.
func (i *Index) Stats(ctx context.Context) (*vecstore.IndexStats, error) {
	sql := fmt.Sprintf(`SELECT namespace, count(*) FROM %s GROUP BY namespace`, i.table)

	rows, err := i.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("stats query: %w", err)
	}
	defer rows.Close()

	stats := &vecstore.IndexStats{
		Dimension:  i.dimension,
		Partitions: make(map[string]int),
	}
	for rows.Next() {
		var (
			namespace string
			count     int
		)
		if err := rows.Scan(&namespace, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats.Partitions[namespace] = count
		stats.TotalVectors += count
	}
	return stats, rows.Err()
}

// Close releases the connection pool.
func (i *Index) Close() {
	i.logger.Debug("closing pgvector index")
	i.pool.Close()
}
