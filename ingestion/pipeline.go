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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/teambrief/teambrief/chunk"
	"github.com/teambrief/teambrief/core"
	"github.com/teambrief/teambrief/embedding"
	"github.com/teambrief/teambrief/pii"
	"github.com/teambrief/teambrief/source"
	"github.com/teambrief/teambrief/vecstore"
)

// Report summarizes one ingestion run.
type Report struct {
	Processed int `json:"processed"` // documents fully upserted
	Skipped   int `json:"skipped"`   // invalid, empty, or unchanged per ledger
	Failed    int `json:"failed"`    // documents whose upsert failed
	Chunks    int `json:"chunks"`    // segments produced
	Refused   int `json:"refused"`   // segments refused by the budget
	Vectors   int `json:"vectors"`   // vectors acknowledged by the store
}

// Pipeline runs documents through redact, chunk, embed and upsert.
type Pipeline struct {
	redactor *pii.Redactor
	chunker  *chunk.Chunker
	governor *embedding.Governor
	store    *vecstore.Store
	ledger   *Ledger
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent document
// processing. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLedger attaches an ingest ledger so unchanged documents are skipped
// on re-runs.
func WithLedger(ledger *Ledger) Option {
	return func(p *Pipeline) error {
		p.ledger = ledger
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	redactor *pii.Redactor,
	chunker *chunk.Chunker,
	governor *embedding.Governor,
	store *vecstore.Store,
	opts ...Option,
) (*Pipeline, error) {
	if redactor == nil {
		return nil, ErrRedactorRequired
	}
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if governor == nil {
		return nil, ErrGovernorRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		redactor: redactor,
		chunker:  chunker,
		governor: governor,
		store:    store,
		pool:     pool,
		logger:   slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// IngestDocuments runs every document through the pipeline concurrently
// and returns an aggregate report. Per-document failures are absorbed into
// the report; the run itself only fails when work cannot be scheduled.
func (p *Pipeline) IngestDocuments(ctx context.Context, docs []core.Document) (*Report, error) {
	report := &Report{}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for i := range docs {
		doc := &docs[i]
		wg.Add(1)

		err := p.pool.Submit(func() {
			defer wg.Done()
			outcome := p.processDocument(ctx, doc)

			mu.Lock()
			report.Processed += outcome.Processed
			report.Skipped += outcome.Skipped
			report.Failed += outcome.Failed
			report.Chunks += outcome.Chunks
			report.Refused += outcome.Refused
			report.Vectors += outcome.Vectors
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return report, fmt.Errorf("submit document %s: %w", doc.SourceID, err)
		}
	}

	wg.Wait()

	p.logger.Info("ingestion run complete",
		"documents", len(docs),
		"processed", report.Processed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"vectors", report.Vectors,
		"refused", report.Refused)
	return report, nil
}

// IngestFromConnector fetches a connector's documents and ingests them.
// A failing fetch degrades to an empty run.
func (p *Pipeline) IngestFromConnector(ctx context.Context, conn source.Connector) (*Report, error) {
	docs, err := conn.FetchDocuments(ctx)
	if err != nil {
		p.logger.Error("fetch failed, nothing to ingest",
			"source", string(conn.Source()), "err", err)
		return &Report{}, nil
	}
	return p.IngestDocuments(ctx, docs)
}

// processDocument runs one document through redact, chunk, embed, upsert.
func (p *Pipeline) processDocument(ctx context.Context, doc *core.Document) Report {
	var outcome Report

	if err := core.ValidateDocument(doc); err != nil {
		p.logger.Warn("skipping invalid document",
			"source_id", doc.SourceID, "err", err)
		outcome.Skipped++
		return outcome
	}

	if p.ledger != nil && p.ledger.Seen(doc) {
		p.logger.Debug("skipping unchanged document", "source_id", doc.SourceID)
		outcome.Skipped++
		return outcome
	}

	redacted := p.redactor.Redact(doc.Content)

	timestamp := ""
	if !doc.Timestamp.IsZero() {
		timestamp = doc.Timestamp.UTC().Format(time.RFC3339)
	}

	segments := p.chunker.ChunkDocument(
		redacted.Text,
		string(doc.Source), doc.SourceID, doc.Author, timestamp, doc.URL,
		doc.Metadata,
	)
	if len(segments) == 0 {
		outcome.Skipped++
		return outcome
	}
	outcome.Chunks = len(segments)

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Content
	}
	vectors := p.governor.EmbedBatch(ctx, texts)

	contentID := doc.ContentID()
	var (
		upsertVectors [][]float32
		ids           []string
		metadata      []map[string]any
	)
	for i, vec := range vectors {
		if vec == nil {
			outcome.Refused++
			continue
		}
		meta := segments[i].Metadata
		if doc.Title != "" {
			meta["title"] = doc.Title
		}
		meta["text"] = segments[i].Content

		upsertVectors = append(upsertVectors, vec)
		ids = append(ids, fmt.Sprintf("%016x-%d", contentID, segments[i].Index))
		metadata = append(metadata, meta)
	}

	if len(upsertVectors) == 0 {
		p.logger.Warn("no segments embedded, document not stored",
			"source_id", doc.SourceID, "refused", outcome.Refused)
		outcome.Skipped++
		return outcome
	}

	count, err := p.store.Upsert(ctx, upsertVectors, ids, metadata, string(doc.Source))
	outcome.Vectors = count
	if err != nil {
		p.logger.Error("upsert failed", "source_id", doc.SourceID, "err", err)
		outcome.Failed++
		return outcome
	}
	outcome.Processed++

	if p.ledger != nil {
		if err := p.ledger.Record(doc, outcome.Chunks, count); err != nil {
			p.logger.Error("ledger record failed",
				"source_id", doc.SourceID, "err", err)
		}
	}
	return outcome
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
