package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teambrief/teambrief/ai/mock"
	"github.com/teambrief/teambrief/chunk"
	"github.com/teambrief/teambrief/core"
	"github.com/teambrief/teambrief/embedding"
	"github.com/teambrief/teambrief/pii"
	"github.com/teambrief/teambrief/source"
	"github.com/teambrief/teambrief/storage/badger"
	"github.com/teambrief/teambrief/vecstore"
	vsmock "github.com/teambrief/teambrief/vecstore/mock"
)

type pipelineFixture struct {
	pipeline *Pipeline
	index    *vsmock.MockIndex
	governor *embedding.Governor
}

func newFixture(t *testing.T, opts ...Option) *pipelineFixture {
	t.Helper()

	governor, err := embedding.NewGovernor(mock.NewMockEmbeddingClient())
	require.NoError(t, err)
	return newFixtureWithGovernor(t, governor, opts...)
}

func newFixtureWithGovernor(t *testing.T, governor *embedding.Governor, opts ...Option) *pipelineFixture {
	t.Helper()

	chunker, err := chunk.NewChunker()
	require.NoError(t, err)

	index := vsmock.NewMockIndex()
	store, err := vecstore.NewStore(index, mock.DefaultDimensions)
	require.NoError(t, err)

	p, err := NewPipeline(pii.NewRedactor(), chunker, governor, store, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)

	return &pipelineFixture{pipeline: p, index: index, governor: governor}
}

func testDocument(src core.Source, id, content string) core.Document {
	return core.Document{
		Source:    src,
		SourceID:  id,
		Title:     "Test " + id,
		Author:    "dana",
		Timestamp: time.Now().Add(-time.Hour),
		Content:   content,
	}
}

func TestNewPipeline_Guards(t *testing.T) {
	chunker, err := chunk.NewChunker()
	require.NoError(t, err)
	governor, err := embedding.NewGovernor(mock.NewMockEmbeddingClient())
	require.NoError(t, err)
	store, err := vecstore.NewStore(vsmock.NewMockIndex(), mock.DefaultDimensions)
	require.NoError(t, err)

	_, err = NewPipeline(nil, chunker, governor, store)
	assert.ErrorIs(t, err, ErrRedactorRequired)

	_, err = NewPipeline(pii.NewRedactor(), nil, governor, store)
	assert.ErrorIs(t, err, ErrChunkerRequired)

	_, err = NewPipeline(pii.NewRedactor(), chunker, nil, store)
	assert.ErrorIs(t, err, ErrGovernorRequired)

	_, err = NewPipeline(pii.NewRedactor(), chunker, governor, nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}

func TestIngestDocuments(t *testing.T) {
	f := newFixture(t)

	docs := []core.Document{
		testDocument(core.SourceChat, "msg-1", "The importer shipped, details in the thread."),
		testDocument(core.SourceDocs, "page-1", "Q3 planning notes and the rollout checklist."),
	}

	report, err := f.pipeline.IngestDocuments(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Zero(t, report.Skipped)
	assert.Zero(t, report.Failed)
	assert.Equal(t, 2, report.Chunks)
	assert.Equal(t, 2, report.Vectors)
	assert.Equal(t, 1, f.index.Count("chat/"))
	assert.Equal(t, 1, f.index.Count("docs/"))
}

func TestIngestDocuments_RedactsBeforeStorage(t *testing.T) {
	f := newFixture(t)

	doc := testDocument(core.SourceChat, "msg-9",
		"reach me at alice@example.com about the incident")
	_, err := f.pipeline.IngestDocuments(context.Background(), []core.Document{doc})
	require.NoError(t, err)

	results, err := f.index.Query(context.Background(), "chat/", make([]float32, mock.DefaultDimensions), 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	text := results[0].Metadata["text"].(string)
	assert.NotContains(t, text, "alice@example.com")
	assert.Contains(t, text, "[EMAIL_REDACTED]")
}

func TestIngestDocuments_SkipsInvalid(t *testing.T) {
	f := newFixture(t)

	docs := []core.Document{
		{Source: core.SourceChat, SourceID: "empty", Content: ""},
		{Source: core.Source("wiki"), SourceID: "bad-source", Content: "text"},
		testDocument(core.SourceChat, "ok", "a valid message"),
	}

	report, err := f.pipeline.IngestDocuments(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 2, report.Skipped)
}

func TestIngestDocuments_LedgerSkipsUnchanged(t *testing.T) {
	backend, err := badger.OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	ledger, err := NewLedger(backend)
	require.NoError(t, err)

	f := newFixture(t, WithLedger(ledger))

	docs := []core.Document{
		testDocument(core.SourceChat, "msg-1", "stable content"),
		testDocument(core.SourceDocs, "page-1", "more stable content"),
	}

	first, err := f.pipeline.IngestDocuments(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Processed)

	second, err := f.pipeline.IngestDocuments(context.Background(), docs)
	require.NoError(t, err)
	assert.Zero(t, second.Processed)
	assert.Equal(t, 2, second.Skipped)

	// An edit makes the document new again.
	docs[0].Content = "edited content"
	third, err := f.pipeline.IngestDocuments(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Processed)
	assert.Equal(t, 1, third.Skipped)
}

func TestIngestDocuments_BudgetRefusal(t *testing.T) {
	governor, err := embedding.NewGovernor(
		mock.NewMockEmbeddingClient(),
		embedding.WithMonthlyBudget(1e-9),
	)
	require.NoError(t, err)

	f := newFixtureWithGovernor(t, governor)

	doc := testDocument(core.SourceChat, "msg-1", "content that cannot be afforded")
	report, err := f.pipeline.IngestDocuments(context.Background(), []core.Document{doc})
	require.NoError(t, err)

	assert.Zero(t, report.Processed)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Refused)
	assert.Zero(t, f.index.Count("chat/"))
}

func TestIngestFromConnector(t *testing.T) {
	f := newFixture(t)

	conn := source.NewMockConnector(core.SourceDrive,
		testDocument(core.SourceDrive, "file-1", "design doc for the cache"),
	)

	report, err := f.pipeline.IngestFromConnector(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, f.index.Count("drive/"))
}

func TestIngestFromConnector_FetchFailureDegrades(t *testing.T) {
	f := newFixture(t)

	conn := source.NewMockConnector(core.SourceDrive)
	conn.FetchDocumentsFunc = func(ctx context.Context) ([]core.Document, error) {
		return nil, errors.New("export unavailable")
	}

	report, err := f.pipeline.IngestFromConnector(context.Background(), conn)
	require.NoError(t, err, "a failing fetch is an empty run, not an error")
	assert.Zero(t, report.Processed)
}
