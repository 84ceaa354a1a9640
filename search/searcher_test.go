package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teambrief/teambrief/ai"
	"github.com/teambrief/teambrief/ai/mock"
	"github.com/teambrief/teambrief/cache"
	"github.com/teambrief/teambrief/embedding"
	"github.com/teambrief/teambrief/storage/badger"
	"github.com/teambrief/teambrief/vecstore"
	vsmock "github.com/teambrief/teambrief/vecstore/mock"
)

type searchFixture struct {
	searcher *Searcher
	store    *vecstore.Store
	client   *mock.MockEmbeddingClient
}

func newSearchFixture(t *testing.T, opts ...Option) *searchFixture {
	t.Helper()

	client := mock.NewMockEmbeddingClient()
	governor, err := embedding.NewGovernor(client)
	require.NoError(t, err)

	store, err := vecstore.NewStore(vsmock.NewMockIndex(), mock.DefaultDimensions)
	require.NoError(t, err)

	searcher, err := NewSearcher(governor, store, opts...)
	require.NoError(t, err)

	return &searchFixture{searcher: searcher, store: store, client: client}
}

// seedPassage stores one passage with a shared unit vector so ranking in
// tests is decided by the verbatim boost alone.
func seedPassage(t *testing.T, store *vecstore.Store, id, source, text string) {
	t.Helper()

	vec := make([]float32, mock.DefaultDimensions)
	vec[0] = 1

	_, err := store.Upsert(context.Background(),
		[][]float32{vec},
		[]string{id},
		[]map[string]any{{"text": text, "title": "Title " + id, "url": "https://x/" + id}},
		source)
	require.NoError(t, err)
}

func TestNewSearcher_Guards(t *testing.T) {
	governor, err := embedding.NewGovernor(mock.NewMockEmbeddingClient())
	require.NoError(t, err)
	store, err := vecstore.NewStore(vsmock.NewMockIndex(), mock.DefaultDimensions)
	require.NoError(t, err)

	_, err = NewSearcher(nil, store)
	assert.ErrorIs(t, err, ErrGovernorRequired)

	_, err = NewSearcher(governor, nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}

func TestSearch_EmptyQuery(t *testing.T) {
	f := newSearchFixture(t)

	_, err := f.searcher.Search(context.Background(), "  ", "chat", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearch_SingleSource(t *testing.T) {
	f := newSearchFixture(t)

	seedPassage(t, f.store, "a", "chat", "deploy completed")
	seedPassage(t, f.store, "b", "chat", "unrelated chatter")

	results, err := f.searcher.Search(context.Background(), "status update", "chat", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, result := range results {
		assert.Equal(t, "chat/", result.Partition)
		assert.NotEmpty(t, result.Title)
		assert.NotEmpty(t, result.URL)
	}
}

func TestSearch_VerbatimBoost(t *testing.T) {
	f := newSearchFixture(t)

	seedPassage(t, f.store, "z-hit", "docs", "the rollout checklist is complete")
	seedPassage(t, f.store, "a-miss", "docs", "notes about something else entirely")

	results, err := f.searcher.Search(context.Background(), "rollout checklist", "docs", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "z-hit", results[0].ID,
		"identical base similarity, the verbatim match ranks first")
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_AllPartitions(t *testing.T) {
	f := newSearchFixture(t)

	seedPassage(t, f.store, "c1", "chat", "standup summary")
	seedPassage(t, f.store, "d1", "drive", "design document")

	results, err := f.searcher.Search(context.Background(), "summary", "", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	partitions := map[string]bool{}
	for _, result := range results {
		partitions[result.Partition] = true
	}
	assert.True(t, partitions["chat/"])
	assert.True(t, partitions["drive/"])
}

func TestSearch_MaxHits(t *testing.T) {
	f := newSearchFixture(t)

	for _, id := range []string{"a", "b", "c", "d"} {
		seedPassage(t, f.store, id, "chat", "message "+id)
	}

	results, err := f.searcher.Search(context.Background(), "message", "chat", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_CacheShortCircuits(t *testing.T) {
	backend, err := badger.OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	responseCache, err := cache.New(backend)
	require.NoError(t, err)

	f := newSearchFixture(t, WithCache(responseCache))
	seedPassage(t, f.store, "a", "chat", "release went out")

	first, err := f.searcher.Search(context.Background(), "release", "chat", 5)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	require.Equal(t, 1, f.client.CallCount())

	// Provider goes down; the repeated query is served from cache.
	f.client.CreateEmbeddingsFunc = func(ctx context.Context, model string, texts []string) (*ai.EmbeddingResponse, error) {
		return nil, errors.New("provider unavailable")
	}

	second, err := f.searcher.Search(context.Background(), "release", "chat", 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.client.CallCount(), "cache hits never reach the provider")
}

func TestSearch_BudgetRefusalDegrades(t *testing.T) {
	client := mock.NewMockEmbeddingClient()
	governor, err := embedding.NewGovernor(client, embedding.WithMonthlyBudget(1e-9))
	require.NoError(t, err)

	store, err := vecstore.NewStore(vsmock.NewMockIndex(), mock.DefaultDimensions)
	require.NoError(t, err)

	searcher, err := NewSearcher(governor, store)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "anything", "chat", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestContainsAllQueryWords(t *testing.T) {
	assert.True(t, containsAllQueryWords("The rollout checklist is complete.", "rollout checklist"))
	assert.False(t, containsAllQueryWords("only rollout here", "rollout checklist"))
	assert.False(t, containsAllQueryWords("anything", "the a an"), "stop-word-only queries never boost")
}
