package digest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teambrief/teambrief/ai/mock"
	"github.com/teambrief/teambrief/embedding"
	"github.com/teambrief/teambrief/vecstore"
	vsmock "github.com/teambrief/teambrief/vecstore/mock"
)

type digestFixture struct {
	builder    *Builder
	store      *vecstore.Store
	summarizer *mock.MockSummarizer
}

func newDigestFixture(t *testing.T, opts ...Option) *digestFixture {
	t.Helper()

	governor, err := embedding.NewGovernor(mock.NewMockEmbeddingClient())
	require.NoError(t, err)

	store, err := vecstore.NewStore(vsmock.NewMockIndex(), mock.DefaultDimensions)
	require.NoError(t, err)

	summarizer := mock.NewMockSummarizer()

	builder, err := NewBuilder(governor, store, summarizer, opts...)
	require.NoError(t, err)

	return &digestFixture{builder: builder, store: store, summarizer: summarizer}
}

func seedPassage(t *testing.T, store *vecstore.Store, id, source, text string) {
	t.Helper()

	vec := make([]float32, mock.DefaultDimensions)
	vec[0] = 1

	_, err := store.Upsert(context.Background(),
		[][]float32{vec},
		[]string{id},
		[]map[string]any{{"text": text, "title": "Title " + id}},
		source)
	require.NoError(t, err)
}

func TestNewBuilder_Guards(t *testing.T) {
	governor, err := embedding.NewGovernor(mock.NewMockEmbeddingClient())
	require.NoError(t, err)
	store, err := vecstore.NewStore(vsmock.NewMockIndex(), mock.DefaultDimensions)
	require.NoError(t, err)
	summarizer := mock.NewMockSummarizer()

	_, err = NewBuilder(nil, store, summarizer)
	assert.ErrorIs(t, err, ErrGovernorRequired)

	_, err = NewBuilder(governor, nil, summarizer)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewBuilder(governor, store, nil)
	assert.ErrorIs(t, err, ErrSummarizerRequired)
}

func TestBuild_NoTopics(t *testing.T) {
	f := newDigestFixture(t)

	_, err := f.builder.Build(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoTopics)
}

func TestBuild_OneSectionPerTopic(t *testing.T) {
	f := newDigestFixture(t)

	seedPassage(t, f.store, "c1", "chat", "the migration finished on friday")
	seedPassage(t, f.store, "d1", "docs", "migration runbook, step by step")

	digest, err := f.builder.Build(context.Background(), []string{"migration", "hiring"})
	require.NoError(t, err)
	require.Len(t, digest.Sections, 2)
	assert.False(t, digest.GeneratedAt.IsZero())

	migration := digest.Sections[0]
	assert.Equal(t, "migration", migration.Topic)
	assert.NotEmpty(t, migration.Summary)
	assert.Contains(t, migration.Sources, "Title c1")
	assert.Contains(t, migration.Sources, "Title d1")

	// Both topics hit the same seeded store, so the difference between
	// sections is the topic label, not the material.
	hiring := digest.Sections[1]
	assert.Equal(t, "hiring", hiring.Topic)
}

func TestBuild_SummaryMaterialIncludesPassages(t *testing.T) {
	f := newDigestFixture(t)

	seedPassage(t, f.store, "c1", "chat", "the deploy pipeline is green again")

	var captured string
	f.summarizer.SummarizeFunc = func(ctx context.Context, instruction, material string) (string, error) {
		captured = material
		return "summary", nil
	}

	_, err := f.builder.Build(context.Background(), []string{"deploy"})
	require.NoError(t, err)

	assert.True(t, strings.Contains(captured, "the deploy pipeline is green again"))
	assert.True(t, strings.HasPrefix(captured, "Topic: deploy"))
}

func TestBuild_EmptyStoreYieldsEmptySection(t *testing.T) {
	f := newDigestFixture(t)

	digest, err := f.builder.Build(context.Background(), []string{"anything"})
	require.NoError(t, err)
	require.Len(t, digest.Sections, 1)

	assert.Empty(t, digest.Sections[0].Summary)
	assert.Empty(t, digest.Sections[0].Sources)
	assert.Equal(t, 0, f.summarizer.CallCount(), "nothing to summarize")
}

func TestBuild_SummarizerFailureDegrades(t *testing.T) {
	f := newDigestFixture(t)
	seedPassage(t, f.store, "c1", "chat", "some material")

	f.summarizer.SummarizeFunc = func(ctx context.Context, instruction, material string) (string, error) {
		return "", errors.New("model overloaded")
	}

	digest, err := f.builder.Build(context.Background(), []string{"status"})
	require.NoError(t, err, "one failing section never fails the digest")
	require.Len(t, digest.Sections, 1)
	assert.Empty(t, digest.Sections[0].Summary)
	assert.Empty(t, digest.Sections[0].Sources)
}

func TestBuild_BudgetRefusalDegrades(t *testing.T) {
	governor, err := embedding.NewGovernor(mock.NewMockEmbeddingClient(),
		embedding.WithMonthlyBudget(1e-9))
	require.NoError(t, err)

	store, err := vecstore.NewStore(vsmock.NewMockIndex(), mock.DefaultDimensions)
	require.NoError(t, err)
	seedPassage(t, store, "c1", "chat", "material")

	summarizer := mock.NewMockSummarizer()
	builder, err := NewBuilder(governor, store, summarizer)
	require.NoError(t, err)

	digest, err := builder.Build(context.Background(), []string{"status"})
	require.NoError(t, err)
	require.Len(t, digest.Sections, 1)
	assert.Empty(t, digest.Sections[0].Summary)
	assert.Equal(t, 0, summarizer.CallCount())
}
