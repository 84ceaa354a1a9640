package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig(WithAPIKey("sk-test"))

	assert.Equal(t, DefaultEmbeddingModel, cfg.EmbeddingModel)
	assert.Equal(t, DefaultSummaryModel, cfg.SummaryModel)
	assert.Empty(t, cfg.BaseURL)
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithAPIKey("sk-test"),
		WithBaseURL("http://localhost:11434/v1"),
		WithEmbeddingModel("text-embedding-3-large"),
		WithSummaryModel("gpt-4o"),
	)

	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "http://localhost:11434/v1", cfg.BaseURL)
	assert.Equal(t, "text-embedding-3-large", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o", cfg.SummaryModel)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, NewConfig(WithAPIKey("sk-test")).Validate())
	})

	t.Run("local endpoint needs no key", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://localhost:11434/v1"))
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing key", func(t *testing.T) {
		assert.Error(t, NewConfig().Validate())
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("sk-test"), WithEmbeddingModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing summary model", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("sk-test"), WithSummaryModel(""))
		assert.Error(t, cfg.Validate())
	})
}
