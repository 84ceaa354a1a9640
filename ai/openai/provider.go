package openai

import (
	"log/slog"

	"github.com/teambrief/teambrief/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
type Provider struct {
	config     *ai.Config
	embedder   *EmbeddingClient
	summarizer *Summarizer
	logger     *slog.Logger
}

// NewProvider creates a provider with OpenAI-compatible services.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbeddingClient(config)
	if err != nil {
		return nil, err
	}

	summarizer, err := newSummarizer(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		embedder:   embedder,
		summarizer: summarizer,
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// EmbeddingClient returns the embedding service.
func (p *Provider) EmbeddingClient() ai.EmbeddingClient {
	return p.embedder
}

// Summarizer returns the summarization service.
func (p *Provider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
