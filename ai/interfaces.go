package ai

import "context"

// EmbeddingClient generates vector embeddings for batches of text.
// Implementations must be thread-safe for concurrent use.
type EmbeddingClient interface {
	// CreateEmbeddings embeds texts with the given model and reports the
	// token count the provider actually billed for the call. The returned
	// vectors are in input order.
	CreateEmbeddings(ctx context.Context, model string, texts []string) (*EmbeddingResponse, error)
}

// Summarizer condenses source passages into short prose.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize produces a summary for the given instruction and material.
	Summarize(ctx context.Context, instruction, material string) (string, error)
}

// Provider aggregates the model services behind one lifecycle.
type Provider interface {
	// EmbeddingClient returns the embedding service.
	EmbeddingClient() EmbeddingClient

	// Summarizer returns the summarization service.
	Summarizer() Summarizer

	// Close releases resources held by the provider and its services.
	Close() error
}
