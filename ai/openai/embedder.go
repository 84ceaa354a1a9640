package openai

import (
	"context"
	"log/slog"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/teambrief/teambrief/ai"
)

// EmbeddingClient implements ai.EmbeddingClient against the OpenAI
// embeddings endpoint. Token usage comes from the provider's own billing
// figure, not a local estimate.
type EmbeddingClient struct {
	client openaisdk.Client
	logger *slog.Logger
}

// newEmbeddingClient is an internal constructor that returns the concrete
// type. Used by Provider to manage the instance.
func newEmbeddingClient(config *ai.Config) (*EmbeddingClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &EmbeddingClient{
		client: openaisdk.NewClient(opts...),
		logger: slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbeddingClient creates an embedding client using the provided
// configuration.
//
// Returns ai.EmbeddingClient interface to enforce abstraction.
func NewEmbeddingClient(config *ai.Config) (ai.EmbeddingClient, error) {
	return newEmbeddingClient(config)
}

// CreateEmbeddings embeds texts with the given model in a single request.
func (c *EmbeddingClient) CreateEmbeddings(ctx context.Context, model string, texts []string) (*ai.EmbeddingResponse, error) {
	c.logger.Debug("generating embeddings", "model", model, "count", len(texts))

	resp, err := c.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openaisdk.EmbeddingModel(model),
	})
	if err != nil {
		c.logger.Error("embedding request failed", "model", model, "count", len(texts), "err", err)
		return nil, err
	}

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		vec := make([]float32, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}

	return &ai.EmbeddingResponse{
		Vectors:    vectors,
		TokensUsed: int(resp.Usage.TotalTokens),
	}, nil
}
