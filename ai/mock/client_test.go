package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teambrief/teambrief/ai"
)

func TestCreateEmbeddings_Deterministic(t *testing.T) {
	client := NewMockEmbeddingClient()

	first, err := client.CreateEmbeddings(context.Background(), "m", []string{"hello world"})
	require.NoError(t, err)
	second, err := client.CreateEmbeddings(context.Background(), "m", []string{"hello world"})
	require.NoError(t, err)

	require.Len(t, first.Vectors, 1)
	assert.Len(t, first.Vectors[0], DefaultDimensions)
	assert.Equal(t, first.Vectors, second.Vectors)
	assert.Equal(t, 2, first.TokensUsed, "billed tokens are the word count")
	assert.Equal(t, 2, client.CallCount())
}

func TestCreateEmbeddings_ConcurrentCallers(t *testing.T) {
	client := NewMockEmbeddingClient()

	const callers = 8
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.CreateEmbeddings(context.Background(), "m", []string{"text"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, callers, client.CallCount())
}

func TestMockEmbeddingClient_Reset(t *testing.T) {
	client := NewMockEmbeddingClient()
	client.CreateEmbeddingsFunc = func(ctx context.Context, model string, texts []string) (*ai.EmbeddingResponse, error) {
		return &ai.EmbeddingResponse{}, nil
	}

	_, err := client.CreateEmbeddings(context.Background(), "m", []string{"text"})
	require.NoError(t, err)
	require.Equal(t, 1, client.CallCount())

	client.Reset()
	assert.Equal(t, 0, client.CallCount())
	assert.Nil(t, client.CreateEmbeddingsFunc)
}
