package openai

import (
	"context"
	"fmt"

	"ragbot/internal/domain/entity"
	"ragbot/internal/domain/repository"

	openai "github.com/sashabaranov/go-openai"
)

type EmbeddingClient struct {
	client *openai.Client
	model  string
}

// NewEmbeddingClient creates a new OpenAI embedding client. The configured
// model must produce vectors of repository.EmbeddingDimension width.
func NewEmbeddingClient(apiKey, model string) *EmbeddingClient {
	return &EmbeddingClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// GenerateBatchEmbeddings embeds all texts in a single API call.
func (c *EmbeddingClient) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: repository.EmbeddingDimension,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrEmbedding, err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", entity.ErrEmbedding, len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		if len(data.Embedding) != repository.EmbeddingDimension {
			return nil, fmt.Errorf("%w: model returned %d-dimension vector, want %d", entity.ErrEmbedding, len(data.Embedding), repository.EmbeddingDimension)
		}
		vectors[i] = data.Embedding
	}
	return vectors, nil
}
