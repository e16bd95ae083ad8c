package repository

import (
	"context"

	"ragbot/internal/domain/entity"
)

type ChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk) error
	FindByEmbeddingID(ctx context.Context, embeddingID string) (*entity.DocumentChunk, error)
	DeleteByDocumentID(ctx context.Context, documentID string) error
}
