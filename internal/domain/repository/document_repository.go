package repository

import (
	"context"

	"ragbot/internal/domain/entity"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	FindByID(ctx context.Context, id string) (*entity.Document, error)
	FindByIDAndUserID(ctx context.Context, id, userID string) (*entity.Document, error)
	List(ctx context.Context, userID string) ([]entity.Document, error)
	UpdateStatus(ctx context.Context, id string, status entity.DocumentStatus) error
	UpdateChunkCount(ctx context.Context, id string, chunkCount int) error
	Delete(ctx context.Context, id string) error
}
