package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ragbot/internal/domain/entity"
	"ragbot/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type chunkRepository struct {
	db *sqlx.DB
}

func NewChunkRepository(db *sqlx.DB) repository.ChunkRepository {
	return &chunkRepository{db: db}
}

func (r *chunkRepository) Create(ctx context.Context, chunk *entity.DocumentChunk) error {
	if chunk.ID == "" {
		chunk.ID = uuid.New().String()
	}
	chunk.CreatedAt = time.Now()

	query := `
		INSERT INTO document_chunks (id, document_id, chunk_index, content, embedding_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		chunk.ID,
		chunk.DocumentID,
		chunk.ChunkIndex,
		chunk.Content,
		chunk.EmbeddingID,
		chunk.CreatedAt,
	)
	return err
}

func (r *chunkRepository) FindByEmbeddingID(ctx context.Context, embeddingID string) (*entity.DocumentChunk, error) {
	var chunk entity.DocumentChunk
	query := `SELECT * FROM document_chunks WHERE embedding_id = $1`
	err := r.db.GetContext(ctx, &chunk, query, embeddingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

func (r *chunkRepository) DeleteByDocumentID(ctx context.Context, documentID string) error {
	query := `DELETE FROM document_chunks WHERE document_id = $1`
	_, err := r.db.ExecContext(ctx, query, documentID)
	return err
}
