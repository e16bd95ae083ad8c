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

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *entity.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.UploadedAt = time.Now()
	doc.UpdatedAt = time.Now()

	query := `
		INSERT INTO documents (id, user_id, filename, file_type, file_size, status, chunk_count, uploaded_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query, doc.ID, doc.UserID, doc.Filename, doc.FileType, doc.FileSize, doc.Status, doc.ChunkCount, doc.UploadedAt, doc.UpdatedAt)
	return err
}

func (r *documentRepository) FindByID(ctx context.Context, id string) (*entity.Document, error) {
	var doc entity.Document
	query := `SELECT * FROM documents WHERE id = $1`
	err := r.db.GetContext(ctx, &doc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindByIDAndUserID(ctx context.Context, id, userID string) (*entity.Document, error) {
	var doc entity.Document
	query := `SELECT * FROM documents WHERE id = $1 AND user_id = $2`
	err := r.db.GetContext(ctx, &doc, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) List(ctx context.Context, userID string) ([]entity.Document, error) {
	var docs []entity.Document
	query := `SELECT * FROM documents WHERE user_id = $1 ORDER BY uploaded_at DESC`
	if err := r.db.SelectContext(ctx, &docs, query, userID); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id string, status entity.DocumentStatus) error {
	query := `UPDATE documents SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

func (r *documentRepository) UpdateChunkCount(ctx context.Context, id string, chunkCount int) error {
	query := `UPDATE documents SET chunk_count = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, chunkCount, id)
	return err
}

// Delete removes the document row; chunk rows cascade at the schema level.
func (r *documentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
