package entity

import "time"

// DocumentChunk is one contiguous slice of a document's extracted text.
// EmbeddingID references the vector point holding this chunk's embedding in
// the owner's collection. Chunks are immutable once created.
type DocumentChunk struct {
	ID          string    `db:"id" json:"id"`
	DocumentID  string    `db:"document_id" json:"documentId"`
	ChunkIndex  int       `db:"chunk_index" json:"chunkIndex"`
	Content     string    `db:"content" json:"content"`
	EmbeddingID string    `db:"embedding_id" json:"embeddingId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
