package repository

import "context"

// EmbeddingDimension is the fixed width of every stored vector. Changing it
// requires recreating every collection in the vector store.
const EmbeddingDimension = 384

// PointPayload is the metadata stored alongside every vector point.
// ContentPreview is capped at 200 characters; the full chunk text lives in
// the relational store, keyed by the point id.
type PointPayload struct {
	DocumentID     string `json:"document_id"`
	ChunkIndex     int    `json:"chunk_index"`
	ContentPreview string `json:"content_preview"`
}

// VectorPoint is one (id, vector, payload) triple in a collection.
type VectorPoint struct {
	ID      string
	Vector  []float32
	Payload PointPayload
}

// ScoredPoint is a query hit ordered by descending cosine similarity.
type ScoredPoint struct {
	ID      string
	Score   float64
	Payload PointPayload
}

// VectorStore is a per-user isolated vector collection. Each user owns
// exactly one collection whose name is a pure function of the user id.
type VectorStore interface {
	// EnsureCollection creates the user's collection if it does not exist
	// and returns its name. Calling it twice with the same user id returns
	// the same name both times.
	EnsureCollection(ctx context.Context, userID string) (string, error)

	// Upsert replaces-or-inserts points. Point ids are caller-supplied and
	// globally unique, so concurrent upserts from different ingestion runs
	// never collide.
	Upsert(ctx context.Context, collection string, points []VectorPoint) error

	// Query returns up to topK nearest neighbours by cosine similarity,
	// descending. The score threshold is applied after retrieving the
	// top-K, so a lower threshold never surfaces candidates beyond the
	// original top-K window.
	Query(ctx context.Context, collection string, vector []float32, topK int, scoreThreshold float64) ([]ScoredPoint, error)

	// DeleteByDocument removes every point whose payload references the
	// document. A no-op if none match.
	DeleteByDocument(ctx context.Context, collection, documentID string) error
}
