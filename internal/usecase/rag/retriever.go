package rag

import (
	"context"
	"log"
	"strings"

	"ragbot/internal/domain/entity"
	"ragbot/internal/domain/repository"
)

const previewLength = 200

// EmbeddingService turns a batch of texts into fixed-width vectors.
type EmbeddingService interface {
	GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever answers "what do this user's documents say about X": it embeds
// the query, finds the nearest chunks in the user's collection, hydrates
// their full text from persistent storage and assembles a length-bounded
// context. The query path never fails hard — any collaborator error
// degrades to an empty result, which lets the caller fall back to web
// search.
type Retriever struct {
	docRepo          repository.DocumentRepository
	chunkRepo        repository.ChunkRepository
	vectorStore      repository.VectorStore
	embedder         EmbeddingService
	topK             int
	scoreThreshold   float64
	maxContextLength int
}

func NewRetriever(
	docRepo repository.DocumentRepository,
	chunkRepo repository.ChunkRepository,
	vectorStore repository.VectorStore,
	embedder EmbeddingService,
	topK int,
	scoreThreshold float64,
	maxContextLength int,
) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	if maxContextLength <= 0 {
		maxContextLength = 4000
	}
	return &Retriever{
		docRepo:          docRepo,
		chunkRepo:        chunkRepo,
		vectorStore:      vectorStore,
		embedder:         embedder,
		topK:             topK,
		scoreThreshold:   scoreThreshold,
		maxContextLength: maxContextLength,
	}
}

// Retrieve assembles the context for a query. Hydrated chunk contents are
// concatenated in descending-score order separated by a blank line and
// truncated to maxContextLength with an ellipsis marker. HasContext is true
// iff at least one chunk was hydrated.
func (r *Retriever) Retrieve(ctx context.Context, query, userID string) *entity.RetrievalResult {
	empty := &entity.RetrievalResult{Sources: []entity.Source{}}

	embeddings, err := r.embedder.GenerateBatchEmbeddings(ctx, []string{query})
	if err != nil || len(embeddings) == 0 {
		log.Printf("query embedding failed for user %s: %v", userID, err)
		return empty
	}

	collection, err := r.vectorStore.EnsureCollection(ctx, userID)
	if err != nil {
		log.Printf("vector store unavailable for user %s: %v", userID, err)
		return empty
	}

	hits, err := r.vectorStore.Query(ctx, collection, embeddings[0], r.topK, r.scoreThreshold)
	if err != nil {
		log.Printf("vector search failed for user %s: %v", userID, err)
		return empty
	}

	contextParts := make([]string, 0, len(hits))
	sources := make([]entity.Source, 0, len(hits))

	for _, hit := range hits {
		chunk, err := r.chunkRepo.FindByEmbeddingID(ctx, hit.ID)
		if err != nil || chunk == nil {
			// a vector point without a chunk record is skipped, not fatal
			log.Printf("chunk record missing for embedding %s: %v", hit.ID, err)
			continue
		}
		contextParts = append(contextParts, chunk.Content)

		filename := "Unknown Document"
		if doc, err := r.docRepo.FindByID(ctx, chunk.DocumentID); err == nil && doc != nil {
			filename = doc.Filename
		}
		sources = append(sources, entity.Source{
			DocumentID: chunk.DocumentID,
			Filename:   filename,
			ChunkIndex: chunk.ChunkIndex,
			Score:      hit.Score,
			Preview:    preview(chunk.Content),
			SourceType: entity.SourceTypeLocalDocument,
		})
	}

	fullContext := strings.Join(contextParts, "\n\n")
	if len(fullContext) > r.maxContextLength {
		fullContext = fullContext[:r.maxContextLength] + "..."
	}

	return &entity.RetrievalResult{
		Context:    fullContext,
		Sources:    sources,
		HasContext: len(contextParts) > 0,
	}
}

func preview(content string) string {
	if len(content) > previewLength {
		return content[:previewLength] + "..."
	}
	return content
}
