package document

import (
	"context"
	"fmt"
	"log"
	"time"

	"ragbot/internal/domain/entity"
	"ragbot/internal/domain/repository"

	"github.com/google/uuid"
)

const previewLength = 200

// Process runs the full ingestion pipeline synchronously:
// resolve user → create document → extract → chunk → embed → store,
// returning the document id. On failure the document is marked failed and
// the error is returned; the id is still returned when the record was
// created before the failure.
//
// Concurrent ingestion of the same file is not deduplicated: two concurrent
// calls can both succeed and double-index the content.
func (uc *DocumentUsecase) Process(
	ctx context.Context,
	fileData []byte,
	filename string,
	userID string,
) (string, error) {
	doc, err := uc.Begin(ctx, userID, filename, int64(len(fileData)))
	if err != nil {
		return "", err
	}
	if err := uc.Run(ctx, doc, fileData); err != nil {
		return doc.ID, err
	}
	return doc.ID, nil
}

// Begin resolves or creates the owning user and creates the Document record
// with status "processing".
func (uc *DocumentUsecase) Begin(
	ctx context.Context,
	userID string,
	filename string,
	fileSize int64,
) (*entity.Document, error) {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	if user == nil {
		short := userID
		if len(short) > 8 {
			short = short[:8]
		}
		user = &entity.User{
			ID:    userID,
			Email: fmt.Sprintf("user_%s@example.com", short),
			Name:  fmt.Sprintf("User %s", short),
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
		}
	}

	doc := &entity.Document{
		UserID:   userID,
		Filename: filename,
		FileType: fileTypeOf(filename),
		FileSize: fileSize,
		Status:   entity.StatusProcessing,
	}
	if err := uc.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	return doc, nil
}

// Run executes extraction through storage for an already-created document.
// Any failure marks the document failed through an independent recovery
// path, so a mid-pipeline error never leaves the status stuck at
// "processing".
func (uc *DocumentUsecase) Run(ctx context.Context, doc *entity.Document, fileData []byte) error {
	if err := uc.run(ctx, doc, fileData); err != nil {
		uc.markFailed(doc.ID)
		return err
	}
	return nil
}

func (uc *DocumentUsecase) run(ctx context.Context, doc *entity.Document, fileData []byte) error {
	log.Printf("processing document %s (%s)", doc.ID, doc.Filename)

	text, err := uc.extractor.Extract(fileData, doc.FileType)
	if err != nil {
		return err
	}
	if len(text) == 0 {
		return fmt.Errorf("%w: no text extracted", entity.ErrExtraction)
	}
	log.Printf("extracted %d characters from document %s", len(text), doc.ID)

	chunks := uc.chunker.Chunk(text)
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks generated for document %s", doc.ID)
	}
	log.Printf("generated %d chunks for document %s", len(chunks), doc.ID)

	// one batch call for all chunks
	embeddings, err := uc.embedder.GenerateBatchEmbeddings(ctx, chunks)
	if err != nil {
		return err
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("%w: got %d embeddings for %d chunks", entity.ErrEmbedding, len(embeddings), len(chunks))
	}

	collection, err := uc.vectorStore.EnsureCollection(ctx, doc.UserID)
	if err != nil {
		return err
	}

	upserted := false
	for i, content := range chunks {
		embeddingID := uuid.New().String()

		point := repository.VectorPoint{
			ID:     embeddingID,
			Vector: embeddings[i],
			Payload: repository.PointPayload{
				DocumentID:     doc.ID,
				ChunkIndex:     i,
				ContentPreview: preview(content),
			},
		}
		if err := uc.vectorStore.Upsert(ctx, collection, []repository.VectorPoint{point}); err != nil {
			uc.compensate(collection, doc.ID, upserted)
			return err
		}
		upserted = true

		chunk := &entity.DocumentChunk{
			DocumentID:  doc.ID,
			ChunkIndex:  i,
			Content:     content,
			EmbeddingID: embeddingID,
		}
		if err := uc.chunkRepo.Create(ctx, chunk); err != nil {
			uc.compensate(collection, doc.ID, upserted)
			return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
		}
	}

	if err := uc.docRepo.UpdateChunkCount(ctx, doc.ID, len(chunks)); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	if err := uc.docRepo.UpdateStatus(ctx, doc.ID, entity.StatusCompleted); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}

	doc.Status = entity.StatusCompleted
	doc.ChunkCount = len(chunks)
	log.Printf("document %s processed with %d chunks", doc.ID, len(chunks))
	return nil
}

// compensate removes every vector point already upserted for the document,
// so a failed ingestion leaves no orphaned vectors behind. Runs on its own
// context: the triggering failure may have cancelled the caller's.
func (uc *DocumentUsecase) compensate(collection, documentID string, upserted bool) {
	if !upserted {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := uc.vectorStore.DeleteByDocument(ctx, collection, documentID); err != nil {
		log.Printf("failed to clean up vectors for document %s: %v", documentID, err)
	}
}

// markFailed flips the document status on a fresh context, independent of
// the failed unit of work.
func (uc *DocumentUsecase) markFailed(documentID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.docRepo.UpdateStatus(ctx, documentID, entity.StatusFailed); err != nil {
		log.Printf("failed to mark document %s as failed: %v", documentID, err)
	}
}

func preview(content string) string {
	if len(content) > previewLength {
		return content[:previewLength] + "..."
	}
	return content
}
