package document

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"ragbot/internal/domain/entity"
	"ragbot/internal/domain/repository"
)

// EmbeddingService turns a batch of texts into fixed-width vectors.
type EmbeddingService interface {
	GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// DocumentUsecase owns the document lifecycle: ingestion, listing and
// deletion. All collaborators are injected; there is no ambient state.
type DocumentUsecase struct {
	docRepo     repository.DocumentRepository
	chunkRepo   repository.ChunkRepository
	userRepo    repository.UserRepository
	vectorStore repository.VectorStore
	embedder    EmbeddingService
	extractor   *TextExtractor
	chunker     *Chunker
}

func NewDocumentUsecase(
	docRepo repository.DocumentRepository,
	chunkRepo repository.ChunkRepository,
	userRepo repository.UserRepository,
	vectorStore repository.VectorStore,
	embedder EmbeddingService,
	chunkSize, chunkOverlap int,
) *DocumentUsecase {
	return &DocumentUsecase{
		docRepo:     docRepo,
		chunkRepo:   chunkRepo,
		userRepo:    userRepo,
		vectorStore: vectorStore,
		embedder:    embedder,
		extractor:   NewTextExtractor(),
		chunker:     NewChunker(chunkSize, chunkOverlap),
	}
}

// UploadDocument registers the document and processes it in the background,
// the caller gets the record back immediately with status "processing".
func (uc *DocumentUsecase) UploadDocument(
	ctx context.Context,
	userID string,
	filename string,
	fileData []byte,
) (*entity.Document, error) {
	doc, err := uc.Begin(ctx, userID, filename, int64(len(fileData)))
	if err != nil {
		return nil, err
	}

	go func() {
		// recovery for panic in background processing
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic processing document %s: %v", doc.ID, r)
				uc.markFailed(doc.ID)
			}
		}()

		if err := uc.Run(context.Background(), doc, fileData); err != nil {
			log.Printf("error processing document %s: %v", doc.ID, err)
		}
	}()

	return doc, nil
}

// ListDocuments returns the user's documents, newest first.
func (uc *DocumentUsecase) ListDocuments(ctx context.Context, userID string) ([]entity.Document, error) {
	return uc.docRepo.List(ctx, userID)
}

func (uc *DocumentUsecase) GetDocumentByID(ctx context.Context, documentID, userID string) (*entity.Document, error) {
	return uc.docRepo.FindByIDAndUserID(ctx, documentID, userID)
}

// DeleteDocument removes a document, its chunk records, and every vector
// point tagged with its id in the owner's collection.
func (uc *DocumentUsecase) DeleteDocument(ctx context.Context, documentID, userID string) error {
	doc, err := uc.docRepo.FindByIDAndUserID(ctx, documentID, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	if doc == nil {
		return fmt.Errorf("document not found")
	}

	collection, err := uc.vectorStore.EnsureCollection(ctx, userID)
	if err != nil {
		return err
	}
	if err := uc.vectorStore.DeleteByDocument(ctx, collection, documentID); err != nil {
		return err
	}

	if err := uc.chunkRepo.DeleteByDocumentID(ctx, documentID); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	if err := uc.docRepo.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	return nil
}

// fileTypeOf derives the declared type from the filename extension.
func fileTypeOf(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
