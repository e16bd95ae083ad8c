package handler

import (
	"io"

	"ragbot/internal/delivery/http/dto"
	"ragbot/internal/usecase/document"

	"github.com/gofiber/fiber/v2"
)

type DocumentHandler struct {
	docUsecase *document.DocumentUsecase
}

func NewDocumentHandler(docUsecase *document.DocumentUsecase) *DocumentHandler {
	return &DocumentHandler{docUsecase: docUsecase}
}

// Upload accepts a multipart file and starts background ingestion.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to get file"})
	}

	fileData, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer fileData.Close()

	buf, err := io.ReadAll(fileData)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	doc, err := h.docUsecase.UploadDocument(c.Context(), userID, file.Filename, buf)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadDocumentResponse{
		ID:       doc.ID,
		Filename: doc.Filename,
		Status:   string(doc.Status),
		Message:  "Document uploaded successfully. Processing in background.",
	})
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	docs, err := h.docUsecase.ListDocuments(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	docInfos := make([]dto.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		docInfos = append(docInfos, dto.DocumentInfo{
			ID:         doc.ID,
			Filename:   doc.Filename,
			FileType:   doc.FileType,
			FileSize:   doc.FileSize,
			Status:     string(doc.Status),
			ChunkCount: doc.ChunkCount,
			UploadedAt: doc.UploadedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(dto.ListDocumentsResponse{Documents: docInfos})
}

func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	documentID := c.Params("id")

	doc, err := h.docUsecase.GetDocumentByID(c.Context(), documentID, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if doc == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
	}

	return c.Status(fiber.StatusOK).JSON(dto.DocumentInfo{
		ID:         doc.ID,
		Filename:   doc.Filename,
		FileType:   doc.FileType,
		FileSize:   doc.FileSize,
		Status:     string(doc.Status),
		ChunkCount: doc.ChunkCount,
		UploadedAt: doc.UploadedAt,
	})
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	documentID := c.Params("id")

	if err := h.docUsecase.DeleteDocument(c.Context(), documentID, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(dto.MessageResponse{Message: "Document deleted successfully"})
}
