package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"

	"ragbot/internal/delivery/http/dto"
	"ragbot/internal/usecase/rag"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type QueryHandler struct {
	ragService *rag.RAGService
	llm        rag.LLMService
	web        rag.WebSearchService
}

func NewQueryHandler(ragService *rag.RAGService, llm rag.LLMService, web rag.WebSearchService) *QueryHandler {
	return &QueryHandler{
		ragService: ragService,
		llm:        llm,
		web:        web,
	}
}

// Query streams the generated answer as server-sent events: one "sources"
// event carrying attribution, then one "token" event per fragment, then
// "done". Fragments are forwarded as they arrive; the full answer is never
// buffered. The stream stops when the client disconnects.
func (h *QueryHandler) Query(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var req dto.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query is required"})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	// the fasthttp request context stays live for the duration of the
	// stream and is cancelled when the connection drops
	var ctx context.Context = c.Context()
	query := req.Query

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		fragments, result := h.ragService.Query(ctx, query, userID)
		// drain the stream on any exit so the producer can release the
		// LLM connection
		defer func() {
			for range fragments {
			}
		}()

		sources := make([]dto.SourceInfo, 0, len(result.Sources))
		for _, s := range result.Sources {
			sources = append(sources, dto.SourceInfo{
				DocumentID: s.DocumentID,
				Filename:   s.Filename,
				ChunkIndex: s.ChunkIndex,
				Score:      s.Score,
				Preview:    s.Preview,
				SourceType: s.SourceType,
			})
		}
		if err := writeEvent(w, "sources", sources); err != nil {
			return
		}

		for fragment := range fragments {
			if err := writeEvent(w, "token", fragment); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}

		writeEvent(w, "done", nil)
		w.Flush()
	}))

	return nil
}

// Health reports the availability of the external collaborators.
func (h *QueryHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(dto.HealthResponse{
		Status: "ok",
		Services: map[string]bool{
			"llm":        h.llm.IsAvailable(c.Context()),
			"web_search": h.web.IsAvailable(),
		},
	})
}

func writeEvent(w *bufio.Writer, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := w.WriteString("event: " + event + "\n"); err != nil {
		return err
	}
	if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
		return err
	}
	return nil
}
