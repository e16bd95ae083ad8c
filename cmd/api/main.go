package main

import (
	"fmt"
	"log"

	"ragbot/internal/adapter/ollama"
	"ragbot/internal/adapter/openai"
	"ragbot/internal/adapter/qdrant"
	"ragbot/internal/adapter/repository/postgres"
	"ragbot/internal/adapter/tavily"
	"ragbot/internal/delivery/http/handler"
	"ragbot/internal/delivery/http/middleware"
	"ragbot/internal/usecase/document"
	"ragbot/internal/usecase/rag"
	"ragbot/pkg/config"
	"ragbot/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.Load()

	// connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("connected to database")

	// external collaborators
	embeddingClient := openai.NewEmbeddingClient(cfg.OpenAIKey, cfg.OpenAIEmbeddingModel)
	vectorStore := qdrant.NewClient(qdrant.Config{URL: cfg.QdrantURL, APIKey: cfg.QdrantAPIKey})
	llmClient := ollama.NewClient(cfg.OllamaURL, cfg.LLMModel)
	webClient := tavily.NewClient(cfg.TavilyAPIKey)

	// repositories
	userRepo := postgres.NewUserRepository(db)
	docRepo := postgres.NewDocumentRepository(db)
	chunkRepo := postgres.NewChunkRepository(db)

	// usecases
	docUsecase := document.NewDocumentUsecase(
		docRepo,
		chunkRepo,
		userRepo,
		vectorStore,
		embeddingClient,
		cfg.ChunkSize,
		cfg.ChunkOverlap,
	)
	retriever := rag.NewRetriever(
		docRepo,
		chunkRepo,
		vectorStore,
		embeddingClient,
		cfg.TopKResults,
		cfg.SimilarityThreshold,
		cfg.MaxContextLength,
	)
	ragService := rag.NewRAGService(retriever, llmClient, webClient)

	// handlers
	docHandler := handler.NewDocumentHandler(docUsecase)
	queryHandler := handler.NewQueryHandler(ragService, llmClient, webClient)

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024,
	})

	// middleware for request logging
	app.Use(logger.New())

	api := app.Group("/api")
	api.Get("/health", queryHandler.Health)

	protected := api.Group("", middleware.RequestUser())
	protected.Post("/documents/upload", docHandler.Upload)
	protected.Get("/documents", docHandler.List)
	protected.Get("/documents/:id", docHandler.GetByID)
	protected.Delete("/documents/:id", docHandler.Delete)
	protected.Post("/query", queryHandler.Query)

	log.Printf("server starting on port %d", cfg.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
