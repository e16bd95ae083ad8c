package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        int

	// vector store
	QdrantURL    string
	QdrantAPIKey string

	// embeddings
	OpenAIKey            string
	OpenAIEmbeddingModel string

	// llm
	OllamaURL string
	LLMModel  string

	// web search
	TavilyAPIKey string

	// rag config
	ChunkSize           int
	ChunkOverlap        int
	TopKResults         int
	SimilarityThreshold float64
	MaxContextLength    int
}

func Load() *Config {
	godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		port = 8080
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        port,

		QdrantURL:    getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey: getEnv("QDRANT_API_KEY", ""),

		OpenAIKey:            getEnv("OPENAI_API_KEY", ""),
		OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),

		OllamaURL: getEnv("OLLAMA_URL", "http://localhost:11434"),
		LLMModel:  getEnv("LLM_MODEL", "gemma3:1b-it-qat"),

		TavilyAPIKey: getEnv("TAVILY_API_KEY", ""),

		ChunkSize:           getEnvInt("CHUNK_SIZE", 512),
		ChunkOverlap:        getEnvInt("CHUNK_OVERLAP", 50),
		TopKResults:         getEnvInt("TOP_K_RESULTS", 5),
		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0),
		MaxContextLength:    getEnvInt("MAX_CONTEXT_LENGTH", 4000),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
