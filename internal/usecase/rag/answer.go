package rag

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ragbot/internal/domain/entity"
)

const (
	webResultsMarker = "--- Web Search Results ---"
	webMaxResults    = 3

	llmUnavailableMessage = "Error: Local LLM is not available. Please ensure Ollama is running."
)

// LLMService streams generated text for a prompt. Fragments are delivered
// over a channel the implementation closes on completion; cancelling the
// context must stop the stream and release the underlying connection.
type LLMService interface {
	Stream(ctx context.Context, prompt string) (<-chan string, error)
	IsAvailable(ctx context.Context) bool
}

// WebSearchService supplies supplemental context from the web.
type WebSearchService interface {
	Search(ctx context.Context, query string, maxResults int) (string, error)
	IsAvailable() bool
}

// RAGService orchestrates retrieval, the quality gate, the optional web
// fallback, and streaming answer generation.
type RAGService struct {
	retriever *Retriever
	llm       LLMService
	web       WebSearchService
}

func NewRAGService(retriever *Retriever, llm LLMService, web WebSearchService) *RAGService {
	return &RAGService{
		retriever: retriever,
		llm:       llm,
		web:       web,
	}
}

// Query runs the full answer pipeline and returns a stream of answer
// fragments alongside the retrieval result for source attribution. The
// returned channel always yields at least one fragment and is always
// closed; when the LLM is unavailable it carries exactly one terminal
// message instead. Callers must forward fragments without buffering the
// full answer.
func (s *RAGService) Query(ctx context.Context, query, userID string) (<-chan string, *entity.RetrievalResult) {
	result := s.retriever.Retrieve(ctx, query, userID)
	contextText := result.Context

	// fall back to web search when local context is missing or too weak
	needsWeb := !result.HasContext || !AssessContextQuality(contextText, query)
	usedWeb := false
	if needsWeb && s.web.IsAvailable() {
		webContext, err := s.web.Search(ctx, query, webMaxResults)
		if err != nil {
			// web search failures are silent to the end user
			log.Printf("web search failed: %v", err)
		} else if webContext != "" {
			if contextText != "" {
				contextText = contextText + "\n\n" + webResultsMarker + "\n" + webContext
			} else {
				contextText = webContext
			}
			usedWeb = true
		}
	}

	prompt := s.ComposePrompt(contextText, query, usedWeb)

	if !s.llm.IsAvailable(ctx) {
		return singleFragment(llmUnavailableMessage), result
	}

	fragments, err := s.llm.Stream(ctx, prompt)
	if err != nil {
		log.Printf("llm stream failed: %v", err)
		return singleFragment(llmUnavailableMessage), result
	}
	return fragments, result
}

// ComposePrompt selects the instruction template: answer from the document
// context when there is any, otherwise admit that no relevant documents
// were found. A note is appended when web results were blended in.
func (s *RAGService) ComposePrompt(contextText, query string, usedWeb bool) string {
	var b strings.Builder

	if strings.TrimSpace(contextText) != "" {
		fmt.Fprintf(&b, `You are a helpful AI assistant. Answer the user's question based on the provided context from the user's documents.

Context from Documents:
%s

Question: %s

Instructions:
- Provide a clear, accurate answer based primarily on the context from the user's documents
- If the context contains relevant information, use it to answer the question
- Be specific and cite relevant parts of the context when possible
- If the context doesn't contain enough information to fully answer the question, say so clearly
`, contextText, query)
	} else {
		fmt.Fprintf(&b, `You are a helpful AI assistant. The user has asked a question but no relevant documents were found in their personal collection.

Question: %s

Instructions:
- Inform the user that no relevant documents were found in their collection
- Provide a general helpful response if possible
- Suggest they might want to upload relevant documents for better answers
`, query)
	}

	if usedWeb {
		b.WriteString("\n- Some information comes from web search results - indicate this when relevant")
	}
	b.WriteString("\n\nAnswer:")

	return b.String()
}

func singleFragment(message string) <-chan string {
	out := make(chan string, 1)
	out <- message
	close(out)
	return out
}
