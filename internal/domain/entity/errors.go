package entity

import "errors"

var (
	// ErrUnsupportedFormat is returned for file types no extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtraction is returned when a format handler cannot parse its input.
	ErrExtraction = errors.New("text extraction failed")

	// ErrEmbedding is returned when the embedding provider fails.
	ErrEmbedding = errors.New("embedding generation failed")

	// ErrStoreUnavailable means the vector store could not be reached.
	// Fatal during ingestion; the retrieval path degrades to an empty result.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrPersistence wraps relational storage failures.
	ErrPersistence = errors.New("persistence error")

	// ErrLLMUnavailable means the LLM collaborator is not reachable. It is
	// never surfaced as an error to the end user; the answer stream emits a
	// single terminal fragment instead.
	ErrLLMUnavailable = errors.New("llm unavailable")
)
