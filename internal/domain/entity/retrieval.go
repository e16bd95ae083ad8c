package entity

// Source identifies where one piece of retrieved context came from.
type Source struct {
	DocumentID string  `json:"documentId"`
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunkIndex"`
	Score      float64 `json:"score"`
	Preview    string  `json:"preview"`
	SourceType string  `json:"sourceType"`
}

const SourceTypeLocalDocument = "local_document"

// RetrievalResult is the assembled, length-bounded context for a query.
// HasContext is true iff at least one chunk was successfully hydrated from
// persistent storage.
type RetrievalResult struct {
	Context    string   `json:"context"`
	Sources    []Source `json:"sources"`
	HasContext bool     `json:"hasContext"`
}
