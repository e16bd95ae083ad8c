package dto

import "time"

type UploadDocumentResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

type DocumentInfo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
	Status     string    `json:"status"`
	ChunkCount int       `json:"chunkCount"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type ListDocumentsResponse struct {
	Documents []DocumentInfo `json:"documents"`
}

type QueryRequest struct {
	Query string `json:"query"`
}

type SourceInfo struct {
	DocumentID string  `json:"documentId"`
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunkIndex"`
	Score      float64 `json:"score"`
	Preview    string  `json:"preview"`
	SourceType string  `json:"sourceType"`
}

type HealthResponse struct {
	Status   string          `json:"status"`
	Services map[string]bool `json:"services"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
