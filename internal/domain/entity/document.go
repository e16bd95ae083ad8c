package entity

import "time"

type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID         string         `db:"id" json:"id"`
	UserID     string         `db:"user_id" json:"userId"`
	Filename   string         `db:"filename" json:"filename"`
	FileType   string         `db:"file_type" json:"fileType"`
	FileSize   int64          `db:"file_size" json:"fileSize"`
	Status     DocumentStatus `db:"status" json:"status"`
	ChunkCount int            `db:"chunk_count" json:"chunkCount"`
	UploadedAt time.Time      `db:"uploaded_at" json:"uploadedAt"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt"`
}
