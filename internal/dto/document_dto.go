package dto

import "docuchat-be/internal/entity"

type UploadFileStatus struct {
	Filename   string  `json:"filename"`
	DocumentId string  `json:"document_id"`
	SizeMB     float64 `json:"size_mb"`
	Status     string  `json:"status"` // "queued" once the ingest event is published
	UploadTime float64 `json:"upload_time"`
}

type UploadResponse struct {
	Success      bool                `json:"success"`
	Files        []*UploadFileStatus `json:"files"`
	TotalFiles   int                 `json:"total_files"`
	TotalLatency float64             `json:"total_latency"`
}

type ListDocumentsResponse struct {
	Documents []*entity.Document `json:"documents"`
	Latency   float64            `json:"latency"`
}

type DeleteDocumentResponse struct {
	Success bool    `json:"success"`
	Deleted string  `json:"deleted"`
	Latency float64 `json:"latency"`
}
