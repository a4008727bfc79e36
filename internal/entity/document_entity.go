package entity

import "github.com/google/uuid"

// Document is the per-session registry entry for an uploaded file. The
// vectors themselves live in the vector store, keyed by DocumentId.
type Document struct {
	DocumentId uuid.UUID `json:"document_id"`
	SessionId  string    `json:"session_id"`
	Filename   string    `json:"filename"`
	SizeMB     float64   `json:"size_mb"`
}
