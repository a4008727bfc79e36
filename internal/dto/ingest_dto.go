package dto

// IngestDocumentMessage travels over the in-process ingest topic from the
// upload handler to the consumer worker.
type IngestDocumentMessage struct {
	SessionId  string `json:"session_id"`
	DocumentId string `json:"document_id"`
	Collection string `json:"collection"`
	Filename   string `json:"filename"`
	Content    []byte `json:"content"`
}
