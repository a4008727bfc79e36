package events

import "time"

// Document lifecycle event codes.
const (
	TypeDocumentIngested = "DOCUMENT_INGESTED"
	TypeDocumentDeleted  = "DOCUMENT_DELETED"
	TypeSessionCreated   = "SESSION_CREATED"
)

// NewDocumentIngestedEvent is emitted after a document's chunks land in the
// vector store.
func NewDocumentIngestedEvent(sessionId, documentId, filename string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"session_id":  sessionId,
			"document_id": documentId,
			"filename":    filename,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentDeletedEvent is emitted after a document and its vectors are
// removed.
func NewDocumentDeletedEvent(sessionId, documentId string) Event {
	return BaseEvent{
		Type: TypeDocumentDeleted,
		Data: map[string]interface{}{
			"session_id":  sessionId,
			"document_id": documentId,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionCreatedEvent is emitted when a new chat session is issued.
func NewSessionCreatedEvent(sessionId string) Event {
	return BaseEvent{
		Type: TypeSessionCreated,
		Data: map[string]interface{}{
			"session_id": sessionId,
		},
		OccurredAt: time.Now(),
	}
}
