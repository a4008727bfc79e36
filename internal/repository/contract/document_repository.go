package contract

import (
	"context"

	"docuchat-be/internal/entity"
)

// DocumentRepository owns "session:<id>:documents", "document:<id>:meta" and
// the memoized "session:<id>:collection" binding. It never touches vectors;
// vector deletion is the caller's job against the vector store.
type DocumentRepository interface {
	Add(ctx context.Context, doc *entity.Document) error
	Remove(ctx context.Context, sessionId, documentId string) error

	// List returns documents in insertion order. Ids whose metadata hash is
	// missing are skipped without error.
	List(ctx context.Context, sessionId string) ([]*entity.Document, error)

	// ResolveCollection returns the session's collection name, creating and
	// persisting "session_<id>" on first call. Stable for the session's
	// lifetime.
	ResolveCollection(ctx context.Context, sessionId string) (string, error)

	// Touch renews the document index TTL to the session expiry horizon.
	Touch(ctx context.Context, sessionId string) error
}
