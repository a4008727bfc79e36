// Package vectorstore abstracts the retrieval engine's backing store.
// Concrete implementations (pgvector, etc.) satisfy VectorStore so the
// chat layer never depends on a specific backend.
package vectorstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrCollectionNotFound signals that a collection has never been written to.
// Callers distinguish it from an empty search result: the former means "no
// documents uploaded yet".
var ErrCollectionNotFound = errors.New("collection not found")

// Chunk is one ingested piece of a document, ready for upsert.
type Chunk struct {
	DocumentId uuid.UUID
	ChunkIndex int
	Text       string
	Metadata   map[string]interface{}
}

// Passage is one retrieval hit.
type Passage struct {
	Text     string
	Metadata map[string]interface{}
	Score    float64
}

// VectorStore persists and searches embedded chunks. A collection is the
// isolation unit: one session's documents are never visible to another
// collection's searches.
type VectorStore interface {
	// Upsert stores chunks with their pre-computed embeddings. The
	// embeddings slice is parallel to chunks.
	Upsert(ctx context.Context, collection string, chunks []Chunk, embeddings [][]float32) error

	// Search returns the top-k most similar passages for the query
	// embedding, best first. Returns ErrCollectionNotFound for a
	// collection that holds no chunks at all.
	Search(ctx context.Context, collection string, queryEmbedding []float32, topK int) ([]Passage, error)

	// DeleteByDocument removes every chunk of one document from the
	// collection.
	DeleteByDocument(ctx context.Context, collection string, documentId uuid.UUID) error

	// DropCollection removes the whole collection.
	DropCollection(ctx context.Context, collection string) error
}
