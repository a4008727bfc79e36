package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"docuchat-be/pkg/embedding"
	"docuchat-be/pkg/vectorstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lenEmbedder struct {
	err error
}

func (e lenEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{float32(len(text))}},
	}, nil
}

// echoStore answers each search with a passage naming the query embedding, so
// tests can check that results line up with their queries.
type echoStore struct {
	err      error
	arrivals chan struct{}
	release  chan struct{}
}

func (s *echoStore) Search(ctx context.Context, collection string, queryEmbedding []float32, topK int) ([]vectorstore.Passage, error) {
	if s.arrivals != nil {
		s.arrivals <- struct{}{}
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return []vectorstore.Passage{{Text: fmt.Sprintf("passage-%d", int(queryEmbedding[0]))}}, nil
}

func (s *echoStore) Upsert(ctx context.Context, collection string, chunks []vectorstore.Chunk, embeddings [][]float32) error {
	return nil
}

func (s *echoStore) DeleteByDocument(ctx context.Context, collection string, documentId uuid.UUID) error {
	return nil
}

func (s *echoStore) DropCollection(ctx context.Context, collection string) error {
	return nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRetrieveDegradesOnEmbeddingFailure(t *testing.T) {
	o := NewOrchestrator(lenEmbedder{err: errors.New("embedder down")}, &echoStore{}, discardLogger())

	passages, err := o.Retrieve(context.Background(), "session_s1", "câu hỏi", 3)

	require.NoError(t, err)
	assert.Nil(t, passages)
}

func TestRetrievePassesThroughMissingCollection(t *testing.T) {
	o := NewOrchestrator(lenEmbedder{}, &echoStore{err: vectorstore.ErrCollectionNotFound}, discardLogger())

	_, err := o.Retrieve(context.Background(), "session_s1", "câu hỏi", 3)

	assert.ErrorIs(t, err, vectorstore.ErrCollectionNotFound)
}

func TestBatchRetrieveKeepsResultsParallelToQueries(t *testing.T) {
	o := NewOrchestrator(lenEmbedder{}, &echoStore{}, discardLogger())

	queries := make([]string, 12)
	for i := range queries {
		queries[i] = fmt.Sprintf("%0*d", i+1, 0) // query i has length i+1
	}

	results, err := o.BatchRetrieve(context.Background(), "session_s1", queries, 3)
	require.NoError(t, err)
	require.Len(t, results, len(queries))
	for i := range queries {
		require.Len(t, results[i], 1)
		assert.Equal(t, fmt.Sprintf("passage-%d", i+1), results[i][0].Text)
	}
}

func TestBatchRetrieveRunsWindowConcurrently(t *testing.T) {
	store := &echoStore{
		arrivals: make(chan struct{}, 5),
		release:  make(chan struct{}),
	}
	o := NewOrchestrator(lenEmbedder{}, store, discardLogger())

	done := make(chan error, 1)
	go func() {
		_, err := o.BatchRetrieve(context.Background(), "session_s1", []string{"a", "bb", "ccc"}, 3)
		done <- err
	}()

	// All three searches must start before any of them finishes.
	for i := 0; i < 3; i++ {
		select {
		case <-store.arrivals:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of 3 searches started, batch is not concurrent", i)
		}
	}
	close(store.release)

	require.NoError(t, <-done)
}

func TestBatchRetrieveFailsOnMissingCollection(t *testing.T) {
	o := NewOrchestrator(lenEmbedder{}, &echoStore{err: vectorstore.ErrCollectionNotFound}, discardLogger())

	_, err := o.BatchRetrieve(context.Background(), "session_s1", []string{"a", "bb"}, 3)

	assert.ErrorIs(t, err, vectorstore.ErrCollectionNotFound)
}
