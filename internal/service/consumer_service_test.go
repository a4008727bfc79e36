package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"docuchat-be/internal/dto"
	"docuchat-be/pkg/embedding"
	"docuchat-be/pkg/ingest"
	"docuchat-be/pkg/vectorstore"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lenEmbedder encodes the input length so tests can verify that embeddings
// stay parallel to chunks regardless of goroutine scheduling.
type lenEmbedder struct {
	mu    sync.Mutex
	texts []string
	fail  string
}

func (e *lenEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	e.mu.Lock()
	e.texts = append(e.texts, text)
	e.mu.Unlock()
	if e.fail != "" && strings.Contains(text, e.fail) {
		return nil, errors.New("embedding backend down")
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{float32(len(text))}},
	}, nil
}

type upsertCall struct {
	collection string
	chunks     []vectorstore.Chunk
	embeddings [][]float32
}

type captureStore struct {
	upserts chan upsertCall
}

func (s *captureStore) Upsert(ctx context.Context, collection string, chunks []vectorstore.Chunk, embeddings [][]float32) error {
	s.upserts <- upsertCall{collection: collection, chunks: chunks, embeddings: embeddings}
	return nil
}

func (s *captureStore) Search(ctx context.Context, collection string, queryEmbedding []float32, topK int) ([]vectorstore.Passage, error) {
	return nil, vectorstore.ErrCollectionNotFound
}

func (s *captureStore) DeleteByDocument(ctx context.Context, collection string, documentId uuid.UUID) error {
	return nil
}

func (s *captureStore) DropCollection(ctx context.Context, collection string) error {
	return nil
}

func TestEmbedChunksKeepsResultsParallelAcrossWindows(t *testing.T) {
	cs := &consumerService{embeddingProvider: &lenEmbedder{}, embedBatchSize: 2}

	chunks := make([]vectorstore.Chunk, 5)
	for i := range chunks {
		chunks[i] = vectorstore.Chunk{Text: strings.Repeat("a", i+1)}
	}

	embeddings, err := cs.embedChunks(chunks)
	require.NoError(t, err)
	require.Len(t, embeddings, len(chunks))
	for i := range chunks {
		assert.Equal(t, float32(i+1), embeddings[i][0], "embedding %d must belong to chunk %d", i, i)
	}
}

func TestEmbedChunksStopsOnProviderError(t *testing.T) {
	provider := &lenEmbedder{fail: "bbb"}
	cs := &consumerService{embeddingProvider: provider, embedBatchSize: 3}

	chunks := []vectorstore.Chunk{{Text: "aaa"}, {Text: "bbb"}, {Text: "ccc"}}
	embeddings, err := cs.embedChunks(chunks)

	require.Error(t, err)
	assert.Nil(t, embeddings)
}

func TestConsumeEmbedsAndUpsertsDocument(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	store := &captureStore{upserts: make(chan upsertCall, 1)}
	svc := NewConsumerService(pubSub, "ingest.test", ingest.NewIngestor(40, 10), &lenEmbedder{}, store, nil, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Consume(ctx))

	documentId := uuid.New()
	content := "Công ty thành lập năm 2020. Trụ sở đặt tại Hà Nội. Sản phẩm chính là phần mềm quản lý tài liệu."
	payload, err := json.Marshal(dto.IngestDocumentMessage{
		SessionId:  "session-1",
		DocumentId: documentId.String(),
		Collection: "session_session-1",
		Filename:   "profile.txt",
		Content:    []byte(content),
	})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish("ingest.test", message.NewMessage(watermill.NewUUID(), payload)))

	select {
	case call := <-store.upserts:
		assert.Equal(t, "session_session-1", call.collection)
		require.NotEmpty(t, call.chunks)
		require.Len(t, call.embeddings, len(call.chunks))
		for i, chunk := range call.chunks {
			assert.Equal(t, documentId, chunk.DocumentId)
			assert.Equal(t, float32(len(chunk.Text)), call.embeddings[i][0],
				fmt.Sprintf("embedding %d must match its chunk", i))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("document was never upserted")
	}
}
