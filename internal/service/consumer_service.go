package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"docuchat-be/internal/dto"
	"docuchat-be/pkg/embedding"
	"docuchat-be/pkg/events"
	"docuchat-be/pkg/ingest"
	pktNats "docuchat-be/pkg/nats"
	"docuchat-be/pkg/vectorstore"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	ingestor          *ingest.Ingestor
	embeddingProvider embedding.EmbeddingProvider
	store             vectorstore.VectorStore
	eventPublisher    *pktNats.Publisher
	embedBatchSize    int
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	ingestor *ingest.Ingestor,
	embeddingProvider embedding.EmbeddingProvider,
	store vectorstore.VectorStore,
	eventPublisher *pktNats.Publisher,
	embedBatchSize int,
) IConsumerService {
	if embedBatchSize < 1 {
		embedBatchSize = 1
	}
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		ingestor:          ingestor,
		embeddingProvider: embeddingProvider,
		store:             store,
		eventPublisher:    eventPublisher,
		embedBatchSize:    embedBatchSize,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	documentId, err := uuid.Parse(payload.DocumentId)
	if err != nil {
		log.Printf("[ERROR] Invalid document id %q: %v", payload.DocumentId, err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Ingesting document %s (%s) into %s", payload.DocumentId, payload.Filename, payload.Collection)

	chunks, err := cs.ingestor.Load(documentId, payload.Filename, payload.Content)
	if err != nil {
		log.Printf("[ERROR] Failed to chunk document %s: %v", payload.DocumentId, err)
		msg.Ack() // Content will not get better on retry
		return
	}

	embeddings, err := cs.embedChunks(chunks)
	if err != nil {
		log.Printf("[ERROR] Failed to embed document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	// Replace any chunks from an earlier attempt before writing.
	if err := cs.store.DeleteByDocument(ctx, payload.Collection, documentId); err != nil {
		log.Printf("[ERROR] Failed to clear old chunks for document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if err := cs.store.Upsert(ctx, payload.Collection, chunks, embeddings); err != nil {
		log.Printf("[ERROR] Failed to upsert chunks for document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.NewDocumentIngestedEvent(payload.SessionId, payload.DocumentId, payload.Filename, len(chunks))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish ingest event for document %s: %v", payload.DocumentId, err)
		}
	}

	log.Printf("[SUCCESS] Document %s ingested: %d chunks", payload.DocumentId, len(chunks))
	msg.Ack()
}

// embedChunks embeds chunk texts in concurrent windows of embedBatchSize.
// Results stay parallel to chunks; the first embedding error aborts the whole
// document so the message can be retried.
func (cs *consumerService) embedChunks(chunks []vectorstore.Chunk) ([][]float32, error) {
	embeddings := make([][]float32, len(chunks))
	for start := 0; start < len(chunks); start += cs.embedBatchSize {
		end := start + cs.embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		var wg sync.WaitGroup
		var mu sync.Mutex
		var firstErr error
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				res, err := cs.embeddingProvider.Generate(chunks[i].Text, embedding.TaskRetrievalDocument)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("chunk %d: %w", i, err)
					}
					mu.Unlock()
					return
				}
				embeddings[i] = res.Embedding.Values
			}(i)
		}
		wg.Wait()
		if firstErr != nil {
			return nil, firstErr
		}
	}
	return embeddings, nil
}
