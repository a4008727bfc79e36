package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"docuchat-be/pkg/embedding"
	"docuchat-be/pkg/vectorstore"
)

// Orchestrator handles vector search for one query or a batch of queries.
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	store             vectorstore.VectorStore
	logger            *log.Logger
}

// NewOrchestrator creates a new search orchestrator
func NewOrchestrator(embeddingProvider embedding.EmbeddingProvider, store vectorstore.VectorStore, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		store:             store,
		logger:            logger,
	}
}

// Retrieve embeds the query and returns the top-k passages from the
// collection, best first. Failures degrade to an empty result so the chat
// flow can still answer from general knowledge, except for
// vectorstore.ErrCollectionNotFound which is passed through for the caller
// to surface.
func (o *Orchestrator) Retrieve(ctx context.Context, collection string, query string, topK int) ([]vectorstore.Passage, error) {
	embeddingRes, err := o.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		o.logger.Printf("[WARN] Query embedding failed, degrading to no context: %v", err)
		return nil, nil
	}

	passages, err := o.store.Search(ctx, collection, embeddingRes.Embedding.Values, topK)
	if err != nil {
		if errors.Is(err, vectorstore.ErrCollectionNotFound) {
			return nil, err
		}
		o.logger.Printf("[WARN] Vector search failed, degrading to no context: %v", err)
		return nil, nil
	}

	return filterEmpty(passages), nil
}

// BatchRetrieve runs Retrieve for the queries concurrently, at most batchSize
// at a time. The result slice is parallel to queries. A collection that was
// never written to fails the whole batch; other per-query failures already
// degrade to nil inside Retrieve.
func (o *Orchestrator) BatchRetrieve(ctx context.Context, collection string, queries []string, topK int) ([][]vectorstore.Passage, error) {
	const batchSize = 5

	results := make([][]vectorstore.Passage, len(queries))
	for start := 0; start < len(queries); start += batchSize {
		end := start + batchSize
		if end > len(queries) {
			end = len(queries)
		}

		var wg sync.WaitGroup
		var mu sync.Mutex
		var firstErr error
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				passages, err := o.Retrieve(ctx, collection, queries[i], topK)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						if errors.Is(err, vectorstore.ErrCollectionNotFound) {
							firstErr = err
						} else {
							firstErr = fmt.Errorf("batch query %d: %w", i, err)
						}
					}
					mu.Unlock()
					return
				}
				results[i] = passages
			}(i)
		}
		wg.Wait()
		if firstErr != nil {
			return nil, firstErr
		}
	}
	return results, nil
}

func filterEmpty(passages []vectorstore.Passage) []vectorstore.Passage {
	filtered := make([]vectorstore.Passage, 0, len(passages))
	for _, p := range passages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
