// Package ingest turns uploaded file bytes into stamped, embeddable chunks.
package ingest

import (
	"fmt"
	"strings"

	"docuchat-be/pkg/vectorstore"

	"github.com/google/uuid"
)

// Ingestor splits raw document content into chunks carrying document and
// chunk identity in their metadata. Chunks that are empty after trimming are
// dropped.
type Ingestor struct {
	chunkSize int
	overlap   int
}

func NewIngestor(chunkSize, overlap int) *Ingestor {
	return &Ingestor{
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// Load splits content into ordered chunks for documentId. Chunk indexes are
// assigned after empty chunks are dropped, so they are always contiguous.
func (ing *Ingestor) Load(documentId uuid.UUID, filename string, content []byte) ([]vectorstore.Chunk, error) {
	text := strings.TrimSpace(string(content))
	if text == "" {
		return nil, fmt.Errorf("document %s is empty", filename)
	}

	pieces := SplitText(text, ing.chunkSize, ing.overlap)

	chunks := make([]vectorstore.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		index := len(chunks)
		chunks = append(chunks, vectorstore.Chunk{
			DocumentId: documentId,
			ChunkIndex: index,
			Text:       piece,
			Metadata: map[string]interface{}{
				"document_id": documentId.String(),
				"chunk_id":    fmt.Sprintf("%s_%d", documentId.String(), index),
				"filename":    filename,
			},
		})
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %s produced no usable chunks", filename)
	}
	return chunks, nil
}
