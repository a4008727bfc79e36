package ingest

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStampsChunkMetadata(t *testing.T) {
	ing := NewIngestor(10, 2)
	docId := uuid.New()

	chunks, err := ing.Load(docId, "report.txt", []byte(strings.Repeat("a", 25)))
	require.NoError(t, err)
	require.True(t, len(chunks) > 1)

	for i, chunk := range chunks {
		assert.Equal(t, docId, chunk.DocumentId)
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, docId.String(), chunk.Metadata["document_id"])
		assert.Equal(t, "report.txt", chunk.Metadata["filename"])
		assert.Contains(t, chunk.Metadata["chunk_id"], docId.String())
	}
}

func TestLoadRejectsEmptyContent(t *testing.T) {
	ing := NewIngestor(100, 10)

	_, err := ing.Load(uuid.New(), "empty.txt", []byte("   \n\t  "))
	assert.Error(t, err)
}

func TestLoadDropsWhitespaceOnlyChunks(t *testing.T) {
	ing := NewIngestor(5, 0)
	content := "abcde     fghij"

	chunks, err := ing.Load(uuid.New(), "doc.txt", []byte(content))
	require.NoError(t, err)

	for _, chunk := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(chunk.Text))
	}
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, len(chunks)-1, chunks[len(chunks)-1].ChunkIndex)
}

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("ngắn", 100, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "ngắn", chunks[0])
}

func TestSplitTextOverlap(t *testing.T) {
	chunks := SplitText("0123456789", 4, 2)

	require.True(t, len(chunks) > 2)
	assert.Equal(t, "0123", chunks[0])
	assert.Equal(t, "2345", chunks[1])
}
