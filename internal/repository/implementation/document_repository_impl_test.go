package implementation

import (
	"context"
	"testing"

	"docuchat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDocumentAddListRemove(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewDocumentRepository(rdb, 24)
	ctx := context.Background()

	first := &entity.Document{DocumentId: uuid.New(), SessionId: "s1", Filename: "a.txt", SizeMB: 0.25}
	second := &entity.Document{DocumentId: uuid.New(), SessionId: "s1", Filename: "b.txt", SizeMB: 1.5}
	require.NoError(t, repo.Add(ctx, first))
	require.NoError(t, repo.Add(ctx, second))

	docs, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, first.DocumentId, docs[0].DocumentId)
	require.Equal(t, "a.txt", docs[0].Filename)
	require.Equal(t, 0.25, docs[0].SizeMB)
	require.Equal(t, second.DocumentId, docs[1].DocumentId)

	require.NoError(t, repo.Remove(ctx, "s1", first.DocumentId.String()))
	docs, err = repo.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, second.DocumentId, docs[0].DocumentId)
}

func TestDocumentListSkipsMissingMetadata(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewDocumentRepository(rdb, 24)
	ctx := context.Background()

	doc := &entity.Document{DocumentId: uuid.New(), SessionId: "s1", Filename: "a.txt", SizeMB: 0.1}
	require.NoError(t, repo.Add(ctx, doc))

	// Simulate a partial write: an id in the list without a metadata hash.
	orphan := uuid.New().String()
	require.NoError(t, rdb.RPush(ctx, documentListKey("s1"), orphan).Err())

	docs, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, doc.DocumentId, docs[0].DocumentId)
}

func TestResolveCollectionIsStable(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewDocumentRepository(rdb, 24)
	ctx := context.Background()

	collection, err := repo.ResolveCollection(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "session_s1", collection)

	again, err := repo.ResolveCollection(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, collection, again)

	other, err := repo.ResolveCollection(ctx, "s2")
	require.NoError(t, err)
	require.NotEqual(t, collection, other)
}
