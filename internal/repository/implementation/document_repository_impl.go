package implementation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/repository/contract"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

type DocumentRepositoryImpl struct {
	rdb    *redis.Client
	memo   *gocache.Cache // session -> collection, saves a round-trip per turn
	expiry time.Duration
}

func NewDocumentRepository(rdb *redis.Client, expireHours int) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		rdb:    rdb,
		memo:   gocache.New(1*time.Hour, 10*time.Minute),
		expiry: time.Duration(expireHours) * time.Hour,
	}
}

func documentListKey(sessionId string) string {
	return fmt.Sprintf("session:%s:documents", sessionId)
}

func documentMetaKey(documentId string) string {
	return fmt.Sprintf("document:%s:meta", documentId)
}

func collectionKey(sessionId string) string {
	return fmt.Sprintf("session:%s:collection", sessionId)
}

func (r *DocumentRepositoryImpl) Add(ctx context.Context, doc *entity.Document) error {
	docId := doc.DocumentId.String()
	if err := r.rdb.RPush(ctx, documentListKey(doc.SessionId), docId).Err(); err != nil {
		return err
	}
	meta := map[string]interface{}{
		"filename":   doc.Filename,
		"session_id": doc.SessionId,
		"size_mb":    strconv.FormatFloat(doc.SizeMB, 'f', 2, 64),
	}
	if err := r.rdb.HSet(ctx, documentMetaKey(docId), meta).Err(); err != nil {
		return err
	}
	return r.Touch(ctx, doc.SessionId)
}

func (r *DocumentRepositoryImpl) Remove(ctx context.Context, sessionId, documentId string) error {
	if err := r.rdb.LRem(ctx, documentListKey(sessionId), 0, documentId).Err(); err != nil {
		return err
	}
	return r.rdb.Del(ctx, documentMetaKey(documentId)).Err()
}

func (r *DocumentRepositoryImpl) List(ctx context.Context, sessionId string) ([]*entity.Document, error) {
	docIds, err := r.rdb.LRange(ctx, documentListKey(sessionId), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	docs := make([]*entity.Document, 0, len(docIds))
	for _, docId := range docIds {
		meta, err := r.rdb.HGetAll(ctx, documentMetaKey(docId)).Result()
		if err != nil {
			return nil, err
		}
		if len(meta) == 0 {
			// Tolerate partial writes: an id with no metadata is skipped.
			continue
		}
		id, err := uuid.Parse(docId)
		if err != nil {
			continue
		}
		sizeMB, _ := strconv.ParseFloat(meta["size_mb"], 64)
		docs = append(docs, &entity.Document{
			DocumentId: id,
			SessionId:  sessionId,
			Filename:   meta["filename"],
			SizeMB:     sizeMB,
		})
	}
	return docs, nil
}

func (r *DocumentRepositoryImpl) ResolveCollection(ctx context.Context, sessionId string) (string, error) {
	if cached, found := r.memo.Get(sessionId); found {
		return cached.(string), nil
	}

	collection, err := r.rdb.Get(ctx, collectionKey(sessionId)).Result()
	if err == redis.Nil {
		collection = "session_" + sessionId
		if err := r.rdb.Set(ctx, collectionKey(sessionId), collection, 0).Err(); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	r.memo.Set(sessionId, collection, gocache.DefaultExpiration)
	return collection, nil
}

func (r *DocumentRepositoryImpl) Touch(ctx context.Context, sessionId string) error {
	return r.rdb.Expire(ctx, documentListKey(sessionId), r.expiry).Err()
}
