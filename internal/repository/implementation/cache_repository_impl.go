package implementation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

type CacheRepositoryImpl struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCacheRepository(rdb *redis.Client, ttlHours int) contract.CacheRepository {
	return &CacheRepositoryImpl{
		rdb: rdb,
		ttl: time.Duration(ttlHours) * time.Hour,
	}
}

func cacheKey(digest string) string {
	return fmt.Sprintf("cache:%s", digest)
}

func (r *CacheRepositoryImpl) Key(prompt, contextText string) string {
	sum := sha256.Sum256([]byte(prompt + contextText))
	return hex.EncodeToString(sum[:])
}

func (r *CacheRepositoryImpl) Get(ctx context.Context, key string) (*entity.CacheEntry, error) {
	data, err := r.rdb.Get(ctx, cacheKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entry entity.CacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, err
	}
	entry.Key = key
	return &entry, nil
}

func (r *CacheRepositoryImpl) Put(ctx context.Context, prompt, contextText, response string) (*entity.CacheEntry, error) {
	entry := &entity.CacheEntry{
		Key:       r.Key(prompt, contextText),
		Prompt:    prompt,
		Context:   contextText,
		Response:  response,
		CreatedAt: time.Now(),
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	if err := r.rdb.SetEx(ctx, cacheKey(entry.Key), payload, r.ttl).Err(); err != nil {
		return nil, err
	}
	return entry, nil
}
