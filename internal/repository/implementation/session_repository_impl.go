package implementation

import (
	"context"
	"fmt"
	"time"

	"docuchat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type SessionRepositoryImpl struct {
	rdb    *redis.Client
	expiry time.Duration
}

func NewSessionRepository(rdb *redis.Client, expireHours int) contract.SessionRepository {
	return &SessionRepositoryImpl{
		rdb:    rdb,
		expiry: time.Duration(expireHours) * time.Hour,
	}
}

func sessionKey(sessionId string) string {
	return fmt.Sprintf("session:%s", sessionId)
}

func (r *SessionRepositoryImpl) Create(ctx context.Context) (string, error) {
	sessionId := uuid.New().String()
	if err := r.rdb.SetEx(ctx, sessionKey(sessionId), "active", r.expiry).Err(); err != nil {
		return "", err
	}
	return sessionId, nil
}

func (r *SessionRepositoryImpl) IsValid(ctx context.Context, sessionId string) (bool, error) {
	n, err := r.rdb.Exists(ctx, sessionKey(sessionId)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SessionRepositoryImpl) Touch(ctx context.Context, sessionId string) error {
	return r.rdb.Expire(ctx, sessionKey(sessionId), r.expiry).Err()
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, sessionId string) error {
	return r.rdb.Del(ctx, sessionKey(sessionId)).Err()
}
