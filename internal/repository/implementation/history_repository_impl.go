package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type HistoryRepositoryImpl struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewHistoryRepository(rdb *redis.Client, ttlDays int) contract.HistoryRepository {
	return &HistoryRepositoryImpl{
		rdb: rdb,
		ttl: time.Duration(ttlDays) * 24 * time.Hour,
	}
}

func historyKey(sessionId string) string {
	return fmt.Sprintf("chat:%s:history", sessionId)
}

func turnCountKey(sessionId string) string {
	return fmt.Sprintf("chat:%s:count", sessionId)
}

func summaryKey(sessionId string) string {
	return fmt.Sprintf("summary:%s", sessionId)
}

func (r *HistoryRepositoryImpl) Append(ctx context.Context, sessionId, question, answer string) (*entity.ChatTurn, error) {
	turn := &entity.ChatTurn{
		Id:        uuid.New(),
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now(),
	}
	payload, err := json.Marshal(turn)
	if err != nil {
		return nil, err
	}
	// RPUSH keeps the list oldest-first, so ReadAll needs no reordering.
	if err := r.rdb.RPush(ctx, historyKey(sessionId), payload).Err(); err != nil {
		return nil, err
	}
	if err := r.rdb.Expire(ctx, historyKey(sessionId), r.ttl).Err(); err != nil {
		return nil, err
	}
	return turn, nil
}

func (r *HistoryRepositoryImpl) AttachMetrics(ctx context.Context, sessionId string, chatId uuid.UUID, metrics *entity.TurnMetrics) error {
	// Linear scan over the append log. Metrics attachment is rare and the
	// log stays short between compactions, so O(n) is acceptable.
	items, err := r.rdb.LRange(ctx, historyKey(sessionId), 0, -1).Result()
	if err != nil {
		return err
	}
	for idx, item := range items {
		var turn entity.ChatTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			continue
		}
		if turn.Id != chatId {
			continue
		}
		turn.Metrics = metrics
		payload, err := json.Marshal(&turn)
		if err != nil {
			return err
		}
		return r.rdb.LSet(ctx, historyKey(sessionId), int64(idx), payload).Err()
	}
	// Not found: no-op, never fail the caller.
	return nil
}

func (r *HistoryRepositoryImpl) ReadAll(ctx context.Context, sessionId string) ([]*entity.ChatTurn, error) {
	items, err := r.rdb.LRange(ctx, historyKey(sessionId), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	turns := make([]*entity.ChatTurn, 0, len(items))
	for _, item := range items {
		var turn entity.ChatTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, err
		}
		turns = append(turns, &turn)
	}
	return turns, nil
}

func (r *HistoryRepositoryImpl) Clear(ctx context.Context, sessionId string) error {
	return r.rdb.Del(ctx, historyKey(sessionId)).Err()
}

func (r *HistoryRepositoryImpl) IncrTurnCount(ctx context.Context, sessionId string) (int64, error) {
	return r.rdb.Incr(ctx, turnCountKey(sessionId)).Result()
}

func (r *HistoryRepositoryImpl) GetSummary(ctx context.Context, sessionId string) (string, error) {
	summary, err := r.rdb.Get(ctx, summaryKey(sessionId)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return summary, err
}

func (r *HistoryRepositoryImpl) SetSummary(ctx context.Context, sessionId, summary string) error {
	return r.rdb.Set(ctx, summaryKey(sessionId), summary, r.ttl).Err()
}

func (r *HistoryRepositoryImpl) DeleteSummary(ctx context.Context, sessionId string) error {
	return r.rdb.Del(ctx, summaryKey(sessionId)).Err()
}

func (r *HistoryRepositoryImpl) Touch(ctx context.Context, sessionId string) error {
	return r.rdb.Expire(ctx, historyKey(sessionId), r.ttl).Err()
}
