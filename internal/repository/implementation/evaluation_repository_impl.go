package implementation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type EvaluationRepositoryImpl struct {
	rdb *redis.Client
}

func NewEvaluationRepository(rdb *redis.Client) contract.EvaluationRepository {
	return &EvaluationRepositoryImpl{rdb: rdb}
}

const evaluationIndexKey = "evaluations"

func evaluationKey(evalId string) string {
	return fmt.Sprintf("eval:%s", evalId)
}

func (r *EvaluationRepositoryImpl) Record(ctx context.Context, chatId string, score int, comment string) (*entity.EvaluationRecord, error) {
	record := &entity.EvaluationRecord{
		Id:        uuid.New(),
		ChatId:    chatId,
		Score:     score,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	fields := map[string]interface{}{
		"id":         record.Id.String(),
		"chat_id":    record.ChatId,
		"score":      strconv.Itoa(record.Score),
		"comment":    record.Comment,
		"created_at": record.CreatedAt.Format(time.RFC3339),
	}
	if err := r.rdb.HSet(ctx, evaluationKey(record.Id.String()), fields).Err(); err != nil {
		return nil, err
	}
	if err := r.rdb.LPush(ctx, evaluationIndexKey, record.Id.String()).Err(); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *EvaluationRepositoryImpl) Stats(ctx context.Context) (*entity.EvaluationStats, error) {
	evalIds, err := r.rdb.LRange(ctx, evaluationIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	totalScore := 0
	validEvals := 0
	for _, evalId := range evalIds {
		fields, err := r.rdb.HGetAll(ctx, evaluationKey(evalId)).Result()
		if err != nil {
			return nil, err
		}
		score, err := strconv.Atoi(fields["score"])
		if err != nil {
			// Unparseable score: excluded from count and average both.
			continue
		}
		totalScore += score
		validEvals++
	}

	stats := &entity.EvaluationStats{Count: validEvals}
	if validEvals > 0 {
		stats.AverageScore = float64(totalScore) / float64(validEvals)
	}
	return stats, nil
}
