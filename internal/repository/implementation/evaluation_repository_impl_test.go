package implementation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluationStatsEmpty(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewEvaluationRepository(rdb)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, stats.Count)
	require.Equal(t, float64(0), stats.AverageScore)
}

func TestEvaluationStats(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewEvaluationRepository(rdb)
	ctx := context.Background()

	for _, score := range []int{2, 4, 6} {
		_, err := repo.Record(ctx, "chat-1", score, "")
		require.NoError(t, err)
	}

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Count)
	require.Equal(t, float64(4), stats.AverageScore)
}

func TestEvaluationStatsSkipsUnparseableScores(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewEvaluationRepository(rdb)
	ctx := context.Background()

	record, err := repo.Record(ctx, "chat-1", 2, "ok")
	require.NoError(t, err)
	_, err = repo.Record(ctx, "chat-2", 4, "")
	require.NoError(t, err)

	// Corrupt one record's score directly.
	require.NoError(t, rdb.HSet(ctx, evaluationKey(record.Id.String()), "score", "not-a-number").Err())

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Count)
	require.Equal(t, float64(4), stats.AverageScore)
}
