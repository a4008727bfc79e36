package implementation

import (
	"context"
	"fmt"
	"testing"

	"docuchat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHistoryAppendReadAllRoundTrip(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewHistoryRepository(rdb, 7)
	ctx := context.Background()

	var appended []*entity.ChatTurn
	for i := 0; i < 5; i++ {
		turn, err := repo.Append(ctx, "s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		require.NoError(t, err)
		appended = append(appended, turn)
	}

	turns, err := repo.ReadAll(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 5)
	for i, turn := range turns {
		require.Equal(t, appended[i].Id, turn.Id)
		require.Equal(t, appended[i].Question, turn.Question)
		require.Equal(t, appended[i].Answer, turn.Answer)
		require.WithinDuration(t, appended[i].CreatedAt, turn.CreatedAt, 0)
		require.Nil(t, turn.Metrics)
	}
}

func TestHistoryAttachMetrics(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewHistoryRepository(rdb, 7)
	ctx := context.Background()

	first, err := repo.Append(ctx, "s1", "q1", "a1")
	require.NoError(t, err)
	second, err := repo.Append(ctx, "s1", "q2", "a2")
	require.NoError(t, err)

	metrics := &entity.TurnMetrics{LatencySeconds: 1.5, RetrievedPassages: 3, TurnNumber: 2}
	require.NoError(t, repo.AttachMetrics(ctx, "s1", second.Id, metrics))

	turns, err := repo.ReadAll(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, turns[0].Metrics)
	require.NotNil(t, turns[1].Metrics)
	require.Equal(t, 3, turns[1].Metrics.RetrievedPassages)
	require.Equal(t, first.Id, turns[0].Id)
}

func TestHistoryAttachMetricsUnknownIdIsNoop(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewHistoryRepository(rdb, 7)
	ctx := context.Background()

	_, err := repo.Append(ctx, "s1", "q1", "a1")
	require.NoError(t, err)

	err = repo.AttachMetrics(ctx, "s1", uuid.New(), &entity.TurnMetrics{})
	require.NoError(t, err)

	turns, err := repo.ReadAll(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, turns[0].Metrics)
}

func TestHistoryClear(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewHistoryRepository(rdb, 7)
	ctx := context.Background()

	_, err := repo.Append(ctx, "s1", "q", "a")
	require.NoError(t, err)
	require.NoError(t, repo.Clear(ctx, "s1"))

	turns, err := repo.ReadAll(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, turns)
}

func TestHistoryTurnCount(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewHistoryRepository(rdb, 7)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.IncrTurnCount(ctx, "s1")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestHistorySummary(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewHistoryRepository(rdb, 7)
	ctx := context.Background()

	summary, err := repo.GetSummary(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, summary)

	require.NoError(t, repo.SetSummary(ctx, "s1", "tóm tắt"))
	summary, err = repo.GetSummary(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "tóm tắt", summary)

	require.NoError(t, repo.DeleteSummary(ctx, "s1"))
	summary, err = repo.GetSummary(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, summary)
}
