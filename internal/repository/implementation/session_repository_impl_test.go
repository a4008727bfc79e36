package implementation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestSessionLifecycle(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewSessionRepository(rdb, 24)
	ctx := context.Background()

	sessionId, err := repo.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sessionId)

	valid, err := repo.IsValid(ctx, sessionId)
	require.NoError(t, err)
	require.True(t, valid)

	// Never-created ids are never valid.
	valid, err = repo.IsValid(ctx, "no-such-session")
	require.NoError(t, err)
	require.False(t, valid)

	// Expiry: fast-forward past the 24h TTL.
	mr.FastForward(25 * time.Hour)
	valid, err = repo.IsValid(ctx, sessionId)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestSessionTouchRenewsTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewSessionRepository(rdb, 24)
	ctx := context.Background()

	sessionId, err := repo.Create(ctx)
	require.NoError(t, err)

	mr.FastForward(23 * time.Hour)
	require.NoError(t, repo.Touch(ctx, sessionId))
	mr.FastForward(23 * time.Hour)

	valid, err := repo.IsValid(ctx, sessionId)
	require.NoError(t, err)
	require.True(t, valid, "touched session should survive past its original horizon")
}

func TestSessionDelete(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewSessionRepository(rdb, 24)
	ctx := context.Background()

	sessionId, err := repo.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, sessionId))

	valid, err := repo.IsValid(ctx, sessionId)
	require.NoError(t, err)
	require.False(t, valid)
}
