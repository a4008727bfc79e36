package implementation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCachePutGet(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewCacheRepository(rdb, 24)
	ctx := context.Background()

	entry, err := repo.Put(ctx, "prompt", "context", "response")
	require.NoError(t, err)
	require.Equal(t, repo.Key("prompt", "context"), entry.Key)

	got, err := repo.Get(ctx, repo.Key("prompt", "context"))
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "response", got.Response)
	require.Equal(t, "prompt", got.Prompt)
	require.Equal(t, "context", got.Context)
}

func TestCacheMiss(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewCacheRepository(rdb, 24)

	got, err := repo.Get(context.Background(), repo.Key("never", "written"))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCacheKeyIsContentAddressed(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewCacheRepository(rdb, 24)

	require.Equal(t, repo.Key("p", "c"), repo.Key("p", "c"))
	require.NotEqual(t, repo.Key("p", "c"), repo.Key("p", "d"))
	require.NotEqual(t, repo.Key("p", "c"), repo.Key("q", "c"))
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewCacheRepository(rdb, 24)
	ctx := context.Background()

	_, err := repo.Put(ctx, "p", "c", "r")
	require.NoError(t, err)

	mr.FastForward(25 * time.Hour)
	got, err := repo.Get(ctx, repo.Key("p", "c"))
	require.NoError(t, err)
	require.Nil(t, got)
}
