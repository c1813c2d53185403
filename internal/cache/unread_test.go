package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCounter(t *testing.T) (*UnreadCounter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewUnreadCounter(rdb, time.Minute), mr
}

func TestUnreadCounter_MissFillHit(t *testing.T) {
	c, _ := newTestCounter(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	ver, err := c.Version(ctx, "u1")
	require.NoError(t, err)
	filled, err := c.Fill(ctx, "u1", 3, ver)
	require.NoError(t, err)
	assert.True(t, filled)

	n, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)
}

func TestUnreadCounter_InvalidateAndTTL(t *testing.T) {
	c, mr := newTestCounter(t)
	ctx := context.Background()

	_, err := c.Fill(ctx, "u1", 1, 0)
	require.NoError(t, err)
	_, err = c.Fill(ctx, "u2", 2, 0)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, "u1"))
	_, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(unreadKey("u2")))
}

// 回源期间发生失效：旧计数不得写回
func TestUnreadCounter_FillSkippedAfterConcurrentInvalidate(t *testing.T) {
	c, mr := newTestCounter(t)
	ctx := context.Background()

	ver, err := c.Version(ctx, "u1")
	require.NoError(t, err)
	// 读者已从库里拿到 0，此时写者提交了新通知
	require.NoError(t, c.Invalidate(ctx, "u1"))

	filled, err := c.Fill(ctx, "u1", 0, ver)
	require.NoError(t, err)
	assert.False(t, filled)
	assert.False(t, mr.Exists(unreadKey("u1")))

	ver, err = c.Version(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)
	filled, err = c.Fill(ctx, "u1", 1, ver)
	require.NoError(t, err)
	assert.True(t, filled)
	assert.True(t, mr.TTL(versionKey("u1")) > 0)
}

func TestUnreadCounter_DefaultTTLIsShort(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	c := NewUnreadCounter(rdb, 0)

	_, err := c.Fill(context.Background(), "u1", 5, 0)
	require.NoError(t, err)
	ttl := mr.TTL(unreadKey("u1"))
	assert.True(t, ttl > 0 && ttl <= 30*time.Second, "ttl=%s", ttl)
}
