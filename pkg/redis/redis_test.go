package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/burbuqebeqiraj/PlusAPI/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient(&config.RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
	assert.Error(t, err)
}

func TestBlacklist(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	ok, err := c.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.BlacklistToken(ctx, "jti-1", time.Minute))
	ok, err = c.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = c.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok, "TTL 到期后应移出黑名单")
}

func TestBlacklist_ExpiredToken(t *testing.T) {
	c, mr := newTestClient(t)
	require.NoError(t, c.BlacklistToken(context.Background(), "jti-2", 0))
	assert.False(t, mr.Exists(blacklistPrefix+"jti-2"), "已过期的 Token 不应写入")
}

func TestCheckRateLimit(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := c.CheckRateLimit(ctx, "rl:test", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "第 %d 次请求应放行", i+1)
	}

	allowed, err := c.CheckRateLimit(ctx, "rl:test", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "超出限额应拒绝")

	allowed, err = c.CheckRateLimit(ctx, "rl:other", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "不同 key 独立计数")
}
