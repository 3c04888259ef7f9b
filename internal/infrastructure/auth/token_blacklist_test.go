package auth

import (
	"context"
	"testing"
	"time"

	"github.com/ledgerline/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewTokenBlacklist(t *testing.T) {
	// Port 1 is never a redis server, so the connection attempt fails fast
	unreachable := config.RedisConfig{Host: "127.0.0.1", Port: 1}

	t.Run("falls back to in-memory when redis is unreachable", func(t *testing.T) {
		bl, err := NewTokenBlacklist(unreachable, zaptest.NewLogger(t), true)
		require.NoError(t, err)
		assert.IsType(t, &InMemoryTokenBlacklist{}, bl)
	})

	t.Run("fails without fallback when redis is unreachable", func(t *testing.T) {
		bl, err := NewTokenBlacklist(unreachable, zaptest.NewLogger(t), false)
		assert.Error(t, err)
		assert.Nil(t, bl)
	})
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown JTI is not blacklisted", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		revoked, err := bl.IsBlacklisted(ctx, "unknown-jti")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revoked JTI is blacklisted until the TTL elapses", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		err := bl.AddToBlacklist(ctx, "jti-1", 1*time.Hour)
		require.NoError(t, err)

		revoked, err := bl.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("expired entry is treated as not blacklisted", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()

		err := bl.AddToBlacklist(ctx, "jti-2", 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		revoked, err := bl.IsBlacklisted(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
