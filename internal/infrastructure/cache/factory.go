package cache

import (
	"fmt"

	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore picks an idempotency store for the deployment: Redis
// when reachable, otherwise an in-memory store when fallback is allowed.
// In-memory state is per-process, so a multi-instance deployment running on
// the fallback can process the same event twice.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger, allowInMemoryFallback bool) (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(cfg)
	if err == nil {
		logger.Info("using Redis idempotency store", zap.String("addr", cfg.Addr()))
		return store, nil
	}

	if !allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}

	logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}
