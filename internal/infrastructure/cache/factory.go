package cache

import (
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/digiprime/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore builds the idempotency store from configuration:
// Redis when configured, falling back to the in-memory store so a missing
// Redis never blocks startup of a single-instance deployment.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	if cfg.Host == "" {
		logger.Info("redis not configured, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore()
	}

	store, err := NewRedisIdempotencyStore(RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory idempotency store",
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore()
	}

	logger.Info("using redis idempotency store",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)
	return store
}
