package repository

import (
	"context"
	"time"

	"travelbook/internal/config"
	"travelbook/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewStateRepository returns the memory store when no Redis address is
// configured, otherwise Redis wrapped in a failover to memory. The returned
// client is nil in the memory-only case.
func NewStateRepository(ctx context.Context, cfg config.RedisConfig, ttl time.Duration, logger *zerolog.Logger) (domain.StateRepository, *redis.Client) {
	memory := NewMemoryStateRepository(ttl)
	if cfg.Address == "" {
		logger.Info().Msg("Redis address not configured, using in-memory session store")
		return memory, nil
	}

	client := NewRedisClient(cfg)
	if err := Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Str("address", cfg.Address).Msg("Redis unavailable at startup, sessions fall back to memory")
	}

	return NewFailoverStateRepository(NewRedisStateRepository(client, ttl), memory, logger), client
}
