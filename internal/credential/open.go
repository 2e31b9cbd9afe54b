package credential

import (
	"context"
	"fmt"

	"kbchat/internal/config"
	"kbchat/internal/database"
)

const redisKeyPrefix = "kbchat:storage:"

// Open builds the store selected by cfg.CredentialBackend. The returned
// close func releases any connection the backend holds.
func Open(ctx context.Context, cfg *config.Config) (*Store, func(), error) {
	noop := func() {}

	switch cfg.CredentialBackend {
	case config.BackendFile, "":
		return NewStore(NewFileBackend(cfg.CredentialFile)), noop, nil

	case config.BackendMemory:
		return NewStore(NewMemoryBackend()), noop, nil

	case config.BackendRedis:
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return NewStore(NewRedisBackend(client, redisKeyPrefix)), func() { client.Close() }, nil

	case config.BackendPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		backend, err := NewPostgresBackend(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return NewStore(backend), pool.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown credential backend %q", cfg.CredentialBackend)
	}
}
