package kv

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"hrdash/internal/platform/config"
	"hrdash/internal/platform/crypto"
	"hrdash/internal/platform/db"
)

// Open builds the backend selected by cfg.BookmarkBackend.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.BookmarkBackend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendFile:
		sealer, err := crypto.New(cfg.DataEncryptionKey)
		if err != nil {
			return nil, err
		}
		return OpenFile(ctx, cfg.BookmarkFile, sealer)
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return NewPostgres(pool), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedis(client), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, cfg.BookmarkBackend)
	}
}
