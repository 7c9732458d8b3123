// Package source implements the reference table sources: a CSV directory,
// SQLite, Postgres and a shared Google spreadsheet, optionally behind a
// table snapshot cache.
package source

import (
	"context"
	"fmt"

	"github.com/spherical-ai/hoidap/internal/cache"
	"github.com/spherical-ai/hoidap/internal/config"
	"github.com/spherical-ai/hoidap/internal/observability"
	"github.com/spherical-ai/hoidap/internal/reference"
)

// Source is a reference.Source that holds resources until closed.
type Source interface {
	reference.Source
	Close() error
}

// New builds the source selected by cfg.Source.Driver, wrapped in the
// configured cache.
func New(ctx context.Context, cfg *config.Config, logger *observability.Logger) (Source, error) {
	if logger == nil {
		logger = observability.Nop()
	}

	var (
		src Source
		err error
	)
	switch cfg.Source.Driver {
	case "csv":
		src = NewCSVSource(cfg.Source.CSV.Dir)
	case "sqlite":
		src, err = OpenSQLite(ctx, cfg.Source.SQLite.Path)
	case "postgres":
		src, err = OpenPostgres(ctx, cfg.Source.Postgres)
	case "sheets":
		src = NewSheetsSource(cfg.Source.Sheets, logger)
	default:
		return nil, fmt.Errorf("unsupported source driver: %s", cfg.Source.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("driver", cfg.Source.Driver).
		Str("cache", cfg.Cache.Driver).
		Msg("Reference source ready")

	c, err := newCache(ctx, cfg.Cache)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	if c == nil {
		return src, nil
	}
	return NewCachedSource(src, c, cfg.Cache.TTL, cfg.Source.Driver, logger), nil
}

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Client, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "memory":
		return cache.NewMemoryClient(cfg.MaxEntries), nil
	case "redis":
		c, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("connect table cache: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Driver)
	}
}
