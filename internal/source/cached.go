package source

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/spherical-ai/hoidap/internal/cache"
	"github.com/spherical-ai/hoidap/internal/observability"
	"github.com/spherical-ai/hoidap/internal/reference"
)

// CachedSource keeps table snapshots in a cache for a fixed TTL.
// Cache failures are logged and fall through to the wrapped source.
type CachedSource struct {
	next      reference.Source
	cache     cache.Client
	ttl       time.Duration
	namespace string
	logger    *observability.Logger
}

// NewCachedSource wraps next with cache. namespace keeps snapshots of
// different sources apart when they share a cache.
func NewCachedSource(next reference.Source, c cache.Client, ttl time.Duration, namespace string, logger *observability.Logger) *CachedSource {
	if logger == nil {
		logger = observability.Nop()
	}
	return &CachedSource{
		next:      next,
		cache:     c,
		ttl:       ttl,
		namespace: namespace,
		logger:    logger.WithOperation("cached_source"),
	}
}

// FetchTable returns the cached snapshot or fetches and stores a fresh one.
func (s *CachedSource) FetchTable(ctx context.Context, name string) (*reference.Table, error) {
	key := cache.Key("table", s.namespace, name)

	data, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var t reference.Table
		if jerr := json.Unmarshal(data, &t); jerr == nil {
			s.logger.Debug().Str("table", name).Msg("table cache hit")
			return &t, nil
		}
		s.logger.Warn().Str("table", name).Msg("discarding undecodable cache entry")
		_ = s.cache.Delete(ctx, key)
	case !errors.Is(err, cache.ErrCacheMiss):
		s.logger.Warn().Err(err).Str("table", name).Msg("cache read failed")
	}

	t, err := s.next.FetchTable(ctx, name)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(t); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("table", name).Msg("cache write failed")
		}
	}
	return t, nil
}

// Close closes the cache and the wrapped source.
func (s *CachedSource) Close() error {
	cerr := s.cache.Close()
	if c, ok := s.next.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return cerr
}
