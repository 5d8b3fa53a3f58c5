// Package cache decorates a catalog source with a Redis-backed response cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/db"
	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
)

var cacheKeyPrefix = domain.KeyPrefix + "cache:"

// DefaultTTL applies when New is given a non-positive ttl.
const DefaultTTL = time.Minute

// source is the decorated catalog source.
type source interface {
	Name() string
	List(ctx context.Context, q query.Query) (page.Envelope, error)
	Get(ctx context.Context, id string) (product.Product, error)
	Facets(ctx context.Context) (facet.Options, error)
}

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Source caches successful responses of an inner source. Inner errors pass
// through unchanged and are never cached; cache failures only log.
type Source struct {
	inner      source
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner source,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Source {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Source{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Name reports the inner source name: a cache hit is still served by that source.
func (s *Source) Name() string { return s.inner.Name() }

// List returns a cached page or asks the inner source.
func (s *Source) List(ctx context.Context, q query.Query) (page.Envelope, error) {
	return cached(ctx, s, listKey(q), func() (page.Envelope, error) {
		return s.inner.List(ctx, q)
	})
}

// Get returns a cached product or asks the inner source.
func (s *Source) Get(ctx context.Context, id string) (product.Product, error) {
	return cached(ctx, s, cacheKeyPrefix+"product:"+id, func() (product.Product, error) {
		return s.inner.Get(ctx, id)
	})
}

// Facets returns cached facet options or asks the inner source.
func (s *Source) Facets(ctx context.Context) (facet.Options, error) {
	return cached(ctx, s, cacheKeyPrefix+"facets", func() (facet.Options, error) {
		return s.inner.Facets(ctx)
	})
}

func cached[T any](ctx context.Context, s *Source, key string, load func() (T, error)) (T, error) {
	var v T
	if s.getFromCache(ctx, key, &v) {
		s.incCache("hit")
		return v, nil
	}
	s.incCache("miss")

	v, err := load()
	if err != nil {
		return v, err
	}
	s.putToCache(ctx, key, v)
	return v, nil
}

func listKey(q query.Query) string {
	h := sha256.Sum256([]byte(q.Key()))
	return cacheKeyPrefix + "list:" + hex.EncodeToString(h[:])
}

func (s *Source) incCache(result string) {
	if s.cacheTotal != nil {
		s.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (s *Source) getFromCache(ctx context.Context, key string, dst any) bool {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			s.logger.Warn("Failed to get cached response", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("Failed to parse cached response", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Source) putToCache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("Failed to encode response for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.store.SetWithTTL(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}
