package catalogd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/catalogd/internal/db/redis"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
	"github.com/kailas-cloud/catalogd/internal/metrics"
	"github.com/kailas-cloud/catalogd/internal/repository/cache"
	catalogrepo "github.com/kailas-cloud/catalogd/internal/repository/catalog"
	"github.com/kailas-cloud/catalogd/internal/repository/memory"
	"github.com/kailas-cloud/catalogd/internal/transport/gateway"
	cataloguc "github.com/kailas-cloud/catalogd/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/catalogd/internal/usecase/health"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interface, swapped out in tests.
type catalogUseCase interface {
	ListProducts(ctx context.Context, q query.Query) (page.Envelope, error)
	GetProduct(ctx context.Context, id string) (product.Product, error)
	Facets(ctx context.Context) (facet.Options, error)
	Chain() []string
}

// Client is the catalogd SDK entry point. It is safe for concurrent use.
type Client struct {
	closers   []func()
	catalog   catalogUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. Backends are optional: an unreachable PostgreSQL
// does not fail New, its requests fall through to the next source.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{obs: obs}
	var primary, gatewaySrc cataloguc.Source
	components := map[string]healthuc.Pinger{}

	if cfg.postgresURL != "" {
		store, err := postgres.NewStore(ctx, postgres.Config{URL: cfg.postgresURL, Key: cfg.postgresKey})
		if err != nil {
			return nil, fmt.Errorf("catalogd: create postgres store: %w", err)
		}
		c.closers = append(c.closers, store.Close)

		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil && cfg.logger != nil {
			cfg.logger.Warn("postgres not ready", "url", postgres.Redact(cfg.postgresURL), "error", err)
		}

		var repoOpts []catalogrepo.Option
		if cfg.table != "" {
			repoOpts = append(repoOpts, catalogrepo.WithTable(cfg.table))
		}
		repo := catalogrepo.New(store, repoOpts...)
		primary = repo
		components["database"] = store

		if len(cfg.cacheAddrs) > 0 {
			kv, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.cacheAddrs, Password: cfg.cachePassword})
			if err != nil {
				c.Close()
				return nil, fmt.Errorf("catalogd: create cache store: %w", err)
			}
			c.closers = append(c.closers, kv.Close)
			primary = cache.New(repo, kv, cfg.cacheTTL, metrics.CacheTotal, zap.NewNop())
			components["cache"] = kv
		}
	}

	if cfg.gatewayURL != "" {
		gw, err := gateway.New(gateway.Config{
			BaseURL:    cfg.gatewayURL,
			Timeout:    cfg.gatewayTimeout,
			HTTPClient: cfg.httpClient,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("catalogd: create gateway client: %w", err)
		}
		gatewaySrc = gw
		components["gateway"] = gw
	}

	svcOpts := []cataloguc.Option{
		cataloguc.WithPrimary(primary),
		cataloguc.WithGateway(gatewaySrc),
		cataloguc.WithForceMock(cfg.forceMock),
	}
	if cfg.maxPageSize > 0 {
		svcOpts = append(svcOpts, cataloguc.WithMaxPageSize(cfg.maxPageSize))
	}

	c.catalog = cataloguc.New(memory.NewSource(), zap.NewNop(), svcOpts...)
	c.healthSvc = healthuc.New(components)
	return c, nil
}

// Close releases all backend connections.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Chain returns the source names in the order they are tried.
func (c *Client) Chain() []string {
	return c.catalog.Chain()
}

// ListProducts returns one page of products matching opts.
func (c *Client) ListProducts(ctx context.Context, opts ListOptions) (_ Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe("products.list", start, err) }()

	env, err := c.catalog.ListProducts(ctx, toInternalQuery(opts))
	if err != nil {
		return Page{}, fmt.Errorf("list products: %w", err)
	}
	return fromInternalPage(env), nil
}

// GetProduct returns the product with id. Check ErrNotFound with errors.Is.
func (c *Client) GetProduct(ctx context.Context, id string) (_ Product, err error) {
	start := time.Now()
	defer func() { c.obs.observe("products.get", start, err) }()

	p, err := c.catalog.GetProduct(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("get product %q: %w", id, err)
	}
	return fromInternalProduct(p), nil
}

// Facets returns the filterable values.
func (c *Client) Facets(ctx context.Context) (_ Facets, err error) {
	start := time.Now()
	defer func() { c.obs.observe("facets", start, err) }()

	f, err := c.catalog.Facets(ctx)
	if err != nil {
		return Facets{}, fmt.Errorf("facets: %w", err)
	}
	return fromInternalFacets(f), nil
}

// Ping reports an error when the configured backends are all down.
// A client without backends always succeeds.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	h := c.healthSvc.Check(ctx)
	if h.Status == healthuc.Unhealthy {
		return fmt.Errorf("ping: %w: all %d backends down", ErrUnavailable, len(h.Checks))
	}
	return nil
}
