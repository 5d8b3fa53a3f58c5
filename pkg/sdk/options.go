package catalogd

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	postgresURL string
	postgresKey string
	table       string

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	gatewayURL     string
	gatewayTimeout time.Duration
	httpClient     *http.Client

	forceMock   bool
	maxPageSize int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres adds a PostgreSQL products table as the first source.
// key is used as the password when url carries none.
func WithPostgres(url, key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.postgresURL = url
		c.postgresKey = key
	})
}

// WithTable overrides the products table name. Default: "products".
func WithTable(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.table = name
	})
}

// WithCache caches PostgreSQL answers in Redis or Valkey for ttl.
// Ignored without WithPostgres.
func WithCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithGateway adds an upstream REST catalog, tried after PostgreSQL.
func WithGateway(baseURL string, timeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.gatewayURL = baseURL
		c.gatewayTimeout = timeout
	})
}

// WithHTTPClient sets the HTTP client used for the gateway.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithForceMock serves every call from the local dataset,
// whatever else is configured.
func WithForceMock() Option {
	return optionFunc(func(c *clientConfig) {
		c.forceMock = true
	})
}

// WithMaxPageSize caps ListOptions.PageSize. Default: 100.
func WithMaxPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPageSize = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
