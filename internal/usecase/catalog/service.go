// Package catalog resolves catalog reads across an ordered chain of sources.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
	logpkg "github.com/kailas-cloud/catalogd/internal/logger"
	"github.com/kailas-cloud/catalogd/internal/metrics"
)

const (
	opList   = "list"
	opGet    = "get"
	opFacets = "facets"
)

// Option configures a Service.
type Option func(*Service)

// WithPrimary sets the structured-query source tried first. nil leaves it unset.
func WithPrimary(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.primary = src
		}
	}
}

// WithGateway sets the REST source tried after the primary. nil leaves it unset.
func WithGateway(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.gateway = src
		}
	}
}

// WithForceMock serves every call from the local source only.
func WithForceMock(on bool) Option {
	return func(s *Service) { s.forceMock = on }
}

// WithMaxPageSize caps the accepted page size. Zero disables the cap.
func WithMaxPageSize(n int) Option {
	return func(s *Service) { s.maxPageSize = n }
}

// Service is the catalog resolver: it picks the chain for each call and
// returns the output of the first source that succeeds.
type Service struct {
	primary     Source
	gateway     Source
	local       Source
	forceMock   bool
	maxPageSize int
	logger      *zap.Logger
}

// New creates a resolver. local is the terminal source and must not be nil.
func New(local Source, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{local: local, maxPageSize: domain.MaxPageSize, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Chain returns the source names in the order they are tried.
func (s *Service) Chain() []string {
	chain := s.chain()
	names := make([]string, len(chain))
	for i, src := range chain {
		names[i] = src.Name()
	}
	return names
}

func (s *Service) chain() []Source {
	if s.forceMock {
		return []Source{s.local}
	}
	chain := make([]Source, 0, 3)
	if s.primary != nil {
		chain = append(chain, s.primary)
	}
	if s.gateway != nil {
		chain = append(chain, s.gateway)
	}
	return append(chain, s.local)
}

// ListProducts normalizes and validates q, then returns the first page any source produces.
func (s *Service) ListProducts(ctx context.Context, q query.Query) (page.Envelope, error) {
	q = q.Normalize()
	if err := q.Validate(s.maxPageSize); err != nil {
		return page.Envelope{}, err
	}

	var lastErr error
	for _, src := range s.chain() {
		env, err := observe(src.Name(), opList, func() (page.Envelope, error) {
			return src.List(ctx, q)
		})
		if err == nil {
			return env, nil
		}
		s.fallback(ctx, src.Name(), opList, err)
		lastErr = err
	}
	return page.Envelope{}, exhausted(opList, lastErr)
}

// GetProduct returns the product with id. domain.ErrNotFound from any source ends the search.
func (s *Service) GetProduct(ctx context.Context, id string) (product.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return product.Product{}, fmt.Errorf("%w: empty product id", domain.ErrInvalidQuery)
	}

	var lastErr error
	for _, src := range s.chain() {
		p, err := observe(src.Name(), opGet, func() (product.Product, error) {
			return src.Get(ctx, id)
		})
		if err == nil {
			return p, nil
		}
		if errors.Is(err, domain.ErrNotFound) {
			return product.Product{}, err
		}
		s.fallback(ctx, src.Name(), opGet, err)
		lastErr = err
	}
	return product.Product{}, exhausted(opGet, lastErr)
}

// Facets returns the facet options of the first source that can report them.
func (s *Service) Facets(ctx context.Context) (facet.Options, error) {
	var lastErr error
	for _, src := range s.chain() {
		f, err := observe(src.Name(), opFacets, func() (facet.Options, error) {
			return src.Facets(ctx)
		})
		if err == nil {
			return f, nil
		}
		s.fallback(ctx, src.Name(), opFacets, err)
		lastErr = err
	}
	return facet.Options{}, exhausted(opFacets, lastErr)
}

func (s *Service) fallback(ctx context.Context, source, op string, err error) {
	metrics.FallbacksTotal.WithLabelValues(source, op).Inc()
	logpkg.FromContextOr(ctx, s.logger).Warn("Catalog source failed, falling back",
		zap.String("source", source),
		zap.String("op", op),
		zap.Error(err),
	)
}

func observe[T any](source, op string, call func() (T, error)) (T, error) {
	start := time.Now()
	v, err := call()

	status := "ok"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	metrics.ObserveSource(source, op, status, time.Since(start))
	return v, err
}

func exhausted(op string, err error) error {
	return fmt.Errorf("%w: every source failed to %s: %w", domain.ErrUnavailable, op, err)
}
