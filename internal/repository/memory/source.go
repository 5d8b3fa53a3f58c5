package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
)

// Source serves an in-memory record set. It is the terminal layer of the
// resolver chain: List and Facets never fail.
type Source struct {
	items  []product.Product
	facets facet.Options
}

// NewSource returns a Source over the synthetic catalog.
func NewSource() *Source {
	return &Source{items: Catalog(), facets: DefaultFacets()}
}

// NewSourceFrom returns a Source over items with the given facets.
// items must not be modified afterwards.
func NewSourceFrom(items []product.Product, facets facet.Options) *Source {
	return &Source{items: items, facets: facets}
}

// Name identifies the source in logs and metrics.
func (s *Source) Name() string { return "local" }

// List filters and paginates the record set.
func (s *Source) List(_ context.Context, q query.Query) (page.Envelope, error) {
	return Apply(s.items, q), nil
}

// Get returns the record with id. Absence is reported as domain.ErrNotFound.
func (s *Source) Get(_ context.Context, id string) (product.Product, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i].Clone(), nil
		}
	}
	return product.Product{}, fmt.Errorf("local %q: %w", id, domain.ErrNotFound)
}

// Facets returns a copy of the static facet set.
func (s *Source) Facets(_ context.Context) (facet.Options, error) {
	return facet.Options{
		Categories: slices.Clone(s.facets.Categories),
		Brands:     slices.Clone(s.facets.Brands),
		Price:      s.facets.Price,
	}, nil
}
