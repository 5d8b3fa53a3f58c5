package catalog

import (
	"context"

	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
)

// Source is one layer of the fallback chain.
//
// List and Facets errors of any kind move the resolver to the next source.
// A Get error wrapping domain.ErrNotFound is authoritative and ends the chain;
// any other Get error moves on.
type Source interface {
	Name() string
	List(ctx context.Context, q query.Query) (page.Envelope, error)
	Get(ctx context.Context, id string) (product.Product, error)
	Facets(ctx context.Context) (facet.Options, error)
}
