package catalogd

import (
	"context"

	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
	healthuc "github.com/kailas-cloud/catalogd/internal/usecase/health"
)

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	listFn   func(ctx context.Context, q query.Query) (page.Envelope, error)
	getFn    func(ctx context.Context, id string) (product.Product, error)
	facetsFn func(ctx context.Context) (facet.Options, error)
	chain    []string
}

func (m *mockCatalogUC) ListProducts(ctx context.Context, q query.Query) (page.Envelope, error) {
	return m.listFn(ctx, q)
}

func (m *mockCatalogUC) GetProduct(ctx context.Context, id string) (product.Product, error) {
	return m.getFn(ctx, id)
}

func (m *mockCatalogUC) Facets(ctx context.Context) (facet.Options, error) {
	return m.facetsFn(ctx)
}

func (m *mockCatalogUC) Chain() []string { return m.chain }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(catalog catalogUseCase, health healthUseCase) *Client {
	return &Client{catalog: catalog, healthSvc: health}
}
