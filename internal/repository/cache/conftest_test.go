package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/db"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
)

// mockSource implements the decorated source for tests.
type mockSource struct {
	env       page.Envelope
	prod      product.Product
	facets    facet.Options
	err       error
	listCalls int
	getCalls  int
	facCalls  int
}

func (m *mockSource) Name() string { return "postgres" }

func (m *mockSource) List(_ context.Context, _ query.Query) (page.Envelope, error) {
	m.listCalls++
	return m.env, m.err
}

func (m *mockSource) Get(_ context.Context, _ string) (product.Product, error) {
	m.getCalls++
	return m.prod, m.err
}

func (m *mockSource) Facets(_ context.Context) (facet.Options, error) {
	m.facCalls++
	return m.facets, m.err
}

// mockKVStore is a map-backed store with optional failure injection.
type mockKVStore struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func newTestSource(t *testing.T, inner *mockSource) (*Source, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
	return New(inner, ms, 30*time.Second, nil, zap.NewNop()), ms
}

func testProduct(id string) product.Product {
	return product.Product{
		ID:         id,
		Name:       "Acme Lamp",
		Brand:      "Acme",
		Category:   "Home",
		Price:      12.5,
		Rating:     4.1,
		Stock:      3,
		Image:      product.PlaceholderImage(id),
		Attributes: product.Attributes{"color": "Amber", "watts": 40.0},
	}
}
