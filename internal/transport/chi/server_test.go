package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
	"github.com/kailas-cloud/catalogd/internal/repository/memory"
	cataloguc "github.com/kailas-cloud/catalogd/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/catalogd/internal/usecase/health"
)

// --- Mocks ---

type downSource struct{}

func (downSource) Name() string { return "postgres" }
func (downSource) List(context.Context, query.Query) (page.Envelope, error) {
	return page.Envelope{}, domain.ErrUnavailable
}
func (downSource) Get(context.Context, string) (product.Product, error) {
	return product.Product{}, domain.ErrUnavailable
}
func (downSource) Facets(context.Context) (facet.Options, error) {
	return facet.Options{}, domain.ErrUnavailable
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

func newTestRouter(t *testing.T, pingErr error) http.Handler {
	t.Helper()
	catalog := cataloguc.New(memory.NewSource(), zap.NewNop(),
		cataloguc.WithPrimary(downSource{}),
		cataloguc.WithMaxPageSize(50),
	)
	health := healthuc.New(map[string]healthuc.Pinger{"database": mockPinger{err: pingErr}})
	srv := NewServer(catalog, health, zap.NewNop())

	return HandlerWithOptions(srv, chi.NewRouter(), func(w http.ResponseWriter, _ *http.Request, err error) {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
	})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

// --- Tests ---

func TestListProducts_Defaults(t *testing.T) {
	rr := get(t, newTestRouter(t, nil), "/products")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body)
	}

	env := decode[page.Envelope](t, rr)
	if env.Total != 120 || env.Pages != 10 || env.Page != 1 || env.PageSize != 12 || len(env.Results) != 12 {
		t.Fatalf("unexpected envelope page=%d size=%d total=%d pages=%d results=%d",
			env.Page, env.PageSize, env.Total, env.Pages, len(env.Results))
	}
}

func TestListProducts_Filters(t *testing.T) {
	rr := get(t, newTestRouter(t, nil), "/products?categories=Home,Toys&brands=Acme&priceMin=10&priceMax=400.5&pageSize=50")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body)
	}

	env := decode[page.Envelope](t, rr)
	for _, p := range env.Results {
		if p.Brand != "Acme" || (p.Category != "Home" && p.Category != "Toys") {
			t.Fatalf("record %q escaped the filters", p.ID)
		}
		if p.Price < 10 || p.Price > 400.5 {
			t.Fatalf("price %v out of range", p.Price)
		}
	}
}

func TestListProducts_PageBeyondEnd(t *testing.T) {
	h := newTestRouter(t, nil)
	for _, pg := range []string{"999", "922337203685477580", "9223372036854775807"} {
		rr := get(t, h, "/products?page="+pg+"&pageSize=12")
		if rr.Code != http.StatusOK {
			t.Fatalf("page=%s: expected 200, got %d: %s", pg, rr.Code, rr.Body)
		}

		env := decode[page.Envelope](t, rr)
		if len(env.Results) != 0 || env.Total != 120 || env.Pages != 10 {
			t.Fatalf("page=%s: unexpected envelope %+v", pg, env)
		}
	}
}

func TestListProducts_BadRequests(t *testing.T) {
	tests := []struct {
		target string
		code   ErrorResponseCode
	}{
		{"/products?page=abc", ErrorResponseCodeBadRequest},
		{"/products?priceMin=cheap", ErrorResponseCodeBadRequest},
		{"/products?page=0", ErrorResponseCodeInvalidQuery},
		{"/products?pageSize=0", ErrorResponseCodeInvalidQuery},
		{"/products?pageSize=51", ErrorResponseCodeInvalidQuery},
		{"/products?priceMin=50&priceMax=10", ErrorResponseCodeInvalidQuery},
		{"/products?priceMin=-5", ErrorResponseCodeInvalidQuery},
	}
	h := newTestRouter(t, nil)
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := get(t, h, tt.target)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			if e := decode[ErrorResponse](t, rr); e.Code != tt.code {
				t.Fatalf("expected code %q, got %q", tt.code, e.Code)
			}
		})
	}
}

func TestGetProduct(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := get(t, h, "/products/17")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if p := decode[product.Product](t, rr); p.ID != "17" {
		t.Fatalf("unexpected product %+v", p)
	}

	rr = get(t, h, "/products/does-not-exist")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if e := decode[ErrorResponse](t, rr); e.Code != ErrorResponseCodeProductNotFound {
		t.Fatalf("unexpected error code %q", e.Code)
	}
}

func TestGetFacets(t *testing.T) {
	rr := get(t, newTestRouter(t, nil), "/facets")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	f := decode[facet.Options](t, rr)
	if len(f.Categories) != 5 || len(f.Brands) != 6 || f.Price.Max != 1000 {
		t.Fatalf("unexpected facets %+v", f)
	}
}

func TestHealthCheck(t *testing.T) {
	rr := get(t, newTestRouter(t, nil), "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if h := decode[HealthResponse](t, rr); h.Status != "ok" || h.Checks["database"] != "ok" {
		t.Fatalf("unexpected health %+v", h)
	}

	rr = get(t, newTestRouter(t, errors.New("down")), "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestHandleDomainError_Unavailable(t *testing.T) {
	catalog := cataloguc.New(downSource{}, zap.NewNop())
	srv := NewServer(catalog, healthuc.New(nil), zap.NewNop())
	h := HandlerWithOptions(srv, chi.NewRouter(), nil)

	rr := get(t, h, "/facets")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	e := decode[ErrorResponse](t, rr)
	if e.Code != ErrorResponseCodeUnavailable || e.Message != domain.ErrUnavailable.Error() {
		t.Fatalf("unexpected error %+v", e)
	}
}

func TestWithDefaultPageSize(t *testing.T) {
	catalog := cataloguc.New(memory.NewSource(), zap.NewNop())
	srv := NewServer(catalog, healthuc.New(nil), zap.NewNop()).WithDefaultPageSize(30)
	h := HandlerWithOptions(srv, chi.NewRouter(), nil)

	env := decode[page.Envelope](t, get(t, h, "/products"))
	if env.PageSize != 30 || len(env.Results) != 30 || env.Pages != 4 {
		t.Fatalf("unexpected envelope size=%d results=%d pages=%d", env.PageSize, len(env.Results), env.Pages)
	}
}
