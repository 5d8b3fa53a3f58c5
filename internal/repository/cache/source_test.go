package cache

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
)

func TestList_MissThenHit(t *testing.T) {
	inner := &mockSource{env: page.New([]product.Product{testProduct("1")}, 1, 12, 1)}
	src, ms := newTestSource(t, inner)
	ctx := context.Background()
	q := query.Query{Search: "lamp"}.Normalize()

	first, err := src.List(ctx, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := src.List(ctx, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inner.listCalls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.listCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached envelope differs:\n%+v\n%+v", first, second)
	}
	if len(ms.data) != 1 {
		t.Fatalf("expected 1 cache entry, got %d", len(ms.data))
	}
	for k, ttl := range ms.ttls {
		if !strings.HasPrefix(k, "catalogd:cache:list:") {
			t.Errorf("unexpected key %q", k)
		}
		if ttl != 30*time.Second {
			t.Errorf("unexpected ttl %v", ttl)
		}
	}
}

func TestList_KeyIgnoresSetOrder(t *testing.T) {
	a := query.Query{Categories: []string{"Home", "Toys"}}.Normalize()
	b := query.Query{Categories: []string{"Toys", "Home"}}.Normalize()
	c := query.Query{Categories: []string{"Toys"}}.Normalize()

	if listKey(a) != listKey(b) {
		t.Fatal("set order changed the cache key")
	}
	if listKey(a) == listKey(c) {
		t.Fatal("different filters share a cache key")
	}
}

func TestGet_CachesProduct(t *testing.T) {
	inner := &mockSource{prod: testProduct("42")}
	src, ms := newTestSource(t, inner)
	ctx := context.Background()

	if _, err := src.Get(ctx, "42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := src.Get(ctx, "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inner.getCalls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.getCalls)
	}
	if !reflect.DeepEqual(got, testProduct("42")) {
		t.Fatalf("unexpected product %+v", got)
	}
	if _, ok := ms.data["catalogd:cache:product:42"]; !ok {
		t.Fatalf("missing product key, have %v", ms.data)
	}
}

func TestFacets_Cached(t *testing.T) {
	inner := &mockSource{facets: facet.Options{
		Categories: []string{"Home"},
		Brands:     []string{"Acme"},
		Price:      facet.PriceRange{Min: 1, Max: 9},
	}}
	src, _ := newTestSource(t, inner)
	ctx := context.Background()

	for range 3 {
		f, err := src.Facets(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Price.Max != 9 {
			t.Fatalf("unexpected facets %+v", f)
		}
	}
	if inner.facCalls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.facCalls)
	}
}

func TestInnerError_NotCached(t *testing.T) {
	inner := &mockSource{err: domain.ErrUnavailable}
	src, ms := newTestSource(t, inner)

	_, err := src.Get(context.Background(), "1")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected inner error unchanged, got %v", err)
	}
	if len(ms.data) != 0 {
		t.Fatalf("error result was cached: %v", ms.data)
	}
}

func TestStoreFailures_DoNotFailCall(t *testing.T) {
	inner := &mockSource{prod: testProduct("7")}
	src, ms := newTestSource(t, inner)
	ms.getErr = errors.New("redis down")
	ms.setErr = errors.New("redis down")

	p, err := src.Get(context.Background(), "7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "7" {
		t.Fatalf("unexpected product %+v", p)
	}
}

func TestCorruptEntry_FallsThrough(t *testing.T) {
	inner := &mockSource{prod: testProduct("9")}
	src, ms := newTestSource(t, inner)
	ms.data["catalogd:cache:product:9"] = []byte("{not json")

	p, err := src.Get(context.Background(), "9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "9" || inner.getCalls != 1 {
		t.Fatalf("expected inner lookup, got %+v after %d calls", p, inner.getCalls)
	}
}

func TestCacheMetrics(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	inner := &mockSource{prod: testProduct("3")}
	ms := &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
	src := New(inner, ms, 0, counter, zap.NewNop())

	_, _ = src.Get(context.Background(), "3")
	_, _ = src.Get(context.Background(), "3")

	if v := testutil.ToFloat64(counter.WithLabelValues("miss")); v != 1 {
		t.Errorf("expected 1 miss, got %v", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("hit")); v != 1 {
		t.Errorf("expected 1 hit, got %v", v)
	}
	if ms.ttls["catalogd:cache:product:3"] != DefaultTTL {
		t.Errorf("expected default ttl, got %v", ms.ttls["catalogd:cache:product:3"])
	}
	if src.Name() != "postgres" {
		t.Errorf("unexpected name %q", src.Name())
	}
}
