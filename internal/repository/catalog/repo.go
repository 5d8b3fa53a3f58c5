// Package catalog adapts the structured-query backend to the catalog source contract.
package catalog

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/catalogd/internal/db"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
)

const (
	defaultTable = "products"
	defaultMinFn = "min_price"
	defaultMaxFn = "max_price"
	columnID     = "id"
	columnName   = "name"
	columnBrand  = "brand"
	columnCat    = "category"
	columnPrice  = "price"
	sourceName   = "postgres"
)

// store is the consumer interface for structured reads (ISP).
type store interface {
	Select(ctx context.Context, q *db.SelectQuery) (*db.Window, error)
	SelectOne(ctx context.Context, table, column, value string) (db.Row, error)
	Distinct(ctx context.Context, table, column string) ([]string, error)
	Call(ctx context.Context, fn string) (*float64, error)
}

// Option configures a Repo.
type Option func(*Repo)

// WithTable overrides the products table name.
func WithTable(name string) Option {
	return func(r *Repo) { r.table = name }
}

// WithPriceFunctions overrides the server-side aggregate functions used for the price facet.
func WithPriceFunctions(minFn, maxFn string) Option {
	return func(r *Repo) {
		if minFn != "" {
			r.minFn = minFn
		}
		if maxFn != "" {
			r.maxFn = maxFn
		}
	}
}

// Repo serves List/Get/Facets from the structured-query backend.
type Repo struct {
	store store
	table string
	minFn string
	maxFn string
}

// New creates a structured-query repository.
func New(s store, opts ...Option) *Repo {
	r := &Repo{store: s, table: defaultTable, minFn: defaultMinFn, maxFn: defaultMaxFn}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Name identifies the source in logs and metrics.
func (r *Repo) Name() string { return sourceName }

// List runs q as one windowed select with an exact count, ordered by name.
func (r *Repo) List(ctx context.Context, q query.Query) (page.Envelope, error) {
	b := db.From(r.table).
		Search(q.Search, columnName, columnBrand, columnCat).
		In(columnCat, q.Categories...).
		In(columnBrand, q.Brands...)
	if q.PriceMin != nil {
		b.Gte(columnPrice, *q.PriceMin)
	}
	if q.PriceMax != nil {
		b.Lte(columnPrice, *q.PriceMax)
	}
	sq, err := b.Order(columnName, true).Range(q.Offset(), q.PageSize).Build()
	if err != nil {
		return page.Envelope{}, fmt.Errorf("build select: %w", err)
	}

	w, err := r.store.Select(ctx, sq)
	if err != nil {
		return page.Envelope{}, fmt.Errorf("select %s: %w", sq, err)
	}

	results := make([]product.Product, 0, len(w.Rows))
	for i, row := range w.Rows {
		p, err := product.FromRecord(row)
		if err != nil {
			return page.Envelope{}, fmt.Errorf("decode row %d: %w", i, err)
		}
		results = append(results, p)
	}

	return page.New(results, q.Page, q.PageSize, w.Total), nil
}

// Get looks up a product by exact id. A missing row is returned as
// db.ErrRowNotFound, not domain.ErrNotFound: the next source still gets asked.
func (r *Repo) Get(ctx context.Context, id string) (product.Product, error) {
	row, err := r.store.SelectOne(ctx, r.table, columnID, id)
	if err != nil {
		return product.Product{}, fmt.Errorf("select %s %q: %w", r.table, id, err)
	}
	p, err := product.FromRecord(row)
	if err != nil {
		return product.Product{}, fmt.Errorf("decode %q: %w", id, err)
	}
	return p, nil
}

// Facets collects distinct categories and brands plus the price bounds.
// Any failing sub-query fails the whole call.
func (r *Repo) Facets(ctx context.Context) (facet.Options, error) {
	categories, err := r.store.Distinct(ctx, r.table, columnCat)
	if err != nil {
		return facet.Options{}, fmt.Errorf("distinct categories: %w", err)
	}
	brands, err := r.store.Distinct(ctx, r.table, columnBrand)
	if err != nil {
		return facet.Options{}, fmt.Errorf("distinct brands: %w", err)
	}
	lo, err := r.store.Call(ctx, r.minFn)
	if err != nil {
		return facet.Options{}, fmt.Errorf("price min: %w", err)
	}
	hi, err := r.store.Call(ctx, r.maxFn)
	if err != nil {
		return facet.Options{}, fmt.Errorf("price max: %w", err)
	}

	out := facet.Options{
		Categories: nonNil(categories),
		Brands:     nonNil(brands),
		Price:      facet.PriceFrom(lo, hi),
	}
	if err := out.Validate(); err != nil {
		return facet.Options{}, err
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
