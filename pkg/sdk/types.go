package catalogd

import (
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
)

// Product is a catalog record.
type Product struct {
	ID          string
	Name        string
	Brand       string
	Category    string
	Price       float64
	Rating      float64
	Stock       int
	Image       string
	Description string
	// Attributes values are string or float64.
	Attributes map[string]any
}

// ListOptions filters and pages a product listing.
// Zero Page/PageSize pick page 1 and the default page size.
type ListOptions struct {
	Search     string
	Categories []string
	Brands     []string
	PriceMin   *float64
	PriceMax   *float64
	Page       int
	PageSize   int
}

// Page is one page of a product listing.
type Page struct {
	Products []Product
	Page     int
	PageSize int
	Total    int
	Pages    int
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64
	Max float64
}

// Facets lists the values available for filtering.
type Facets struct {
	Categories []string
	Brands     []string
	Price      PriceRange
}

// Price returns a pointer to v, for ListOptions.PriceMin/PriceMax.
func Price(v float64) *float64 {
	return &v
}

func toInternalQuery(o ListOptions) query.Query {
	return query.Query{
		Search:     o.Search,
		Categories: o.Categories,
		Brands:     o.Brands,
		PriceMin:   o.PriceMin,
		PriceMax:   o.PriceMax,
		Page:       o.Page,
		PageSize:   o.PageSize,
	}
}

func fromInternalProduct(p product.Product) Product {
	var attrs map[string]any
	if len(p.Attributes) > 0 {
		attrs = make(map[string]any, len(p.Attributes))
		for k, v := range p.Attributes {
			attrs[k] = v
		}
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Price:       p.Price,
		Rating:      p.Rating,
		Stock:       p.Stock,
		Image:       p.Image,
		Description: p.Description,
		Attributes:  attrs,
	}
}

func fromInternalPage(env page.Envelope) Page {
	products := make([]Product, len(env.Results))
	for i, p := range env.Results {
		products[i] = fromInternalProduct(p)
	}
	return Page{
		Products: products,
		Page:     env.Page,
		PageSize: env.PageSize,
		Total:    env.Total,
		Pages:    env.Pages,
	}
}

func fromInternalFacets(f facet.Options) Facets {
	return Facets{
		Categories: append([]string(nil), f.Categories...),
		Brands:     append([]string(nil), f.Brands...),
		Price:      PriceRange{Min: f.Price.Min, Max: f.Price.Max},
	}
}
