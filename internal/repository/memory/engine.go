package memory

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/catalogd/internal/domain/catalog/page"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
)

// Apply filters items by q and cuts the requested page. It never fails:
// a page past the end yields empty results with total and pages still set.
// q is expected to be normalized.
func Apply(items []product.Product, q query.Query) page.Envelope {
	search := strings.ToLower(q.Search)

	var matched []product.Product
	for i := range items {
		if match(&items[i], search, q) {
			matched = append(matched, items[i])
		}
	}

	total := len(matched)
	start := min(q.Offset(), total)
	end := start + min(q.PageSize, total-start)

	results := make([]product.Product, 0, end-start)
	for _, p := range matched[start:end] {
		results = append(results, p.Clone())
	}
	return page.New(results, q.Page, q.PageSize, total)
}

func match(p *product.Product, search string, q query.Query) bool {
	if search != "" &&
		!strings.Contains(strings.ToLower(p.Name), search) &&
		!strings.Contains(strings.ToLower(p.Brand), search) &&
		!strings.Contains(strings.ToLower(p.Category), search) {
		return false
	}
	if len(q.Categories) > 0 && !slices.Contains(q.Categories, p.Category) {
		return false
	}
	if len(q.Brands) > 0 && !slices.Contains(q.Brands, p.Brand) {
		return false
	}
	if q.PriceMin != nil && p.Price < *q.PriceMin {
		return false
	}
	if q.PriceMax != nil && p.Price > *q.PriceMax {
		return false
	}
	return true
}
