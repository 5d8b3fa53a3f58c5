// Package page holds the paginated result envelope returned by every source.
package page

import "github.com/kailas-cloud/catalogd/internal/domain/product"

// Envelope is one page of products plus the counts needed to navigate.
type Envelope struct {
	Results  []product.Product `json:"results"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Total    int               `json:"total"`
	Pages    int               `json:"pages"`
}

// New builds an envelope; Pages is always derived from total and pageSize.
func New(results []product.Product, pg, pageSize, total int) Envelope {
	if results == nil {
		results = []product.Product{}
	}
	return Envelope{
		Results:  results,
		Page:     pg,
		PageSize: pageSize,
		Total:    total,
		Pages:    Count(total, pageSize),
	}
}

// Count returns max(1, ceil(total/pageSize)).
func Count(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
