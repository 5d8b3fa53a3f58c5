// Package memory holds the synthetic product catalog and the local
// filter/paginate engine that serves it.
package memory

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/kailas-cloud/catalogd/internal/domain/catalog/facet"
	"github.com/kailas-cloud/catalogd/internal/domain/product"
)

// Size is the number of generated records.
const Size = 120

// Seed drives the generator. The catalog is identical across processes.
const Seed uint64 = 0x5eed_ca7a_1060

const description = "High-quality product with modern design and excellent performance characteristics."

var (
	categories = []string{"Electronics", "Home", "Outdoors", "Fashion", "Toys"}
	brands     = []string{"Acme", "Globex", "Umbrella", "Soylent", "Initech", "Hooli"}
	colors     = []string{"Black", "Silver", "Blue", "Amber"}
)

var (
	catalogOnce sync.Once
	catalog     []product.Product
)

// Catalog returns the process-wide synthetic catalog, generating it on first use.
// Callers must treat the slice and its records as read-only.
func Catalog() []product.Product {
	catalogOnce.Do(func() {
		catalog = Generate(Seed)
	})
	return catalog
}

// Generate builds Size records from seed.
func Generate(seed uint64) []product.Product {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	items := make([]product.Product, Size)
	for i := range items {
		id := strconv.Itoa(i + 1)
		category := categories[i%len(categories)]
		brand := brands[i%len(brands)]

		items[i] = product.Product{
			ID:          id,
			Name:        fmt.Sprintf("%s %s Item %d", brand, category, i+1),
			Brand:       brand,
			Category:    category,
			Price:       round(rng.Float64()*500+10, 2),
			Rating:      round(rng.Float64()*5, 1),
			Stock:       rng.IntN(100),
			Image:       product.PlaceholderImage(id),
			Description: description,
			Attributes: product.Attributes{
				"color":    colors[i%len(colors)],
				"weight":   fmt.Sprintf("%.1f kg", rng.Float64()*3+0.2),
				"warranty": fmt.Sprintf("%d years", i%3+1),
			},
		}
	}
	return items
}

// DefaultFacets is the static facet set served when no backend can report one.
func DefaultFacets() facet.Options {
	return facet.Options{
		Categories: append([]string(nil), categories...),
		Brands:     append([]string(nil), brands...),
		Price:      facet.DefaultPrice(),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
