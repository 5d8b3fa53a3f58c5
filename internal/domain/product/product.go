package product

import (
	"fmt"
	"maps"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/catalogd/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Attributes holds arbitrary extra facets. Values are strings or float64 numbers.
type Attributes map[string]any

// Clone returns a copy of p that shares no map with it.
func (p Product) Clone() Product {
	p.Attributes = maps.Clone(p.Attributes)
	return p
}

// Product is the canonical catalog record. Every source decodes into this shape.
type Product struct {
	ID          string     `json:"id" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Brand       string     `json:"brand" validate:"required"`
	Category    string     `json:"category" validate:"required"`
	Price       float64    `json:"price" validate:"gte=0"`
	Rating      float64    `json:"rating" validate:"gte=0,lte=5"`
	Stock       int        `json:"stock" validate:"gte=0"`
	Image       string     `json:"image" validate:"required,uri"`
	Description string     `json:"description"`
	Attributes  Attributes `json:"attributes"`
}

// PlaceholderImage returns the generated image URL used when a record has none.
func PlaceholderImage(id string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/400/300", id)
}

// Validate checks the product against the canonical shape.
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: product %q: %w", domain.ErrMalformed, p.ID, err)
	}
	if math.IsNaN(p.Price) || math.IsNaN(p.Rating) {
		return fmt.Errorf("%w: product %q: NaN number", domain.ErrMalformed, p.ID)
	}
	for k, v := range p.Attributes {
		switch v.(type) {
		case string, float64:
		default:
			return fmt.Errorf("%w: product %q: attribute %q has type %T", domain.ErrMalformed, p.ID, k, v)
		}
	}
	return nil
}
