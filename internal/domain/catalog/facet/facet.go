package facet

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/catalogd/internal/domain"
)

// Default price bounds used when a source cannot report them.
const (
	DefaultPriceMin = 0
	DefaultPriceMax = 1000
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PriceRange is the inclusive price interval available for filtering.
type PriceRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// Options lists the filterable values of every facet.
type Options struct {
	Categories []string   `json:"categories" validate:"required,dive,required"`
	Brands     []string   `json:"brands" validate:"required,dive,required"`
	Price      PriceRange `json:"price"`
}

// DefaultPrice is the fallback price range.
func DefaultPrice() PriceRange {
	return PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax}
}

// PriceFrom builds a range from optional aggregates, defaulting each missing side.
func PriceFrom(lo, hi *float64) PriceRange {
	r := DefaultPrice()
	if lo != nil {
		r.Min = *lo
	}
	if hi != nil {
		r.Max = *hi
	}
	return r
}

// Validate checks a decoded facet payload. It wraps domain.ErrMalformed.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: facets: %w", domain.ErrMalformed, err)
	}
	return nil
}
