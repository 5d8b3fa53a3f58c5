package facet

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/catalogd/internal/domain"
)

func TestPriceFrom(t *testing.T) {
	lo, hi := 12.5, 480.0

	if r := PriceFrom(&lo, &hi); r.Min != 12.5 || r.Max != 480 {
		t.Errorf("unexpected range: %+v", r)
	}
	if r := PriceFrom(nil, nil); r != DefaultPrice() {
		t.Errorf("expected default range, got %+v", r)
	}
	if r := PriceFrom(&lo, nil); r.Min != 12.5 || r.Max != DefaultPriceMax {
		t.Errorf("unexpected range: %+v", r)
	}
}

func TestValidate(t *testing.T) {
	ok := Options{Categories: []string{"Home"}, Brands: []string{}, Price: DefaultPrice()}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []Options{
		{Categories: nil, Brands: []string{"Acme"}, Price: DefaultPrice()},
		{Categories: []string{"Home"}, Brands: nil, Price: DefaultPrice()},
		{Categories: []string{""}, Brands: []string{}, Price: DefaultPrice()},
		{Categories: []string{}, Brands: []string{}, Price: PriceRange{Min: 10, Max: 5}},
	}
	for i, o := range bad {
		if err := o.Validate(); !errors.Is(err, domain.ErrMalformed) {
			t.Errorf("case %d: expected ErrMalformed, got %v", i, err)
		}
	}
}
