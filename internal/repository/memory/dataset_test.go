package memory

import (
	"reflect"
	"strings"
	"testing"
)

func TestGenerate_Shape(t *testing.T) {
	items := Generate(Seed)
	if len(items) != Size {
		t.Fatalf("expected %d records, got %d", Size, len(items))
	}

	seen := make(map[string]bool, len(items))
	for i, p := range items {
		if err := p.Validate(); err != nil {
			t.Fatalf("record %d invalid: %v", i, err)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate id %q", p.ID)
		}
		seen[p.ID] = true

		if p.Category != categories[i%len(categories)] {
			t.Errorf("record %d: category %q out of cycle", i, p.Category)
		}
		if p.Brand != brands[i%len(brands)] {
			t.Errorf("record %d: brand %q out of cycle", i, p.Brand)
		}
		if p.Price < 10 || p.Price > 510 {
			t.Errorf("record %d: price %v out of [10, 510]", i, p.Price)
		}
		if p.Rating < 0 || p.Rating > 5 {
			t.Errorf("record %d: rating %v out of [0, 5]", i, p.Rating)
		}
		if p.Stock < 0 || p.Stock >= 100 {
			t.Errorf("record %d: stock %d out of [0, 100)", i, p.Stock)
		}
		if w, _ := p.Attributes["weight"].(string); !strings.HasSuffix(w, " kg") {
			t.Errorf("record %d: weight %q", i, w)
		}
		if _, ok := p.Attributes["warranty"].(string); !ok {
			t.Errorf("record %d: missing warranty", i)
		}
	}

	if items[0].Name != "Acme Electronics Item 1" {
		t.Errorf("unexpected first name %q", items[0].Name)
	}
	if items[0].Attributes["color"] != "Black" || items[5].Attributes["color"] != "Silver" {
		t.Errorf("color cycle broken: %v, %v", items[0].Attributes["color"], items[5].Attributes["color"])
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	if !reflect.DeepEqual(Generate(Seed), Generate(Seed)) {
		t.Fatal("same seed produced different catalogs")
	}
}

func TestCatalog_Memoized(t *testing.T) {
	a, b := Catalog(), Catalog()
	if len(a) != Size {
		t.Fatalf("expected %d records, got %d", Size, len(a))
	}
	if &a[0] != &b[0] {
		t.Fatal("Catalog regenerated instead of reusing the first result")
	}
}

func TestDefaultFacets(t *testing.T) {
	f := DefaultFacets()
	if err := f.Validate(); err != nil {
		t.Fatalf("default facets invalid: %v", err)
	}
	if len(f.Categories) != 5 || len(f.Brands) != 6 {
		t.Fatalf("unexpected facet sizes: %d categories, %d brands", len(f.Categories), len(f.Brands))
	}
	if f.Price.Min != 0 || f.Price.Max != 1000 {
		t.Fatalf("unexpected price range %+v", f.Price)
	}

	f.Categories[0] = "mutated"
	if DefaultFacets().Categories[0] != "Electronics" {
		t.Fatal("DefaultFacets leaked shared state")
	}
}
