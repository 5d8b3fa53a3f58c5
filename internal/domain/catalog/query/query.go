package query

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/catalogd/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Query is a list request. Empty Categories/Brands mean "no filter";
// nil PriceMin/PriceMax mean unbounded on that side.
type Query struct {
	Search     string   `validate:"max=256"`
	Categories []string `validate:"dive,required"`
	Brands     []string `validate:"dive,required"`
	PriceMin   *float64 `validate:"omitnil,gte=0"`
	PriceMax   *float64 `validate:"omitnil,gte=0"`
	Page       int      `validate:"gte=1"`
	PageSize   int      `validate:"gte=1"`
}

// Normalize trims the search term, drops blank set members and applies
// page defaults (page 1, DefaultPageSize).
func (q Query) Normalize() Query {
	q.Search = strings.TrimSpace(q.Search)
	q.Categories = compact(q.Categories)
	q.Brands = compact(q.Brands)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = domain.DefaultPageSize
	}
	return q
}

// Validate rejects queries a caller should not send. It wraps domain.ErrInvalidQuery.
func (q Query) Validate(maxPageSize int) error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	if maxPageSize > 0 && q.PageSize > maxPageSize {
		return fmt.Errorf("%w: pageSize must be at most %d", domain.ErrInvalidQuery, maxPageSize)
	}
	if q.PriceMin != nil && q.PriceMax != nil && *q.PriceMin > *q.PriceMax {
		return fmt.Errorf("%w: priceMin must not exceed priceMax", domain.ErrInvalidQuery)
	}
	return nil
}

// Offset is the zero-based index of the first record on the page.
// It saturates at math.MaxInt instead of wrapping for huge pages.
func (q Query) Offset() int {
	if q.Page <= 1 || q.PageSize <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return (q.Page - 1) * q.PageSize
}

// Key renders the query canonically: set order does not matter.
func (q Query) Key() string {
	var b strings.Builder
	b.WriteString("s=")
	b.WriteString(strings.ToLower(q.Search))
	b.WriteString("|c=")
	b.WriteString(strings.Join(sorted(q.Categories), ","))
	b.WriteString("|b=")
	b.WriteString(strings.Join(sorted(q.Brands), ","))
	b.WriteString("|min=")
	b.WriteString(formatPrice(q.PriceMin))
	b.WriteString("|max=")
	b.WriteString(formatPrice(q.PriceMax))
	b.WriteString("|p=")
	b.WriteString(strconv.Itoa(q.Page))
	b.WriteString("|n=")
	b.WriteString(strconv.Itoa(q.PageSize))
	return b.String()
}

// Price returns a pointer to v, for building queries inline.
func Price(v float64) *float64 {
	return &v
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func sorted(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)
	return out
}
