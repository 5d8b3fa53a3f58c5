package db

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s can be used as a table, column or function name.
func ValidIdentifier(s string) bool {
	return identRegex.MatchString(s)
}

// PredicateKind selects how a predicate constrains rows.
type PredicateKind int

const (
	// PredicateSearch is a case-insensitive substring match OR-ed across columns.
	PredicateSearch PredicateKind = iota
	// PredicateIn is set membership.
	PredicateIn
	// PredicateGte is a numeric lower bound (inclusive).
	PredicateGte
	// PredicateLte is a numeric upper bound (inclusive).
	PredicateLte
	// PredicateEq is exact equality on the column's text form.
	PredicateEq
)

// Predicate is one AND-ed condition of a SelectQuery.
type Predicate struct {
	Kind    PredicateKind
	Columns []string
	Text    string
	Values  []string
	Number  float64
}

// SelectQuery describes a filtered, ordered and windowed read over one table.
type SelectQuery struct {
	Table      string
	Predicates []Predicate
	OrderBy    string
	Descending bool
	Offset     int
	Limit      int
}

// SelectBuilder is a fluent builder for SelectQuery.
type SelectBuilder struct {
	q SelectQuery
}

// From starts a query over table.
func From(table string) *SelectBuilder {
	return &SelectBuilder{q: SelectQuery{Table: table}}
}

// Search adds a substring match of term against any of columns. Empty term is a no-op.
func (b *SelectBuilder) Search(term string, columns ...string) *SelectBuilder {
	if term == "" {
		return b
	}
	b.q.Predicates = append(b.q.Predicates, Predicate{
		Kind:    PredicateSearch,
		Columns: columns,
		Text:    term,
	})
	return b
}

// In restricts column to values. No values is a no-op, not "match none".
func (b *SelectBuilder) In(column string, values ...string) *SelectBuilder {
	if len(values) == 0 {
		return b
	}
	b.q.Predicates = append(b.q.Predicates, Predicate{
		Kind:    PredicateIn,
		Columns: []string{column},
		Values:  values,
	})
	return b
}

// Gte adds column >= v.
func (b *SelectBuilder) Gte(column string, v float64) *SelectBuilder {
	b.q.Predicates = append(b.q.Predicates, Predicate{Kind: PredicateGte, Columns: []string{column}, Number: v})
	return b
}

// Lte adds column <= v.
func (b *SelectBuilder) Lte(column string, v float64) *SelectBuilder {
	b.q.Predicates = append(b.q.Predicates, Predicate{Kind: PredicateLte, Columns: []string{column}, Number: v})
	return b
}

// Eq adds column = value.
func (b *SelectBuilder) Eq(column, value string) *SelectBuilder {
	b.q.Predicates = append(b.q.Predicates, Predicate{Kind: PredicateEq, Columns: []string{column}, Text: value})
	return b
}

// Order sorts by column.
func (b *SelectBuilder) Order(column string, ascending bool) *SelectBuilder {
	b.q.OrderBy = column
	b.q.Descending = !ascending
	return b
}

// Range sets the window: skip offset rows, return at most limit.
func (b *SelectBuilder) Range(offset, limit int) *SelectBuilder {
	b.q.Offset = offset
	b.q.Limit = limit
	return b
}

// Build validates and returns the query.
func (b *SelectBuilder) Build() (*SelectQuery, error) {
	if err := b.q.Validate(); err != nil {
		return nil, err
	}
	q := b.q
	return &q, nil
}

// MustBuild calls Build and panics on error.
func (b *SelectBuilder) MustBuild() *SelectQuery {
	q, err := b.Build()
	if err != nil {
		panic(err)
	}
	return q
}

// Validate checks identifiers and window bounds.
func (q *SelectQuery) Validate() error {
	if !ValidIdentifier(q.Table) {
		return fmt.Errorf("%w: table name %q", ErrInvalidQuery, q.Table)
	}
	for i := range q.Predicates {
		p := &q.Predicates[i]
		if len(p.Columns) == 0 {
			return fmt.Errorf("%w: predicate %d has no column", ErrInvalidQuery, i)
		}
		for _, c := range p.Columns {
			if !ValidIdentifier(c) {
				return fmt.Errorf("%w: column name %q", ErrInvalidQuery, c)
			}
		}
	}
	if q.OrderBy != "" && !ValidIdentifier(q.OrderBy) {
		return fmt.Errorf("%w: order column %q", ErrInvalidQuery, q.OrderBy)
	}
	if q.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidQuery, q.Offset)
	}
	if q.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidQuery, q.Limit)
	}
	return nil
}

// String returns a debug representation resembling a REST filter string.
func (q *SelectQuery) String() string {
	parts := []string{"from=" + q.Table}
	for _, p := range q.Predicates {
		col := strings.Join(p.Columns, "|")
		switch p.Kind {
		case PredicateSearch:
			parts = append(parts, col+".ilike.*"+p.Text+"*")
		case PredicateIn:
			parts = append(parts, col+".in.("+strings.Join(p.Values, ",")+")")
		case PredicateGte:
			parts = append(parts, col+".gte."+strconv.FormatFloat(p.Number, 'f', -1, 64))
		case PredicateLte:
			parts = append(parts, col+".lte."+strconv.FormatFloat(p.Number, 'f', -1, 64))
		case PredicateEq:
			parts = append(parts, col+".eq."+p.Text)
		}
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Descending {
			dir = "desc"
		}
		parts = append(parts, "order="+q.OrderBy+"."+dir)
	}
	last := q.Offset + q.Limit - 1
	if last < q.Offset {
		last = math.MaxInt
	}
	parts = append(parts, "range="+strconv.Itoa(q.Offset)+"-"+strconv.Itoa(last))
	return strings.Join(parts, " ")
}
