package postgres

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/catalogd/internal/db"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// buildWhere renders the AND-ed predicates of q. Placeholders start at $1.
func buildWhere(q *db.SelectQuery) (string, []any) {
	if len(q.Predicates) == 0 {
		return "", nil
	}

	var (
		parts []string
		args  []any
	)
	for _, p := range q.Predicates {
		switch p.Kind {
		case db.PredicateSearch:
			args = append(args, "%"+likeEscaper.Replace(p.Text)+"%")
			n := len(args)
			ors := make([]string, len(p.Columns))
			for i, c := range p.Columns {
				ors[i] = fmt.Sprintf("%s ILIKE $%d", ident(c), n)
			}
			parts = append(parts, "("+strings.Join(ors, " OR ")+")")
		case db.PredicateIn:
			args = append(args, p.Values)
			parts = append(parts, fmt.Sprintf("%s = ANY($%d)", ident(p.Columns[0]), len(args)))
		case db.PredicateGte:
			args = append(args, p.Number)
			parts = append(parts, fmt.Sprintf("%s >= $%d", ident(p.Columns[0]), len(args)))
		case db.PredicateLte:
			args = append(args, p.Number)
			parts = append(parts, fmt.Sprintf("%s <= $%d", ident(p.Columns[0]), len(args)))
		case db.PredicateEq:
			args = append(args, p.Text)
			parts = append(parts, fmt.Sprintf("%s::text = $%d", ident(p.Columns[0]), len(args)))
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

// buildSelect renders the exact-count statement and the windowed page statement.
// The page statement takes two extra trailing arguments: offset and limit.
func buildSelect(q *db.SelectQuery) (countSQL, pageSQL string, args []any) {
	where, args := buildWhere(q)
	table := ident(q.Table)

	countSQL = "SELECT count(*) FROM " + table + where

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(table)
	b.WriteString(where)
	if q.OrderBy != "" {
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", ident(q.OrderBy), dir)
	}
	fmt.Fprintf(&b, " OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	return countSQL, b.String(), args
}
