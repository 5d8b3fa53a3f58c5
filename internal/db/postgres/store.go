package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/catalogd/internal/db"
)

// Compile-time check: Store implements db.RowStore.
var _ db.RowStore = (*Store)(nil)

// pool is the subset of *pgxpool.Pool the store uses.
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Ping(ctx context.Context) error
	Close()
}

// Config holds connection parameters for the structured-query backend.
type Config struct {
	URL string
	// Key is used as the password when URL does not carry one.
	Key      string
	MaxConns int32
}

// Store implements db.RowStore on a pgx connection pool.
type Store struct {
	pool pool
}

// NewStore creates a pool. Connections are opened lazily, so an unreachable
// server surfaces on the first query, not here. An empty URL yields
// db.ErrNotConfigured.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, db.ErrNotConfigured
	}

	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	if cfg.Key != "" && pc.ConnConfig.Password == "" {
		pc.ConnConfig.Password = cfg.Key
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}

	p, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	return &Store{pool: p}, nil
}

// NewStoreForTest creates a Store over the provided pool (test-only).
func NewStoreForTest(p pool) *Store {
	return &Store{pool: p}
}

// Redact returns the connection URL with any password masked, for logging.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}

// Select runs q and returns the requested window plus the exact match count.
// Both statements travel in one batch.
func (s *Store) Select(ctx context.Context, q *db.SelectQuery) (*db.Window, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	countSQL, pageSQL, args := buildSelect(q)

	batch := &pgx.Batch{}
	batch.Queue(countSQL, args...)
	batch.Queue(pageSQL, slices.Concat(args, []any{q.Offset, q.Limit})...)

	br := s.pool.SendBatch(ctx, batch)
	defer func() { _ = br.Close() }()

	var total int64
	if err := br.QueryRow().Scan(&total); err != nil {
		return nil, &db.Error{Op: db.OpCount, Err: err}
	}

	rows, err := br.Query()
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	out, err := collectRows(rows)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	return &db.Window{Rows: out, Total: int(total)}, nil
}

// SelectOne returns the first row whose column equals value (compared as text).
func (s *Store) SelectOne(ctx context.Context, table, column, value string) (db.Row, error) {
	q, err := db.From(table).Eq(column, value).Range(0, 1).Build()
	if err != nil {
		return nil, err
	}

	_, pageSQL, args := buildSelect(q)
	rows, err := s.pool.Query(ctx, pageSQL, slices.Concat(args, []any{q.Offset, q.Limit})...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	out, err := collectRows(rows)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	if len(out) == 0 {
		return nil, db.ErrRowNotFound
	}
	return out[0], nil
}

// Distinct returns the sorted distinct non-null values of column.
func (s *Store) Distinct(ctx context.Context, table, column string) ([]string, error) {
	if !db.ValidIdentifier(table) || !db.ValidIdentifier(column) {
		return nil, fmt.Errorf("%w: %s.%s", db.ErrInvalidQuery, table, column)
	}

	col := ident(column)
	sql := fmt.Sprintf("SELECT DISTINCT %s::text FROM %s WHERE %s IS NOT NULL ORDER BY 1", col, ident(table), col)
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, &db.Error{Op: db.OpDistinct, Err: err}
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, &db.Error{Op: db.OpDistinct, Err: err}
	}
	return values, nil
}

// Call invokes a zero-argument server-side function returning a number.
// A NULL result yields (nil, nil).
func (s *Store) Call(ctx context.Context, fn string) (*float64, error) {
	if !db.ValidIdentifier(fn) {
		return nil, fmt.Errorf("%w: function name %q", db.ErrInvalidQuery, fn)
	}

	var v *float64
	if err := s.pool.QueryRow(ctx, "SELECT "+ident(fn)+"()").Scan(&v); err != nil {
		return nil, &db.Error{Op: db.OpCall, Err: fmt.Errorf("%s: %w", fn, err)}
	}
	return v, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func collectRows(rows pgx.Rows) ([]db.Row, error) {
	defer rows.Close()

	var out []db.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		fields := rows.FieldDescriptions()
		if len(fields) != len(values) {
			return nil, errors.New("row shape does not match field descriptions")
		}
		r := make(db.Row, len(values))
		for i, v := range values {
			r[fields[i].Name] = convertValue(v)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// convertValue maps pgx's decoded Go values onto the plain types the
// product decoder understands.
func convertValue(v any) any {
	switch t := v.(type) {
	case pgtype.Numeric:
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(t).String()
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}
