package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- Fakes ---

type fakeRows struct {
	fields []string
	data   [][]any
	idx    int
	err    error
	closed bool
}

func newRows(fields []string, data ...[]any) *fakeRows {
	return &fakeRows{fields: fields, data: data, idx: -1}
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) RawValues() [][]byte           { return nil }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.fields))
	for i, f := range r.fields {
		out[i] = pgconn.FieldDescription{Name: f}
	}
	return out
}

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.idx], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanInto(r.data[r.idx], dest)
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.values, dest)
}

func scanInto(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d targets", len(values), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = values[i].(string)
		case *int64:
			*p = values[i].(int64)
		case **float64:
			if values[i] == nil {
				*p = nil
				continue
			}
			f := values[i].(float64)
			*p = &f
		default:
			return fmt.Errorf("scan: unsupported target %T", d)
		}
	}
	return nil
}

type fakeBatchResults struct {
	count    fakeRow
	page     *fakeRows
	pageErr  error
	closed   bool
	closeErr error
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, nil }
func (b *fakeBatchResults) QueryRow() pgx.Row                { return b.count }
func (b *fakeBatchResults) Close() error {
	b.closed = true
	return b.closeErr
}

func (b *fakeBatchResults) Query() (pgx.Rows, error) {
	if b.pageErr != nil {
		return nil, b.pageErr
	}
	return b.page, nil
}

type fakePool struct {
	rows      *fakeRows
	queryErr  error
	row       fakeRow
	batch     *fakeBatchResults
	pingErr   error
	closed    bool
	lastSQL   string
	lastArgs  []any
	lastBatch *pgx.Batch
}

func (p *fakePool) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.lastSQL, p.lastArgs = sql, args
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	return p.rows, nil
}

func (p *fakePool) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	p.lastSQL, p.lastArgs = sql, args
	return p.row
}

func (p *fakePool) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	p.lastBatch = b
	return p.batch
}

func (p *fakePool) Ping(_ context.Context) error { return p.pingErr }
func (p *fakePool) Close()                       { p.closed = true }
