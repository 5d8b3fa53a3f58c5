package catalog

import (
	"context"
	"testing"

	"github.com/kailas-cloud/catalogd/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	selectFn    func(ctx context.Context, q *db.SelectQuery) (*db.Window, error)
	selectOneFn func(ctx context.Context, table, column, value string) (db.Row, error)
	distinctFn  func(ctx context.Context, table, column string) ([]string, error)
	callFn      func(ctx context.Context, fn string) (*float64, error)
}

func (m *mockStore) Select(ctx context.Context, q *db.SelectQuery) (*db.Window, error) {
	if m.selectFn != nil {
		return m.selectFn(ctx, q)
	}
	return &db.Window{}, nil
}

func (m *mockStore) SelectOne(ctx context.Context, table, column, value string) (db.Row, error) {
	if m.selectOneFn != nil {
		return m.selectOneFn(ctx, table, column, value)
	}
	return nil, db.ErrRowNotFound
}

func (m *mockStore) Distinct(ctx context.Context, table, column string) ([]string, error) {
	if m.distinctFn != nil {
		return m.distinctFn(ctx, table, column)
	}
	return nil, nil
}

func (m *mockStore) Call(ctx context.Context, fn string) (*float64, error) {
	if m.callFn != nil {
		return m.callFn(ctx, fn)
	}
	return nil, nil
}

func newTestRepo(t *testing.T, opts ...Option) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, opts...), ms
}

func row(id any, name, brand, category string, price any) db.Row {
	return db.Row{
		"id":       id,
		"name":     name,
		"brand":    brand,
		"category": category,
		"price":    price,
	}
}

func ptr(v float64) *float64 { return &v }
