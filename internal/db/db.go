package db

import (
	"context"
	"time"
)

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore is the cache backend facade.
type KVStore interface {
	Pinger
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Row is a single result row keyed by column name.
type Row map[string]any

// Window is one page of rows together with the exact count of matching rows.
type Window struct {
	Rows  []Row
	Total int
}

// RowStore is the structured-query backend facade.
//
//nolint:interfacebloat // facade -- consumers declare the narrow subset they use
type RowStore interface {
	Pinger
	Select(ctx context.Context, q *SelectQuery) (*Window, error)
	SelectOne(ctx context.Context, table, column string, value string) (Row, error)
	Distinct(ctx context.Context, table, column string) ([]string, error)
	Call(ctx context.Context, fn string) (*float64, error)
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}
