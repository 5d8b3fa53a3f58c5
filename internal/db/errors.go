package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrRowNotFound   = errors.New("db: row not found")
	ErrNotConfigured = errors.New("db: backend not configured")
	ErrInvalidQuery  = errors.New("db: invalid query")
)

// Op constants name the backend operation for error context.
const (
	OpPing     = "PING"
	OpGet      = "GET"
	OpSet      = "SET"
	OpSelect   = "SELECT"
	OpCount    = "SELECT COUNT"
	OpDistinct = "SELECT DISTINCT"
	OpCall     = "SELECT FUNCTION"
	OpConnect  = "CONNECT"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
