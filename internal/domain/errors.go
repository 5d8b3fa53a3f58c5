package domain

import "errors"

var (
	// ErrNotFound signals that an authoritative source has no such product.
	ErrNotFound = errors.New("product not found")
	// ErrUnavailable signals a transport or configuration failure of a source.
	ErrUnavailable = errors.New("source unavailable")
	// ErrMalformed signals a response or row that does not decode into the canonical shape.
	ErrMalformed = errors.New("malformed record")
	// ErrInvalidQuery signals a query rejected at the caller boundary.
	ErrInvalidQuery = errors.New("invalid query")
)
