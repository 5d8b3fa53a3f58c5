package domain

// KeyPrefix namespaces every key catalogd writes to the cache store.
const KeyPrefix = "catalogd:"

// Pagination defaults shared by the transport and the resolver.
const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)
