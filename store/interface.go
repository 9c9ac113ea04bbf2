package store

import "context"

// Backend holds the whole JSON document of one collection. Every Write
// replaces the entire document; there are no partial updates.
type Backend interface {
	// EnsureExists creates the document containing an empty array if it is
	// absent. An existing document is left untouched.
	EnsureExists(ctx context.Context) error
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, doc []byte) error
}
